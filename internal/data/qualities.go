package data

import (
	"fmt"
	"slices"

	"github.com/udisondev/craftcore/internal/model"
)

// Quality is a capability tag an item type can carry (HAMMER, CUT, ...).
type Quality struct {
	ID   model.QualityID
	Name string
}

// QualityCatalog — каталог известных качеств.
type QualityCatalog struct {
	byID   map[model.QualityID]Quality
	ids    []model.QualityID
	Digest string
}

// NewQualityCatalog строит каталог качеств. Дубликаты — ошибка.
func NewQualityCatalog(qualities ...Quality) (*QualityCatalog, error) {
	c := &QualityCatalog{byID: make(map[model.QualityID]Quality, len(qualities))}
	for _, q := range qualities {
		if q.ID == "" {
			return nil, fmt.Errorf("quality with empty id")
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate quality %q", q.ID)
		}
		c.byID[q.ID] = q
		c.ids = append(c.ids, q.ID)
	}
	slices.Sort(c.ids)
	return c, nil
}

// Get returns the quality or false.
func (c *QualityCatalog) Get(id model.QualityID) (Quality, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// IDs returns all quality IDs in sorted order.
func (c *QualityCatalog) IDs() []model.QualityID {
	return c.ids
}

type qualityDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}
