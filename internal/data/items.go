package data

import (
	"fmt"
	"slices"

	"github.com/udisondev/craftcore/internal/model"
)

// ItemCatalog — неизменяемый каталог item types.
// Реализует craft.ItemTypeCatalog.
type ItemCatalog struct {
	byID   map[model.ItemTypeID]*model.ItemType
	ids    []model.ItemTypeID // sorted
	Digest string
}

// NewItemCatalog строит каталог из типов. Дубликаты ID и пустые ID — ошибка.
func NewItemCatalog(types ...*model.ItemType) (*ItemCatalog, error) {
	c := &ItemCatalog{byID: make(map[model.ItemTypeID]*model.ItemType, len(types))}
	for _, t := range types {
		if t == nil || t.ID == "" {
			return nil, fmt.Errorf("item type with empty id")
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate item type %q", t.ID)
		}
		c.byID[t.ID] = t
		c.ids = append(c.ids, t.ID)
	}
	slices.Sort(c.ids)
	return c, nil
}

// Get returns the item type or false.
func (c *ItemCatalog) Get(id model.ItemTypeID) (*model.ItemType, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// IDs returns all item type IDs in sorted order.
func (c *ItemCatalog) IDs() []model.ItemTypeID {
	return c.ids
}

// Len returns the number of item types.
func (c *ItemCatalog) Len() int {
	return len(c.ids)
}

// CountByCharges reports whether quantities of id are measured in charges.
// Unknown types count by units.
func (c *ItemCatalog) CountByCharges(id model.ItemTypeID) bool {
	t, ok := c.byID[id]
	return ok && t.CountByCharges
}

// MaxCharges returns the charge capacity of id, false if it has none.
func (c *ItemCatalog) MaxCharges(id model.ItemTypeID) (int32, bool) {
	t, ok := c.byID[id]
	if !ok || t.MaxCharges <= 0 {
		return 0, false
	}
	return t.MaxCharges, true
}

// ProvidesQuality returns the IDs of item types carrying q at level or above.
func (c *ItemCatalog) ProvidesQuality(q model.QualityID, level int32) []model.ItemTypeID {
	var result []model.ItemTypeID
	for _, id := range c.ids {
		if lvl, ok := c.byID[id].QualityLevel(q); ok && lvl >= level {
			result = append(result, id)
		}
	}
	return result
}

// itemDef is the YAML shape of one entry in items.yaml.
type itemDef struct {
	ID             string           `yaml:"id"`
	Name           string           `yaml:"name"`
	Category       string           `yaml:"category"`
	Weight         int32            `yaml:"weight"`
	Stackable      bool             `yaml:"stackable"`
	CountByCharges bool             `yaml:"count_by_charges"`
	MaxCharges     int32            `yaml:"max_charges"`
	Qualities      map[string]int32 `yaml:"qualities"`
}

func (d itemDef) toItemType() (*model.ItemType, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("item with empty id")
	}
	if d.MaxCharges < 0 {
		return nil, fmt.Errorf("item %s: negative max_charges %d", d.ID, d.MaxCharges)
	}
	if d.CountByCharges && d.MaxCharges == 0 {
		return nil, fmt.Errorf("item %s: count_by_charges requires max_charges", d.ID)
	}

	t := &model.ItemType{
		ID:             model.ItemTypeID(d.ID),
		Name:           d.Name,
		Category:       d.Category,
		Weight:         d.Weight,
		Stackable:      d.Stackable,
		CountByCharges: d.CountByCharges,
		MaxCharges:     d.MaxCharges,
	}
	if t.Name == "" {
		t.Name = d.ID
	}
	if len(d.Qualities) > 0 {
		t.Qualities = make(map[model.QualityID]int32, len(d.Qualities))
		for q, lvl := range d.Qualities {
			if lvl <= 0 {
				return nil, fmt.Errorf("item %s: quality %s level must be > 0, got %d", d.ID, q, lvl)
			}
			t.Qualities[model.QualityID(q)] = lvl
		}
	}
	return t, nil
}
