package data

import (
	"fmt"
	"slices"
	"strings"

	"github.com/udisondev/craftcore/internal/game/craft"
	"github.com/udisondev/craftcore/internal/model"
)

// RecipeCatalog — каталог рецептов, индексированный по ID и по результату.
// Реализует craft.RecipeSource.
type RecipeCatalog struct {
	byID     map[string]*craft.Recipe
	byResult map[model.ItemTypeID][]*craft.Recipe
	all      []*craft.Recipe // sorted by ID
	Digest   string
}

// NewRecipeCatalog строит каталог. Рецепт, не прошедший Validate, или
// дубликат ID — ошибка.
func NewRecipeCatalog(recipes ...*craft.Recipe) (*RecipeCatalog, error) {
	c := &RecipeCatalog{
		byID:     make(map[string]*craft.Recipe, len(recipes)),
		byResult: make(map[model.ItemTypeID][]*craft.Recipe),
	}
	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate recipe %q", r.ID)
		}
		c.byID[r.ID] = r
		c.all = append(c.all, r)
	}
	slices.SortFunc(c.all, func(a, b *craft.Recipe) int {
		return strings.Compare(a.ID, b.ID)
	})
	for _, r := range c.all {
		if r.Result != "" {
			c.byResult[r.Result] = append(c.byResult[r.Result], r)
		}
	}
	return c, nil
}

// Recipe returns the recipe with the given ID.
func (c *RecipeCatalog) Recipe(id string) (*craft.Recipe, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// All returns every recipe sorted by ID.
func (c *RecipeCatalog) All() []*craft.Recipe {
	return c.all
}

// ByResult returns the recipes producing typ, sorted by ID.
func (c *RecipeCatalog) ByResult(typ model.ItemTypeID) []*craft.Recipe {
	return c.byResult[typ]
}

// ByCategory returns the recipes of a category, sorted by ID.
func (c *RecipeCatalog) ByCategory(category string) []*craft.Recipe {
	var result []*craft.Recipe
	for _, r := range c.all {
		if r.Category == category {
			result = append(result, r)
		}
	}
	return result
}

// recipeDef is the YAML shape of one recipe. Each slot is a list of
// alternatives:
//
//	tools:
//	  - - quality: HAMMER
//	      level: 2
//	components:
//	  - - item: plank
//	      count: 4
//	    - item: log
type recipeDef struct {
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name"`
	Category   string             `yaml:"category"`
	Result     string             `yaml:"result"`
	ResultMult int32              `yaml:"result_mult"`
	Tools      [][]requirementDef `yaml:"tools"`
	Components [][]requirementDef `yaml:"components"`
}

type requirementDef struct {
	Item           string `yaml:"item"`
	Quality        string `yaml:"quality"`
	Level          int32  `yaml:"level"`
	Count          *int32 `yaml:"count"`
	Charges        int32  `yaml:"charges"`
	ChargesPercent int32  `yaml:"charges_percent"`
}

func (d recipeDef) toRecipe() (*craft.Recipe, error) {
	r := &craft.Recipe{
		ID:         d.ID,
		Name:       d.Name,
		Category:   d.Category,
		Result:     model.ItemTypeID(d.Result),
		ResultMult: d.ResultMult,
	}
	if r.Name == "" {
		r.Name = d.ID
	}
	if r.ResultMult == 0 {
		r.ResultMult = 1
	}

	var err error
	if r.Tools, err = toSlots(d.Tools, craft.AxisTool); err != nil {
		return nil, fmt.Errorf("recipe %s: %w", d.ID, err)
	}
	if r.Components, err = toSlots(d.Components, craft.AxisComponent); err != nil {
		return nil, fmt.Errorf("recipe %s: %w", d.ID, err)
	}
	return r, nil
}

func toSlots(defs [][]requirementDef, axis craft.Axis) ([]craft.Slot, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	slots := make([]craft.Slot, len(defs))
	for si, alts := range defs {
		slot := make(craft.Slot, len(alts))
		for ai, alt := range alts {
			req, err := alt.toRequirement()
			if err != nil {
				return nil, fmt.Errorf("%s alternative %d: %w", craft.SlotID{Axis: axis, Index: si}, ai, err)
			}
			slot[ai] = req
		}
		slots[si] = slot
	}
	return slots, nil
}

func (d requirementDef) toRequirement() (craft.Requirement, error) {
	var count int32 = 1
	if d.Count != nil {
		count = *d.Count
	}

	var charges craft.ChargeMode
	switch {
	case d.Charges != 0 && d.ChargesPercent != 0:
		return craft.Requirement{}, fmt.Errorf("charges and charges_percent are mutually exclusive")
	case d.Charges != 0:
		charges = craft.ExactCharges(d.Charges)
	case d.ChargesPercent != 0:
		charges = craft.PercentOfMax(d.ChargesPercent)
	default:
		charges = craft.NoCharges()
	}

	switch {
	case d.Item != "" && d.Quality != "":
		return craft.Requirement{}, fmt.Errorf("item and quality are mutually exclusive")
	case d.Item != "":
		return craft.Exact(model.ItemTypeID(d.Item), count, charges), nil
	case d.Quality != "":
		level := d.Level
		if level == 0 {
			level = 1
		}
		return craft.Quality(model.QualityID(d.Quality), level, count, charges), nil
	default:
		return craft.Requirement{}, fmt.Errorf("either item or quality is required")
	}
}
