package testutil

import (
	"sync/atomic"
	"testing"

	"github.com/udisondev/craftcore/internal/model"
)

// Fixtures содержит предопределённые item types для тестов крафта.
var Fixtures = struct {
	Knife         *model.ItemType
	PlantFiber    *model.ItemType
	Rock          *model.ItemType
	Hammer        *model.ItemType
	StoneHammer   *model.ItemType
	SolderingIron *model.ItemType
	Battery       *model.ItemType
	Thread        *model.ItemType
	WeldingMask   *model.ItemType
	Plank         *model.ItemType
}{
	Knife: &model.ItemType{
		ID: "knife", Name: "knife", Category: "tools",
		Qualities: map[model.QualityID]int32{"CUT": 2},
	},
	PlantFiber: &model.ItemType{
		ID: "plant_fiber", Name: "plant fiber", Category: "spare_parts", Stackable: true,
	},
	Rock: &model.ItemType{
		ID: "rock", Name: "rock", Category: "spare_parts", Stackable: true,
		Qualities: map[model.QualityID]int32{"HAMMER": 1},
	},
	Hammer: &model.ItemType{
		ID: "hammer", Name: "hammer", Category: "tools",
		Qualities: map[model.QualityID]int32{"HAMMER": 3},
	},
	StoneHammer: &model.ItemType{
		ID: "stone_hammer", Name: "stone hammer", Category: "tools",
		Qualities: map[model.QualityID]int32{"HAMMER": 2},
	},
	SolderingIron: &model.ItemType{
		ID: "soldering_iron", Name: "soldering iron", Category: "tools", MaxCharges: 100,
		Qualities: map[model.QualityID]int32{"SOLDER": 1},
	},
	Battery: &model.ItemType{
		ID: "battery", Name: "battery", Category: "spare_parts", CountByCharges: true, MaxCharges: 100,
	},
	Thread: &model.ItemType{
		ID: "thread", Name: "thread", Category: "spare_parts", CountByCharges: true, MaxCharges: 200,
	},
	WeldingMask: &model.ItemType{
		ID: "welding_mask", Name: "welding mask", Category: "clothing",
		Qualities: map[model.QualityID]int32{"GLARE": 1},
	},
	Plank: &model.ItemType{
		ID: "plank", Name: "plank", Category: "spare_parts", Stackable: true,
	},
}

// Catalog — in-memory item type catalog для тестов.
// Реализует craft.ItemTypeCatalog и выдаёт уникальные objectID.
type Catalog struct {
	types  map[model.ItemTypeID]*model.ItemType
	nextID atomic.Uint32
}

// NewCatalog создаёт каталог из переданных типов; без аргументов — из Fixtures.
func NewCatalog(types ...*model.ItemType) *Catalog {
	if len(types) == 0 {
		f := Fixtures
		types = []*model.ItemType{
			f.Knife, f.PlantFiber, f.Rock, f.Hammer, f.StoneHammer,
			f.SolderingIron, f.Battery, f.Thread, f.WeldingMask, f.Plank,
		}
	}
	c := &Catalog{types: make(map[model.ItemTypeID]*model.ItemType, len(types))}
	for _, t := range types {
		c.types[t.ID] = t
	}
	return c
}

// Type returns the item type or nil.
func (c *Catalog) Type(id model.ItemTypeID) *model.ItemType {
	return c.types[id]
}

// CountByCharges implements craft.ItemTypeCatalog.
func (c *Catalog) CountByCharges(id model.ItemTypeID) bool {
	t := c.types[id]
	return t != nil && t.CountByCharges
}

// MaxCharges implements craft.ItemTypeCatalog.
func (c *Catalog) MaxCharges(id model.ItemTypeID) (int32, bool) {
	t := c.types[id]
	if t == nil || t.MaxCharges <= 0 {
		return 0, false
	}
	return t.MaxCharges, true
}

// NewItem создаёт предмет типа id с уникальным objectID.
func (c *Catalog) NewItem(tb testing.TB, id model.ItemTypeID, count, charges int32) *model.Item {
	tb.Helper()

	t := c.types[id]
	if t == nil {
		tb.Fatalf("unknown fixture item type %q", id)
	}
	item, err := model.NewItem(c.nextID.Add(1), t, count, charges)
	if err != nil {
		tb.Fatalf("NewItem(%s, %d, %d): %v", id, count, charges, err)
	}
	return item
}

// Put создаёт предмет и кладёт его в inv.
func (c *Catalog) Put(tb testing.TB, inv *model.Inventory, id model.ItemTypeID, count, charges int32) *model.Item {
	tb.Helper()

	item := c.NewItem(tb, id, count, charges)
	if err := inv.AddItem(item); err != nil {
		tb.Fatalf("AddItem(%s): %v", item, err)
	}
	return item
}

// Player returns an empty carried inventory.
func Player() *model.Inventory {
	return model.NewInventory(1, model.ItemLocationCarried)
}

// Ground returns an empty ground inventory.
func Ground() *model.Inventory {
	return model.NewInventory(0, model.ItemLocationGround)
}
