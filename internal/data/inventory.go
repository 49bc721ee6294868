package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/craftcore/internal/model"
)

// Surroundings is a crafter's inventory plus everything within reach.
type Surroundings struct {
	Player *model.Inventory
	Nearby *model.InventorySet
}

// inventoryDef is the YAML shape of an inventory snapshot:
//
//	player:
//	  - item: knife
//	  - item: plant_fiber
//	    count: 25
//	ground:
//	  - - item: rock      # one list per tile
//	vehicle:
//	  - item: battery
//	    charges: 80
type inventoryDef struct {
	Player  []stackDef   `yaml:"player"`
	Ground  [][]stackDef `yaml:"ground"`
	Vehicle []stackDef   `yaml:"vehicle"`
}

type stackDef struct {
	Item    string `yaml:"item"`
	Count   int32  `yaml:"count"`
	Charges int32  `yaml:"charges"`
}

// LoadSurroundings reads an inventory snapshot file and instantiates its
// items from items. ObjectIDs are assigned in file order starting at 1.
func LoadSurroundings(path string, items *ItemCatalog) (*Surroundings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var def inventoryDef
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return def.build(items)
}

func (d inventoryDef) build(items *ItemCatalog) (*Surroundings, error) {
	var nextID uint32
	fill := func(inv *model.Inventory, stacks []stackDef, where string) error {
		for i, s := range stacks {
			t, ok := items.Get(model.ItemTypeID(s.Item))
			if !ok {
				return fmt.Errorf("%s[%d]: unknown item type %q", where, i, s.Item)
			}
			count := s.Count
			if count == 0 {
				count = 1
			}
			charges := s.Charges
			if charges == 0 && t.CountByCharges {
				charges = t.MaxCharges
			}
			nextID++
			item, err := model.NewItem(nextID, t, count, charges)
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", where, i, err)
			}
			if err := inv.AddItem(item); err != nil {
				return fmt.Errorf("%s[%d]: %w", where, i, err)
			}
		}
		return nil
	}

	s := &Surroundings{
		Player: model.NewInventory(1, model.ItemLocationCarried),
		Nearby: model.NewInventorySet(),
	}
	if err := fill(s.Player, d.Player, "player"); err != nil {
		return nil, err
	}
	for ti, tile := range d.Ground {
		inv := model.NewInventory(0, model.ItemLocationGround)
		if err := fill(inv, tile, fmt.Sprintf("ground[%d]", ti)); err != nil {
			return nil, err
		}
		s.Nearby.Add(inv)
	}
	if len(d.Vehicle) > 0 {
		inv := model.NewInventory(0, model.ItemLocationVehicle)
		if err := fill(inv, d.Vehicle, "vehicle"); err != nil {
			return nil, err
		}
		s.Nearby.Add(inv)
	}
	return s, nil
}
