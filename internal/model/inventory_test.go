package model

import (
	"testing"
)

func newTestInventory(t *testing.T, items ...*Item) *Inventory {
	t.Helper()
	inv := NewInventory(1, ItemLocationCarried)
	for _, item := range items {
		if err := inv.AddItem(item); err != nil {
			t.Fatalf("AddItem(%s) error = %v", item, err)
		}
	}
	return inv
}

func TestInventory_AddItem(t *testing.T) {
	inv := NewInventory(0, ItemLocationGround)
	rock := mustItem(t, 1, testRock, 3, 0)

	if err := inv.AddItem(rock); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if rock.Location() != ItemLocationGround {
		t.Errorf("Location() = %s, want Ground", rock.Location())
	}
	if err := inv.AddItem(rock); err == nil {
		t.Error("AddItem() duplicate objectID: error = nil, want error")
	}
	if err := inv.AddItem(nil); err == nil {
		t.Error("AddItem(nil) error = nil, want error")
	}
	if inv.Count() != 1 {
		t.Errorf("Count() = %d, want 1", inv.Count())
	}
}

func TestInventory_ItemsOrder(t *testing.T) {
	inv := newTestInventory(t,
		mustItem(t, 30, testRock, 1, 0),
		mustItem(t, 10, testHammer, 1, 0),
		mustItem(t, 20, testRock, 1, 0),
	)

	items := inv.Items()
	want := []uint32{10, 20, 30}
	if len(items) != len(want) {
		t.Fatalf("Items() returned %d items, want %d", len(items), len(want))
	}
	for i, id := range want {
		if items[i].ObjectID() != id {
			t.Errorf("Items()[%d] = %d, want %d", i, items[i].ObjectID(), id)
		}
	}
}

func TestInventory_Counts(t *testing.T) {
	inv := newTestInventory(t,
		mustItem(t, 1, testRock, 3, 0),
		mustItem(t, 2, testRock, 2, 0),
		mustItem(t, 3, testHammer, 1, 0),
		mustItem(t, 4, testThread, 1, 40),
		mustItem(t, 5, testThread, 1, 60),
	)

	if got := inv.CountUnits("rock"); got != 5 {
		t.Errorf("CountUnits(rock) = %d, want 5", got)
	}
	if got := inv.CountCharges("thread"); got != 100 {
		t.Errorf("CountCharges(thread) = %d, want 100", got)
	}
	if got := inv.CountQuality("HAMMER", 1); got != 6 {
		t.Errorf("CountQuality(HAMMER, 1) = %d, want 6", got)
	}
	if got := inv.CountQuality("HAMMER", 2); got != 1 {
		t.Errorf("CountQuality(HAMMER, 2) = %d, want 1", got)
	}
	if !inv.HasUnits("rock", 5) || inv.HasUnits("rock", 6) {
		t.Error("HasUnits(rock) boundary is wrong")
	}
	if !inv.HasCharges("thread", 100) || inv.HasCharges("thread", 101) {
		t.Error("HasCharges(thread) boundary is wrong")
	}
	if !inv.HasQuality("HAMMER", 3, 1) || inv.HasQuality("HAMMER", 3, 2) {
		t.Error("HasQuality(HAMMER, 3) boundary is wrong")
	}
}

func TestInventory_RemoveUnits(t *testing.T) {
	first := mustItem(t, 1, testRock, 3, 0)
	second := mustItem(t, 2, testRock, 4, 0)
	inv := newTestInventory(t, first, second)

	removed, err := inv.RemoveUnits("rock", 5)
	if err != nil {
		t.Fatalf("RemoveUnits() error = %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("RemoveUnits() returned %d parts, want 2", len(removed))
	}
	if removed[0].ObjectID() != 1 || removed[0].Count() != 3 {
		t.Errorf("first part = %s, want rock#1(x3)", removed[0])
	}
	if removed[1].ObjectID() != 2 || removed[1].Count() != 2 {
		t.Errorf("second part = %s, want rock#2(x2)", removed[1])
	}

	if inv.GetItem(1) != nil {
		t.Error("drained stack still in inventory")
	}
	if first.Location() != ItemLocationVoid {
		t.Errorf("drained stack Location() = %s, want Void", first.Location())
	}
	if second.Count() != 2 {
		t.Errorf("remaining stack Count() = %d, want 2", second.Count())
	}
}

func TestInventory_RemoveUnitsAllOrNothing(t *testing.T) {
	rock := mustItem(t, 1, testRock, 3, 0)
	inv := newTestInventory(t, rock)

	if _, err := inv.RemoveUnits("rock", 4); err == nil {
		t.Fatal("RemoveUnits() over stock: error = nil, want error")
	}
	if rock.Count() != 3 {
		t.Errorf("Count() = %d after failed removal, want 3", rock.Count())
	}
	if _, err := inv.RemoveUnits("rock", 0); err == nil {
		t.Error("RemoveUnits(0) error = nil, want error")
	}
}

func TestInventory_RemoveCharges(t *testing.T) {
	a := mustItem(t, 1, testThread, 1, 30)
	b := mustItem(t, 2, testThread, 1, 30)
	inv := newTestInventory(t, a, b)

	removed, err := inv.RemoveCharges("thread", 50)
	if err != nil {
		t.Fatalf("RemoveCharges() error = %v", err)
	}
	if len(removed) != 2 || removed[0].Charges() != 30 || removed[1].Charges() != 20 {
		t.Fatalf("RemoveCharges() parts = %v, want 30 + 20 charges", removed)
	}
	if inv.GetItem(1) != nil {
		t.Error("spool drained to 0 charges must leave the inventory")
	}
	if b.Charges() != 10 {
		t.Errorf("remaining spool Charges() = %d, want 10", b.Charges())
	}

	if _, err := inv.RemoveCharges("thread", 11); err == nil {
		t.Error("RemoveCharges() over stock: error = nil, want error")
	}
	if b.Charges() != 10 {
		t.Errorf("Charges() = %d after failed removal, want 10", b.Charges())
	}
}

func TestInventory_Take(t *testing.T) {
	iron := mustItem(t, 1, testIron, 1, 80)
	rocks := mustItem(t, 2, testRock, 4, 0)
	inv := newTestInventory(t, iron, rocks)

	part, err := inv.Take(1, 0, 80)
	if err != nil {
		t.Fatalf("Take(iron, charges) error = %v", err)
	}
	if part.Charges() != 80 {
		t.Errorf("part Charges() = %d, want 80", part.Charges())
	}
	if inv.GetItem(1) != iron {
		t.Error("tool drained of charges must stay in inventory")
	}

	part, err = inv.Take(2, 4, 0)
	if err != nil {
		t.Fatalf("Take(rocks, units) error = %v", err)
	}
	if part.Count() != 4 || inv.GetItem(2) != nil {
		t.Errorf("Take() whole stack: part = %s, still present = %v", part, inv.GetItem(2) != nil)
	}

	tests := []struct {
		name     string
		objectID uint32
		units    int32
		charges  int32
	}{
		{name: "unknown item", objectID: 99, units: 1},
		{name: "nothing to take", objectID: 1},
		{name: "units and charges", objectID: 1, units: 1, charges: 1},
		{name: "too many units", objectID: 1, units: 2},
		{name: "too many charges", objectID: 1, charges: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := inv.Take(tt.objectID, tt.units, tt.charges); err == nil {
				t.Error("Take() error = nil, want error")
			}
		})
	}
}

func TestInventory_RemoveItem(t *testing.T) {
	rock := mustItem(t, 1, testRock, 1, 0)
	inv := newTestInventory(t, rock)

	if got := inv.RemoveItem(1); got != rock {
		t.Errorf("RemoveItem() = %v, want %v", got, rock)
	}
	if got := inv.RemoveItem(1); got != nil {
		t.Errorf("RemoveItem() second time = %v, want nil", got)
	}
	if rock.Location() != ItemLocationVoid {
		t.Errorf("Location() = %s, want Void", rock.Location())
	}
}
