package model

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Inventory — хранилище предметов одного источника: то, что несёт персонаж,
// одна клетка земли, или багажник транспорта.
type Inventory struct {
	ownerID  int64        // Character ID владельца (0 для ground/vehicle)
	location ItemLocation // Location, присваиваемая добавленным предметам

	items map[uint32]*Item // objectID → Item

	mu sync.RWMutex
}

// NewInventory создаёт новый инвентарь.
//
// Parameters:
//   - ownerID: character ID владельца (0 если инвентарь никому не принадлежит)
//   - location: где физически лежат предметы (Carried, Ground, Vehicle)
func NewInventory(ownerID int64, location ItemLocation) *Inventory {
	return &Inventory{
		ownerID:  ownerID,
		location: location,
		items:    make(map[uint32]*Item),
	}
}

// OwnerID возвращает character ID владельца.
func (inv *Inventory) OwnerID() int64 {
	return inv.ownerID
}

// Location возвращает location предметов этого инвентаря.
func (inv *Inventory) Location() ItemLocation {
	return inv.location
}

// AddItem добавляет item в inventory.
//
// Returns:
//   - error: если item nil или уже существует
func (inv *Inventory) AddItem(item *Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	objectID := item.ObjectID()
	if _, exists := inv.items[objectID]; exists {
		return fmt.Errorf("item objectID=%d already exists in inventory", objectID)
	}

	inv.items[objectID] = item
	item.SetLocation(inv.location)
	return nil
}

// RemoveItem удаляет item целиком.
// Returns nil если не найден.
func (inv *Inventory) RemoveItem(objectID uint32) *Item {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	item, exists := inv.items[objectID]
	if !exists {
		return nil
	}
	delete(inv.items, objectID)
	item.SetLocation(ItemLocationVoid)
	return item
}

// GetItem возвращает item по objectID (nil если не найден).
func (inv *Inventory) GetItem(objectID uint32) *Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.items[objectID]
}

// Items возвращает все предметы в порядке возрастания objectID.
// Порядок стабилен между вызовами, пока инвентарь не меняется.
func (inv *Inventory) Items() []*Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.sortedLocked()
}

// Count возвращает количество предметов (не units).
func (inv *Inventory) Count() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(inv.items)
}

func (inv *Inventory) sortedLocked() []*Item {
	result := make([]*Item, 0, len(inv.items))
	for _, item := range inv.items {
		result = append(result, item)
	}
	slices.SortFunc(result, func(a, b *Item) int {
		return cmp.Compare(a.ObjectID(), b.ObjectID())
	})
	return result
}

// CountUnits возвращает суммарное количество units предметов типа typ.
func (inv *Inventory) CountUnits(typ ItemTypeID) int32 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var total int32
	for _, item := range inv.items {
		if item.TypeID() == typ {
			total += item.Count()
		}
	}
	return total
}

// CountCharges возвращает суммарные charges предметов типа typ.
func (inv *Inventory) CountCharges(typ ItemTypeID) int32 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var total int32
	for _, item := range inv.items {
		if item.TypeID() == typ {
			total += item.Charges()
		}
	}
	return total
}

// CountQuality возвращает количество units предметов с качеством q >= level.
func (inv *Inventory) CountQuality(q QualityID, level int32) int32 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var total int32
	for _, item := range inv.items {
		if lvl, ok := item.QualityLevel(q); ok && lvl >= level {
			total += item.Count()
		}
	}
	return total
}

// HasUnits reports whether at least count units of typ are present.
func (inv *Inventory) HasUnits(typ ItemTypeID, count int32) bool {
	return inv.CountUnits(typ) >= count
}

// HasCharges reports whether at least count charges of typ are present.
func (inv *Inventory) HasCharges(typ ItemTypeID, count int32) bool {
	return inv.CountCharges(typ) >= count
}

// HasQuality reports whether at least count units carry quality q at level or above.
func (inv *Inventory) HasQuality(q QualityID, level, count int32) bool {
	return inv.CountQuality(q, level) >= count
}

// RemoveUnits удаляет count units типа typ, проходя предметы по возрастанию objectID.
// Либо удаляет всё запрошенное, либо ничего (error при нехватке).
//
// Returns:
//   - []*Item: snapshots удалённых частей (count = сколько снято с каждого стака)
func (inv *Inventory) RemoveUnits(typ ItemTypeID, count int32) ([]*Item, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be > 0, got %d", count)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	var have int32
	for _, item := range inv.items {
		if item.TypeID() == typ {
			have += item.Count()
		}
	}
	if have < count {
		return nil, fmt.Errorf("not enough %s: have %d units, need %d", typ, have, count)
	}

	removed := make([]*Item, 0, 2)
	left := count
	for _, item := range inv.sortedLocked() {
		if left == 0 {
			break
		}
		if item.TypeID() != typ {
			continue
		}
		part, err := inv.takeLocked(item, min(left, item.Count()), 0)
		if err != nil {
			return removed, err
		}
		removed = append(removed, part)
		left -= part.Count()
	}
	return removed, nil
}

// RemoveCharges снимает count charges с предметов типа typ по возрастанию objectID.
// By-charges предметы, опустевшие до нуля, удаляются из инвентаря.
func (inv *Inventory) RemoveCharges(typ ItemTypeID, count int32) ([]*Item, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be > 0, got %d", count)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	var have int32
	for _, item := range inv.items {
		if item.TypeID() == typ {
			have += item.Charges()
		}
	}
	if have < count {
		return nil, fmt.Errorf("not enough %s: have %d charges, need %d", typ, have, count)
	}

	removed := make([]*Item, 0, 2)
	left := count
	for _, item := range inv.sortedLocked() {
		if left == 0 {
			break
		}
		if item.TypeID() != typ || item.Charges() == 0 {
			continue
		}
		part, err := inv.takeLocked(item, 0, min(left, item.Charges()))
		if err != nil {
			return removed, err
		}
		removed = append(removed, part)
		left -= part.Charges()
	}
	return removed, nil
}

// Take снимает units или charges с конкретного предмета (by reference).
// Ровно один из units/charges должен быть > 0.
func (inv *Inventory) Take(objectID uint32, units, charges int32) (*Item, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	item, ok := inv.items[objectID]
	if !ok {
		return nil, fmt.Errorf("item objectID=%d not found in inventory", objectID)
	}
	return inv.takeLocked(item, units, charges)
}

func (inv *Inventory) takeLocked(item *Item, units, charges int32) (*Item, error) {
	switch {
	case units > 0 && charges > 0:
		return nil, fmt.Errorf("take units and charges at once from objectID=%d", item.ObjectID())
	case units > 0:
		have := item.Count()
		if have < units {
			return nil, fmt.Errorf("objectID=%d has %d units, need %d", item.ObjectID(), have, units)
		}
		part := item.Snapshot()
		if have == units {
			delete(inv.items, item.ObjectID())
			item.SetLocation(ItemLocationVoid)
			return part, nil
		}
		if err := item.SetCount(have - units); err != nil {
			return nil, err
		}
		part.count = units
		return part, nil
	case charges > 0:
		have := item.Charges()
		if have < charges {
			return nil, fmt.Errorf("objectID=%d has %d charges, need %d", item.ObjectID(), have, charges)
		}
		if err := item.SetCharges(have - charges); err != nil {
			return nil, err
		}
		part := item.Snapshot()
		part.charges = charges
		if item.IsEmpty() {
			delete(inv.items, item.ObjectID())
			item.SetLocation(ItemLocationVoid)
		}
		return part, nil
	default:
		return nil, fmt.Errorf("nothing to take from objectID=%d", item.ObjectID())
	}
}
