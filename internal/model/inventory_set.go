package model

import "fmt"

// InventorySet объединяет несколько инвентарей (клетки земли в радиусе подбора,
// багажник транспорта) в одну поверхность. Порядок частей задаёт порядок
// перечисления и порядок списания.
type InventorySet struct {
	parts []*Inventory
}

// NewInventorySet создаёт набор из переданных инвентарей (nil пропускаются).
func NewInventorySet(parts ...*Inventory) *InventorySet {
	s := &InventorySet{parts: make([]*Inventory, 0, len(parts))}
	for _, p := range parts {
		if p != nil {
			s.parts = append(s.parts, p)
		}
	}
	return s
}

// Add appends another inventory to the set.
func (s *InventorySet) Add(inv *Inventory) {
	if inv != nil {
		s.parts = append(s.parts, inv)
	}
}

// Parts returns the underlying inventories in order.
func (s *InventorySet) Parts() []*Inventory {
	return s.parts
}

// Items returns items of every part, part by part, each part in objectID order.
func (s *InventorySet) Items() []*Item {
	var result []*Item
	for _, p := range s.parts {
		result = append(result, p.Items()...)
	}
	return result
}

// CountUnits возвращает суммарное количество units типа typ во всех частях.
func (s *InventorySet) CountUnits(typ ItemTypeID) int32 {
	var total int32
	for _, p := range s.parts {
		total += p.CountUnits(typ)
	}
	return total
}

// CountCharges возвращает сумму charges предметов типа typ во всех частях.
func (s *InventorySet) CountCharges(typ ItemTypeID) int32 {
	var total int32
	for _, p := range s.parts {
		total += p.CountCharges(typ)
	}
	return total
}

// CountQuality считает units с качеством q уровня level и выше во всех частях.
func (s *InventorySet) CountQuality(q QualityID, level int32) int32 {
	var total int32
	for _, p := range s.parts {
		total += p.CountQuality(q, level)
	}
	return total
}

// HasUnits reports whether the set holds at least count units of typ.
func (s *InventorySet) HasUnits(typ ItemTypeID, count int32) bool {
	return s.CountUnits(typ) >= count
}

// HasCharges reports whether the set holds at least count charges of typ.
func (s *InventorySet) HasCharges(typ ItemTypeID, count int32) bool {
	return s.CountCharges(typ) >= count
}

// HasQuality reports whether at least count units carry q at level or above.
func (s *InventorySet) HasQuality(q QualityID, level, count int32) bool {
	return s.CountQuality(q, level) >= count
}

// RemoveUnits списывает units по частям в порядке набора. All-or-nothing.
func (s *InventorySet) RemoveUnits(typ ItemTypeID, count int32) ([]*Item, error) {
	if have := s.CountUnits(typ); have < count {
		return nil, fmt.Errorf("not enough %s: have %d units, need %d", typ, have, count)
	}

	var removed []*Item
	left := count
	for _, p := range s.parts {
		if left == 0 {
			break
		}
		n := min(left, p.CountUnits(typ))
		if n == 0 {
			continue
		}
		parts, err := p.RemoveUnits(typ, n)
		if err != nil {
			return removed, err
		}
		removed = append(removed, parts...)
		left -= n
	}
	return removed, nil
}

// RemoveCharges списывает charges по частям в порядке набора. All-or-nothing.
func (s *InventorySet) RemoveCharges(typ ItemTypeID, count int32) ([]*Item, error) {
	if have := s.CountCharges(typ); have < count {
		return nil, fmt.Errorf("not enough %s: have %d charges, need %d", typ, have, count)
	}

	var removed []*Item
	left := count
	for _, p := range s.parts {
		if left == 0 {
			break
		}
		n := min(left, p.CountCharges(typ))
		if n == 0 {
			continue
		}
		parts, err := p.RemoveCharges(typ, n)
		if err != nil {
			return removed, err
		}
		removed = append(removed, parts...)
		left -= n
	}
	return removed, nil
}

// Take находит часть, содержащую objectID, и снимает с предмета units/charges.
func (s *InventorySet) Take(objectID uint32, units, charges int32) (*Item, error) {
	for _, p := range s.parts {
		if p.GetItem(objectID) != nil {
			return p.Take(objectID, units, charges)
		}
	}
	return nil, fmt.Errorf("item objectID=%d not found in inventory set", objectID)
}
