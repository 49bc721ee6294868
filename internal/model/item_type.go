package model

import "maps"

// ItemTypeID — идентификатор типа предмета из каталога (e.g. "hammer", "plant_fiber").
type ItemTypeID string

// QualityID — идентификатор качества (capability tag), e.g. "HAMMER", "CUT".
type QualityID string

// ItemType — шаблон предмета из каталога.
// Содержит общие характеристики типа; конкретные экземпляры — Item.
type ItemType struct {
	ID       ItemTypeID
	Name     string
	Category string
	Weight   int32 // grams per unit

	// Stackable items keep several units in one Item (count > 1).
	Stackable bool

	// CountByCharges: количество измеряется в charges (fuel, ammo, thread),
	// а не в штуках.
	CountByCharges bool

	// MaxCharges — ёмкость одного экземпляра (0 если тип не заряжается).
	MaxCharges int32

	// Qualities: quality → level, e.g. {"HAMMER": 2}.
	Qualities map[QualityID]int32
}

// QualityLevel возвращает уровень качества q и true, если тип им обладает.
func (t *ItemType) QualityLevel(q QualityID) (int32, bool) {
	if t == nil || t.Qualities == nil {
		return 0, false
	}
	lvl, ok := t.Qualities[q]
	return lvl, ok
}

// HasCharges returns true if instances of this type carry a charge counter.
func (t *ItemType) HasCharges() bool {
	return t != nil && (t.CountByCharges || t.MaxCharges > 0)
}

// Clone returns a deep copy (qualities map is copied).
func (t *ItemType) Clone() *ItemType {
	if t == nil {
		return nil
	}
	c := *t
	c.Qualities = maps.Clone(t.Qualities)
	return &c
}
