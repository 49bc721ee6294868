package craft

import (
	"fmt"

	"github.com/udisondev/craftcore/internal/model"
)

// TargetKind distinguishes exact item-type requirements from quality requirements.
type TargetKind uint8

const (
	TargetExact TargetKind = iota
	TargetQuality
)

// String returns human-readable target kind name.
func (k TargetKind) String() string {
	switch k {
	case TargetExact:
		return "Exact"
	case TargetQuality:
		return "Quality"
	default:
		return "Unknown"
	}
}

// Requirement is one alternative within a slot: an exact item type or a
// quality tag, with a required quantity.
//
// Count is signed. A negative count is the legacy "consumed with its
// container" encoding; quantity math always uses Quantity().
type Requirement struct {
	Kind    TargetKind
	Type    model.ItemTypeID // TargetExact
	Quality model.QualityID  // TargetQuality
	Level   int32            // TargetQuality
	Count   int32
	Charges ChargeMode
}

// Exact builds a requirement for count of an exact item type.
func Exact(typ model.ItemTypeID, count int32, charges ChargeMode) Requirement {
	return Requirement{
		Kind:    TargetExact,
		Type:    typ,
		Count:   count,
		Charges: charges,
	}
}

// Quality builds a requirement for count items carrying quality q at level or above.
func Quality(q model.QualityID, level, count int32, charges ChargeMode) Requirement {
	return Requirement{
		Kind:    TargetQuality,
		Quality: q,
		Level:   level,
		Count:   count,
		Charges: charges,
	}
}

// Quantity returns |Count|.
func (r Requirement) Quantity() int32 {
	if r.Count < 0 {
		return -r.Count
	}
	return r.Count
}

// Contained reports the legacy negative-count encoding.
func (r Requirement) Contained() bool {
	return r.Count < 0
}

// PerUse reports whether the requirement is expressed as charges per use
// (each matching item must hold enough charges on its own).
func (r Requirement) PerUse() bool {
	return r.Charges.Kind != ChargeNone
}

// Matches reports whether item satisfies the requirement's target:
// same item type for Exact, quality at or above Level for Quality.
// Charge sufficiency is checked separately.
func (r Requirement) Matches(item *model.Item) bool {
	switch r.Kind {
	case TargetExact:
		return item.TypeID() == r.Type
	case TargetQuality:
		return MatchesQuality(item, r.Quality, r.Level)
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Requirement) String() string {
	var s string
	switch r.Kind {
	case TargetQuality:
		s = fmt.Sprintf("%d x %s>=%d", r.Quantity(), r.Quality, r.Level)
	default:
		s = fmt.Sprintf("%d x %s", r.Quantity(), r.Type)
	}
	if r.Charges.Kind != ChargeNone {
		s += " (" + r.Charges.String() + ")"
	}
	return s
}

// Slot is an ordered set of substitutable alternatives; any one satisfies it.
type Slot []Requirement

// Recipe is the read-only input of resolution and consumption.
type Recipe struct {
	ID         string
	Name       string
	Category   string
	Tools      []Slot
	Components []Slot
	Result     model.ItemTypeID
	ResultMult int32
}

// Validate checks structural invariants the resolver relies on.
// Unknown item types and qualities are a catalog concern (see data.Validate).
func (r *Recipe) Validate() error {
	if r == nil {
		return fmt.Errorf("recipe is nil")
	}
	if r.ID == "" {
		return fmt.Errorf("recipe id is empty")
	}
	for i, slot := range r.Tools {
		if len(slot) == 0 {
			return fmt.Errorf("recipe %s: %s has no alternatives", r.ID, SlotID{Axis: AxisTool, Index: i})
		}
	}
	for i, slot := range r.Components {
		if len(slot) == 0 {
			return fmt.Errorf("recipe %s: %s has no alternatives", r.ID, SlotID{Axis: AxisComponent, Index: i})
		}
	}
	return nil
}

// Axis tells tool slots from component slots.
type Axis uint8

const (
	AxisTool Axis = iota
	AxisComponent
)

// String returns human-readable axis name.
func (a Axis) String() string {
	if a == AxisTool {
		return "tool"
	}
	return "component"
}

// SlotID addresses one slot of a recipe.
type SlotID struct {
	Axis  Axis
	Index int
}

// String implements fmt.Stringer, e.g. "component#1".
func (id SlotID) String() string {
	return fmt.Sprintf("%s#%d", id.Axis, id.Index)
}

func (r *Recipe) slots(axis Axis) []Slot {
	if axis == AxisTool {
		return r.Tools
	}
	return r.Components
}
