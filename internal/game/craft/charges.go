package craft

import (
	"fmt"

	"github.com/udisondev/craftcore/internal/model"
)

// ChargeKind selects how a requirement expresses charges.
type ChargeKind uint8

const (
	ChargeNone ChargeKind = iota
	ChargeExact
	ChargePercent
)

// ChargeMode is None, ExactCharges(n) or PercentOfMax(p).
type ChargeMode struct {
	Kind  ChargeKind
	Value int32
}

// NoCharges is the zero ChargeMode.
func NoCharges() ChargeMode { return ChargeMode{} }

// ExactCharges requires n charges per use.
func ExactCharges(n int32) ChargeMode { return ChargeMode{Kind: ChargeExact, Value: n} }

// PercentOfMax requires p percent of the item type's max charges per use.
func PercentOfMax(p int32) ChargeMode { return ChargeMode{Kind: ChargePercent, Value: p} }

// String implements fmt.Stringer.
func (m ChargeMode) String() string {
	switch m.Kind {
	case ChargeExact:
		return fmt.Sprintf("%d charges", m.Value)
	case ChargePercent:
		return fmt.Sprintf("%d%% of max charges", m.Value)
	default:
		return "no charges"
	}
}

// ItemTypeCatalog is the item metadata the core needs.
type ItemTypeCatalog interface {
	CountByCharges(typ model.ItemTypeID) bool
	MaxCharges(typ model.ItemTypeID) (int32, bool)
}

// ChargesPerUse returns how many charges one use costs under mode for an
// item type with the given max charges. PercentOfMax rounds up:
// ceil(max * p / 100). The second result is false when the mode cannot be
// evaluated (percent of an unknown or zero max, non-positive value).
//
// Resolution and consumption both go through this function so that they
// never disagree on the per-use cost.
func ChargesPerUse(mode ChargeMode, maxCharges int32) (int32, bool) {
	switch mode.Kind {
	case ChargeNone:
		return 0, true
	case ChargeExact:
		if mode.Value <= 0 {
			return 0, false
		}
		return mode.Value, true
	case ChargePercent:
		if mode.Value <= 0 || maxCharges <= 0 {
			return 0, false
		}
		n := int64(maxCharges) * int64(mode.Value)
		return int32((n + 99) / 100), true
	default:
		return 0, false
	}
}

// perUseCharges resolves ChargesPerUse for a concrete item type.
func (e *Engine) perUseCharges(mode ChargeMode, typ model.ItemTypeID) (int32, bool) {
	var maxCharges int32
	if mode.Kind == ChargePercent {
		m, ok := e.items.MaxCharges(typ)
		if !ok {
			return 0, false
		}
		maxCharges = m
	}
	return ChargesPerUse(mode, maxCharges)
}
