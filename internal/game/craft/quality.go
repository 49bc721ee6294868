package craft

import "github.com/udisondev/craftcore/internal/model"

// MatchesQuality reports whether item carries quality q at level or above.
// Any item type advertising the quality qualifies, not just purpose-built tools.
func MatchesQuality(item *model.Item, q model.QualityID, level int32) bool {
	lvl, ok := item.QualityLevel(q)
	return ok && lvl >= level
}

// natural returns the item's quantity in its own measure: charges for
// by-charges types, units otherwise.
func (e *Engine) natural(item *model.Item) int32 {
	if e.items.CountByCharges(item.TypeID()) {
		return item.Charges()
	}
	return item.Count()
}

// contribution returns how much of r a single item can supply, or false when
// the item does not qualify. Per-use requirements count whole items that
// each hold at least the per-use charges; everything else counts the item's
// natural quantity.
func (e *Engine) contribution(r Requirement, item *model.Item) (int32, bool) {
	if !r.Matches(item) {
		return 0, false
	}
	if r.PerUse() {
		perUse, ok := e.perUseCharges(r.Charges, item.TypeID())
		if !ok || item.Charges() < perUse {
			return 0, false
		}
		return 1, true
	}
	n := e.natural(item)
	if n <= 0 {
		return 0, false
	}
	return n, true
}

// need returns the quantity an alternative must gather. Per-use and
// presence-only (count <= 0) requirements need at least one item.
func need(r Requirement) int32 {
	return max(1, r.Quantity())
}

// deducts reports whether consuming r on axis removes anything: components
// always do; tools only lose charges and only when count > 0.
func (e *Engine) deducts(r Requirement, axis Axis) bool {
	if axis == AxisComponent {
		return true
	}
	if r.Count <= 0 {
		return false
	}
	if r.PerUse() {
		return true
	}
	return r.Kind == TargetExact && e.items.CountByCharges(r.Type)
}
