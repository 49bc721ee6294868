package craft

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/craftcore/internal/model"
)

// SourceOption is one viable way to satisfy a slot: an alternative taken
// from one source, or from both (map first).
type SourceOption struct {
	Slot        SlotID
	Alternative int
	Requirement Requirement
	Source      Source
	Need        int32
	Free        int32
}

// DisambiguateFunc picks one of several viable options. Returning false
// cancels the whole craft.
type DisambiguateFunc func(options []SourceOption) (SourceOption, bool)

// ConsumedItem is a detached snapshot of what was removed. For tools only
// charges are ever removed.
type ConsumedItem struct {
	Slot      SlotID
	Source    Source
	Item      *model.Item
	Units     int32
	Charges   int32
	Contained bool
	Tool      bool
}

// take is one planned removal, either from one item (byRef) or by type
// from the whole source.
type take struct {
	slot      SlotID
	source    Source
	typ       model.ItemTypeID
	byRef     bool
	objectID  uint32
	units     int32
	charges   int32
	contained bool
	tool      bool
}

// Consume removes what recipe needs from player and nearby.
//
// Business rules:
//  1. res must be a makeable resolution of this recipe
//  2. Only alternatives Available in res are considered
//  3. Inventories are re-scanned; a slot that no longer fits fails with *RaceLostError
//  4. Several viable options go through choose; a nil choose takes the first
//  5. Nothing is removed until every slot is planned (all-or-nothing)
//  6. Tools lose charges only; count <= 0 tools lose nothing
func (e *Engine) Consume(recipe *Recipe, res *ResolutionResult, player, nearby InventoryMutate, choose DisambiguateFunc) ([]ConsumedItem, error) {
	if res == nil || res.RecipeID != recipe.ID ||
		len(res.Tools) != len(recipe.Tools) || len(res.Components) != len(recipe.Components) {
		return nil, fmt.Errorf("resolution does not belong to recipe %s: %w", recipe.ID, ErrNotMakeable)
	}
	if !res.Makeable() {
		return nil, fmt.Errorf("recipe %s missing %v: %w", recipe.ID, res.Missing(), ErrNotMakeable)
	}

	ix := e.collect(recipe, queryOf(player), queryOf(nearby))
	alloc := make(allocation)

	var plan []take
	for _, axis := range []Axis{AxisTool, AxisComponent} {
		for si := range recipe.slots(axis) {
			takes, err := e.planSlot(recipe, res, SlotID{Axis: axis, Index: si}, &ix, alloc, choose)
			if err != nil {
				return nil, err
			}
			plan = append(plan, takes...)
		}
	}

	return e.commit(recipe, plan, player, nearby)
}

func queryOf(inv InventoryMutate) InventoryQuery {
	if inv == nil {
		return nil
	}
	return inv
}

// options lists viable (alternative × source) pairs for a slot, given what
// earlier slots already reserved.
func (e *Engine) options(slot Slot, sr *SlotResult, ix *index, alloc allocation) ([]SourceOption, int32) {
	var options []SourceOption
	var best int32
	for ai, r := range slot {
		if sr.Alternatives[ai].Status != Available {
			continue
		}
		var mapFree, playerFree int32
		for _, c := range ix.at(sr.ID, ai) {
			free, _ := e.free(r, c, alloc)
			if c.Source == SourceMap {
				mapFree += free
			} else {
				playerFree += free
			}
		}
		best = max(best, mapFree+playerFree)

		n := need(r)
		opt := SourceOption{Slot: sr.ID, Alternative: ai, Requirement: r, Need: n}
		if mapFree >= n {
			opt.Source, opt.Free = SourceMap, mapFree
			options = append(options, opt)
		}
		if playerFree >= n {
			opt.Source, opt.Free = SourcePlayer, playerFree
			options = append(options, opt)
		}
		if mapFree < n && playerFree < n && mapFree+playerFree >= n {
			opt.Source, opt.Free = SourceMixed, mapFree+playerFree
			options = append(options, opt)
		}
	}
	return options, best
}

func (e *Engine) planSlot(recipe *Recipe, res *ResolutionResult, id SlotID, ix *index, alloc allocation, choose DisambiguateFunc) ([]take, error) {
	slot := recipe.slots(id.Axis)[id.Index]
	sr := res.Slot(id)

	options, best := e.options(slot, sr, ix, alloc)
	if len(options) == 0 {
		var n int32 = 1
		if sr.Chosen >= 0 {
			n = need(slot[sr.Chosen])
		}
		return nil, &RaceLostError{Slot: id, Need: n, Have: best}
	}

	picked := options[0]
	if len(options) > 1 && e.anyDeducts(options, id.Axis) && choose != nil {
		choice, ok := choose(options)
		if !ok {
			return nil, ErrCancelled
		}
		found := false
		for _, opt := range options {
			if opt.Alternative == choice.Alternative && opt.Source == choice.Source {
				picked, found = opt, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%s: unknown option %s/%d: %w", id, choice.Source, choice.Alternative, ErrCancelled)
		}
	}

	return e.reserve(id, slot[picked.Alternative], picked, ix, alloc), nil
}

func (e *Engine) anyDeducts(options []SourceOption, axis Axis) bool {
	for _, opt := range options {
		if e.deducts(opt.Requirement, axis) {
			return true
		}
	}
	return false
}

// reserve claims items for the picked option and returns the removals it
// implies. Exact non-per-use removals are grouped by type and source.
func (e *Engine) reserve(id SlotID, r Requirement, opt SourceOption, ix *index, alloc allocation) []take {
	deduct := e.deducts(r, id.Axis)
	bulk := r.Kind == TargetExact && !r.PerUse()
	tool := id.Axis == AxisTool

	var takes []take
	bulkBySource := map[Source]*take{}
	n := need(r)
	var gathered int32
	cands := ix.at(id, opt.Alternative)
	if opt.Source == SourceMixed {
		cands = mapFirst(cands)
	}
	for _, c := range cands {
		if gathered >= n {
			break
		}
		if opt.Source != SourceMixed && c.Source != opt.Source {
			continue
		}
		free, whole := e.free(r, c, alloc)
		if free == 0 {
			continue
		}
		t := min(free, n-gathered)
		gathered += t
		key := claimKey{c.Source, c.Item.ObjectID()}
		if r.PerUse() {
			alloc[key] += whole
		} else {
			alloc[key] += t
		}
		if !deduct {
			continue
		}

		byCharges := e.items.CountByCharges(c.Item.TypeID())
		switch {
		case r.PerUse():
			perUse, _ := e.perUseCharges(r.Charges, c.Item.TypeID())
			if perUse == 0 {
				continue
			}
			takes = append(takes, take{
				slot: id, source: c.Source, typ: c.Item.TypeID(), byRef: true, objectID: c.Item.ObjectID(),
				charges: perUse, contained: r.Contained(), tool: tool,
			})
		case bulk:
			b, ok := bulkBySource[c.Source]
			if !ok {
				b = &take{slot: id, source: c.Source, typ: r.Type, contained: r.Contained(), tool: tool}
				bulkBySource[c.Source] = b
			}
			if byCharges {
				b.charges += t
			} else {
				b.units += t
			}
		default:
			tk := take{
				slot: id, source: c.Source, typ: c.Item.TypeID(), byRef: true, objectID: c.Item.ObjectID(),
				contained: r.Contained(), tool: tool,
			}
			if byCharges {
				tk.charges = t
			} else {
				tk.units = t
			}
			takes = append(takes, tk)
		}
	}

	// Map before player.
	for _, src := range []Source{SourceMap, SourcePlayer} {
		if b, ok := bulkBySource[src]; ok {
			takes = append(takes, *b)
		}
	}
	return takes
}

// mapFirst returns a copy of cands with every map candidate ahead of every
// player candidate. Order within a source is kept.
func mapFirst(cands []Candidate) []Candidate {
	out := slices.Clone(cands)
	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(a.Source, b.Source)
	})
	return out
}

// commit applies a fully validated plan. By-reference takes go first so that
// by-type removals drain only what is left over.
func (e *Engine) commit(recipe *Recipe, plan []take, player, nearby InventoryMutate) ([]ConsumedItem, error) {
	inv := func(src Source) InventoryMutate {
		if src == SourceMap {
			return nearby
		}
		return player
	}

	parts := make([][]*model.Item, len(plan))
	apply := func(i int) error {
		t := plan[i]
		target := inv(t.source)
		var err error
		switch {
		case t.byRef:
			var part *model.Item
			part, err = target.Take(t.objectID, t.units, t.charges)
			if part != nil {
				parts[i] = []*model.Item{part}
			}
		case t.charges > 0:
			parts[i], err = target.RemoveCharges(t.typ, t.charges)
		default:
			parts[i], err = target.RemoveUnits(t.typ, t.units)
		}
		return err
	}

	for _, byRef := range []bool{true, false} {
		for i := range plan {
			if plan[i].byRef != byRef {
				continue
			}
			if err := apply(i); err != nil {
				slog.Error("craft commit failed after planning",
					"recipe", recipe.ID,
					"slot", plan[i].slot.String(),
					"type", plan[i].typ,
					"error", err)
				return nil, fmt.Errorf("consume %s for recipe %s: %w", plan[i].slot, recipe.ID, err)
			}
		}
	}

	var consumed []ConsumedItem
	for i, t := range plan {
		for _, part := range parts[i] {
			ci := ConsumedItem{
				Slot:      t.slot,
				Source:    t.source,
				Item:      part,
				Contained: t.contained,
				Tool:      t.tool,
			}
			if t.charges > 0 {
				ci.Charges = part.Charges()
			} else {
				ci.Units = part.Count()
			}
			consumed = appendCoalesced(consumed, ci)
		}
	}
	return consumed, nil
}

// appendCoalesced merges charge removals of the same slot, type and source
// into one entry instead of leaving stack fragments.
func appendCoalesced(list []ConsumedItem, ci ConsumedItem) []ConsumedItem {
	if ci.Charges > 0 {
		for i := range list {
			prev := &list[i]
			if prev.Charges > 0 && prev.Slot == ci.Slot && prev.Source == ci.Source &&
				prev.Item.TypeID() == ci.Item.TypeID() {
				prev.Charges += ci.Charges
				_ = prev.Item.SetCharges(prev.Charges)
				return list
			}
		}
	}
	return append(list, ci)
}
