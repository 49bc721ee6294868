// Package craft resolves whether a recipe can be made from the items a
// crafter carries and the items lying nearby, and consumes the chosen items
// once the craft is committed.
//
// Resolution runs in two passes: every reachable item is scanned once and
// indexed against every alternative of every slot, then slots are allocated
// tools first, components second, so that one physical item is never counted
// for two slots.
package craft

import (
	"cmp"
	"slices"

	"github.com/udisondev/craftcore/internal/model"
)

// InventoryQuery is a read-only inventory surface.
type InventoryQuery interface {
	HasUnits(typ model.ItemTypeID, count int32) bool
	HasCharges(typ model.ItemTypeID, count int32) bool
	HasQuality(q model.QualityID, level, count int32) bool
	// Items enumerates the surface in a stable order.
	Items() []*model.Item
}

// InventoryMutate is an inventory surface consumption can remove from.
type InventoryMutate interface {
	InventoryQuery
	RemoveUnits(typ model.ItemTypeID, count int32) ([]*model.Item, error)
	RemoveCharges(typ model.ItemTypeID, count int32) ([]*model.Item, error)
	// Take removes units or charges from one specific item.
	Take(objectID uint32, units, charges int32) (*model.Item, error)
}

// Source tells where a candidate item lies.
type Source uint8

const (
	SourceMap Source = iota
	SourcePlayer
	// SourceMixed is only used by consumption options: map first, then player.
	SourceMixed
)

// String returns human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceMap:
		return "map"
	case SourcePlayer:
		return "player"
	case SourceMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Candidate is a transient handle to an item matching some alternative.
// It lives for one resolution or consumption pass only.
type Candidate struct {
	Item   *model.Item
	Source Source
	Amount int32 // what the item supplies in the alternative's measure
}

type claimKey struct {
	source   Source
	objectID uint32
}

// allocation is the working set of claimed quantities per item, in each
// item's natural measure.
type allocation map[claimKey]int32

type claim struct {
	key    claimKey
	amount int32
}

func (a allocation) commit(claims []claim) {
	for _, c := range claims {
		a[c.key] += c.amount
	}
}

// index holds candidates per axis, slot and alternative.
type index [2][][][]Candidate

func (ix *index) at(id SlotID, alt int) []Candidate {
	return ix[id.Axis][id.Index][alt]
}

// Engine resolves and consumes recipes against an item type catalog.
// It holds no state between calls.
type Engine struct {
	items ItemTypeCatalog
}

// NewEngine creates an engine bound to catalog.
func NewEngine(catalog ItemTypeCatalog) *Engine {
	return &Engine{items: catalog}
}

// Resolve answers whether recipe can be made from player and nearby items.
// It never fails: the result always covers every slot and alternative.
func (e *Engine) Resolve(recipe *Recipe, player, nearby InventoryQuery) *ResolutionResult {
	res := &ResolutionResult{RecipeID: recipe.ID}
	ix := e.collect(recipe, player, nearby)
	alloc := make(allocation)

	res.Tools = e.allocate(recipe, AxisTool, &ix, alloc)
	res.Components = e.allocate(recipe, AxisComponent, &ix, alloc)
	return res
}

// collect is pass 1: scan each reachable item once, nearby first, and append
// it to the candidate list of every alternative it can serve.
func (e *Engine) collect(recipe *Recipe, player, nearby InventoryQuery) index {
	var ix index
	for _, axis := range []Axis{AxisTool, AxisComponent} {
		slots := recipe.slots(axis)
		ix[axis] = make([][][]Candidate, len(slots))
		for i, slot := range slots {
			ix[axis][i] = make([][]Candidate, len(slot))
		}
	}

	scan := func(inv InventoryQuery, src Source) {
		if inv == nil {
			return
		}
		for _, item := range inv.Items() {
			for _, axis := range []Axis{AxisTool, AxisComponent} {
				for si, slot := range recipe.slots(axis) {
					for ai, r := range slot {
						amount, ok := e.contribution(r, item)
						if !ok {
							continue
						}
						ix[axis][si][ai] = append(ix[axis][si][ai], Candidate{
							Item:   item,
							Source: src,
							Amount: amount,
						})
					}
				}
			}
		}
	}
	scan(nearby, SourceMap)
	scan(player, SourcePlayer)

	// Items wanted by fewer alternatives go first, so a generic quality
	// match does not eat the only item another slot asks for by type.
	contention := make(map[claimKey]int)
	for _, axis := range ix {
		for _, slot := range axis {
			for _, cands := range slot {
				for _, c := range cands {
					contention[claimKey{c.Source, c.Item.ObjectID()}]++
				}
			}
		}
	}
	for _, axis := range ix {
		for _, slot := range axis {
			for _, cands := range slot {
				slices.SortStableFunc(cands, func(a, b Candidate) int {
					return cmp.Compare(
						contention[claimKey{a.Source, a.Item.ObjectID()}],
						contention[claimKey{b.Source, b.Item.ObjectID()}],
					)
				})
			}
		}
	}
	return ix
}

// allocate is pass 2 for one axis. Every alternative is evaluated against
// the claims made by earlier slots; the first Available alternative in
// declared order claims its items.
func (e *Engine) allocate(recipe *Recipe, axis Axis, ix *index, alloc allocation) []SlotResult {
	slots := recipe.slots(axis)
	results := make([]SlotResult, len(slots))
	for si, slot := range slots {
		id := SlotID{Axis: axis, Index: si}
		sr := SlotResult{
			ID:           id,
			Chosen:       -1,
			Alternatives: make([]AlternativeResult, len(slot)),
		}
		var chosenClaims []claim
		for ai, r := range slot {
			ar, claims := e.evaluate(r, ix.at(id, ai), alloc)
			sr.Alternatives[ai] = ar
			if ar.Status == Available && sr.Chosen < 0 {
				sr.Chosen = ai
				chosenClaims = claims
			}
		}
		alloc.commit(chosenClaims)
		sr.Status = slotStatus(sr.Alternatives)
		results[si] = sr
	}
	return results
}

// evaluate measures one alternative against the current allocation and
// returns the claims it would make.
func (e *Engine) evaluate(r Requirement, cands []Candidate, alloc allocation) (AlternativeResult, []claim) {
	ar := AlternativeResult{Requirement: r, Need: need(r)}
	var claims []claim
	var gathered int32
	for _, c := range cands {
		ar.Have += c.Amount
		free, amount := e.free(r, c, alloc)
		ar.Free += free
		if gathered >= ar.Need || free == 0 {
			continue
		}
		take := min(free, ar.Need-gathered)
		gathered += take
		if !r.PerUse() {
			amount = take
		}
		claims = append(claims, claim{key: claimKey{c.Source, c.Item.ObjectID()}, amount: amount})
	}

	switch {
	case gathered >= ar.Need:
		ar.Status = Available
	case ar.Have >= ar.Need:
		ar.Status = InsufficientWithOther
	default:
		ar.Status = Unavailable
	}
	return ar, claims
}

// free returns what candidate c can still supply given alloc, and the
// natural amount a per-use claim on it reserves.
//
// Items counted by charges share one charge pool: a per-use claim reserves
// only the per-use charges, and the item stays usable while its unclaimed
// charges cover another use. Any other item is reserved whole by a per-use
// claim, so it must be untouched.
func (e *Engine) free(r Requirement, c Candidate, alloc allocation) (int32, int32) {
	claimed := alloc[claimKey{c.Source, c.Item.ObjectID()}]
	if !r.PerUse() {
		return max(0, c.Amount-claimed), 0
	}
	if e.items.CountByCharges(c.Item.TypeID()) {
		perUse, ok := e.perUseCharges(r.Charges, c.Item.TypeID())
		if !ok || c.Item.Charges()-claimed < perUse {
			return 0, 0
		}
		return c.Amount, perUse
	}
	if claimed > 0 {
		return 0, 0
	}
	return c.Amount, max(1, e.natural(c.Item))
}
