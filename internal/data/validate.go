package data

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/udisondev/craftcore/internal/game/craft"
	"github.com/udisondev/craftcore/internal/model"
)

// Issue is one problem found in a recipe definition.
type Issue struct {
	Recipe  string
	Slot    string // empty for recipe-level issues
	Message string
}

// String implements fmt.Stringer.
func (i Issue) String() string {
	if i.Slot == "" {
		return fmt.Sprintf("%s: %s", i.Recipe, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", i.Recipe, i.Slot, i.Message)
}

// Validate checks every recipe against the item and quality catalogs.
// Issues come out in recipe ID order, then slot order.
//
// Checks:
//  1. Structural validity (no empty alternative lists)
//  2. Referenced item types and qualities exist (with a spelling suggestion)
//  3. Some item type provides each quality at the required level
//  4. Component counts are non-zero
//  5. Charge modes are well-formed and target chargeable types
func Validate(c *Catalogs) []Issue {
	v := validator{c: c}
	for _, r := range c.Recipes.All() {
		v.recipe(r)
	}
	return v.issues
}

type validator struct {
	c      *Catalogs
	issues []Issue
}

func (v *validator) add(recipe, slot, format string, args ...any) {
	v.issues = append(v.issues, Issue{Recipe: recipe, Slot: slot, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) recipe(r *craft.Recipe) {
	if err := r.Validate(); err != nil {
		v.add(r.ID, "", "%v", err)
	}
	if r.Result != "" {
		if _, ok := v.c.Items.Get(r.Result); !ok {
			v.add(r.ID, "", "unknown result item type %q%s", r.Result, v.suggestItem(r.Result))
		}
	}
	if r.ResultMult < 0 {
		v.add(r.ID, "", "negative result multiplier %d", r.ResultMult)
	}

	for i, slot := range r.Tools {
		v.slot(r.ID, craft.SlotID{Axis: craft.AxisTool, Index: i}, slot)
	}
	for i, slot := range r.Components {
		v.slot(r.ID, craft.SlotID{Axis: craft.AxisComponent, Index: i}, slot)
	}
}

func (v *validator) slot(recipeID string, id craft.SlotID, slot craft.Slot) {
	for ai, req := range slot {
		where := fmt.Sprintf("%s/%d", id, ai)

		switch req.Kind {
		case craft.TargetExact:
			if _, ok := v.c.Items.Get(req.Type); !ok {
				v.add(recipeID, where, "unknown item type %q%s", req.Type, v.suggestItem(req.Type))
				continue
			}
		case craft.TargetQuality:
			if _, ok := v.c.Qualities.Get(req.Quality); !ok {
				v.add(recipeID, where, "unknown quality %q%s", req.Quality, v.suggestQuality(req.Quality))
				continue
			}
			if req.Level <= 0 {
				v.add(recipeID, where, "quality %s level must be > 0, got %d", req.Quality, req.Level)
			} else if len(v.c.Items.ProvidesQuality(req.Quality, req.Level)) == 0 {
				v.add(recipeID, where, "no item type provides %s at level %d", req.Quality, req.Level)
			}
		}

		if id.Axis == craft.AxisComponent && req.Count == 0 {
			v.add(recipeID, where, "component count must not be zero")
		}
		v.charges(recipeID, where, req)
	}
}

func (v *validator) charges(recipeID, where string, req craft.Requirement) {
	switch req.Charges.Kind {
	case craft.ChargeNone:
		return
	case craft.ChargeExact:
		if req.Charges.Value <= 0 {
			v.add(recipeID, where, "charges must be > 0, got %d", req.Charges.Value)
			return
		}
	case craft.ChargePercent:
		if req.Charges.Value <= 0 || req.Charges.Value > 100 {
			v.add(recipeID, where, "charges percent must be in (0, 100], got %d", req.Charges.Value)
			return
		}
	}

	if req.Kind != craft.TargetExact {
		return
	}
	maxCharges, ok := v.c.Items.MaxCharges(req.Type)
	if !ok {
		v.add(recipeID, where, "%s uses charges but %s has no max charges", req.Charges, req.Type)
		return
	}
	if perUse, ok := craft.ChargesPerUse(req.Charges, maxCharges); ok && perUse > maxCharges {
		v.add(recipeID, where, "needs %d charges per use, %s holds at most %d", perUse, req.Type, maxCharges)
	}
}

func (v *validator) suggestItem(id model.ItemTypeID) string {
	known := make([]string, len(v.c.Items.IDs()))
	for i, k := range v.c.Items.IDs() {
		known[i] = string(k)
	}
	return suggestion(string(id), known)
}

func (v *validator) suggestQuality(id model.QualityID) string {
	known := make([]string, len(v.c.Qualities.IDs()))
	for i, k := range v.c.Qualities.IDs() {
		known[i] = string(k)
	}
	return suggestion(string(id), known)
}

// suggestion returns `; did you mean "x"?` for the closest known name within
// the edit distance limit, or "" if nothing is close enough.
func suggestion(name string, known []string) string {
	best, bestDist := "", -1
	for _, k := range known {
		dist := levenshtein.ComputeDistance(name, k)
		if dist > levenshteinLimit(len(k)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = k, dist
		}
	}
	if bestDist < 0 {
		return ""
	}
	return fmt.Sprintf("; did you mean %q?", best)
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
