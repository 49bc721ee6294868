package craft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/craftcore/internal/model"
)

// ErrAlreadyCrafting is returned when an actor starts a second craft.
var ErrAlreadyCrafting = errors.New("already crafting")

// RecipeSource looks recipes up by ID (injected dependency).
type RecipeSource interface {
	Recipe(id string) (*Recipe, bool)
}

// Journal stores provenance of finished crafts (injected dependency, optional).
type Journal interface {
	Record(ctx context.Context, entry JournalEntry) error
}

// JournalEntry is what a craft consumed, for "made from" provenance.
type JournalEntry struct {
	ActorID    int64
	RecipeID   string
	Result     model.ItemTypeID
	ResultMult int32
	Consumed   []ConsumedItem
	CraftedAt  time.Time
}

// Controller runs crafts for actors: lookup, fresh resolution, consumption.
type Controller struct {
	mu           sync.Mutex
	activeCrafts map[int64]struct{} // actorID → in progress

	engine  *Engine
	recipes RecipeSource
	journal Journal
	now     func() time.Time
}

// NewController creates a craft controller. journal may be nil.
func NewController(engine *Engine, recipes RecipeSource, journal Journal) *Controller {
	return &Controller{
		activeCrafts: make(map[int64]struct{}),
		engine:       engine,
		recipes:      recipes,
		journal:      journal,
		now:          time.Now,
	}
}

// CraftResult represents the outcome of a committed craft.
type CraftResult struct {
	Recipe     *Recipe
	Resolution *ResolutionResult
	Consumed   []ConsumedItem
}

// Check resolves a recipe for display. Missing items are not an error.
func (c *Controller) Check(recipeID string, player, nearby InventoryQuery) (*ResolutionResult, error) {
	recipe, err := c.lookup(recipeID)
	if err != nil {
		return nil, err
	}
	return c.engine.Resolve(recipe, player, nearby), nil
}

// Makeable returns the recipes from list that can be made right now.
func (c *Controller) Makeable(list []*Recipe, player, nearby InventoryQuery) []*Recipe {
	var result []*Recipe
	for _, r := range list {
		if c.engine.Resolve(r, player, nearby).Makeable() {
			result = append(result, r)
		}
	}
	return result
}

// Craft consumes what the recipe needs.
//
// Business rules:
//  1. One craft per actor at a time
//  2. Recipe must exist and be structurally valid
//  3. Resolution is recomputed right before consumption
//  4. Consumption is all-or-nothing; on error inventories are untouched
//  5. Journal failures are logged, the craft stands
func (c *Controller) Craft(ctx context.Context, actorID int64, recipeID string, player, nearby InventoryMutate, choose DisambiguateFunc) (*CraftResult, error) {
	c.mu.Lock()
	if _, busy := c.activeCrafts[actorID]; busy {
		c.mu.Unlock()
		return nil, ErrAlreadyCrafting
	}
	c.activeCrafts[actorID] = struct{}{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.activeCrafts, actorID)
		c.mu.Unlock()
	}()

	recipe, err := c.lookup(recipeID)
	if err != nil {
		return nil, err
	}

	res := c.engine.Resolve(recipe, queryOf(player), queryOf(nearby))
	if !res.Makeable() {
		return nil, fmt.Errorf("recipe %s missing %v: %w", recipe.ID, res.Missing(), ErrNotMakeable)
	}

	consumed, err := c.engine.Consume(recipe, res, player, nearby, choose)
	if err != nil {
		var race *RaceLostError
		switch {
		case errors.As(err, &race):
			slog.Warn("craft race lost",
				"actor", actorID,
				"recipe", recipe.ID,
				"slot", race.Slot.String(),
				"need", race.Need,
				"have", race.Have)
		case errors.Is(err, ErrCancelled):
			slog.Debug("craft cancelled", "actor", actorID, "recipe", recipe.ID)
		}
		return nil, err
	}

	slog.Info("craft consumed",
		"actor", actorID,
		"recipe", recipe.ID,
		"result", recipe.Result,
		"items", len(consumed))

	if c.journal != nil {
		entry := JournalEntry{
			ActorID:    actorID,
			RecipeID:   recipe.ID,
			Result:     recipe.Result,
			ResultMult: recipe.ResultMult,
			Consumed:   consumed,
			CraftedAt:  c.now(),
		}
		if err := c.journal.Record(ctx, entry); err != nil {
			slog.Error("recording craft journal",
				"actor", actorID,
				"recipe", recipe.ID,
				"error", err)
		}
	}

	return &CraftResult{Recipe: recipe, Resolution: res, Consumed: consumed}, nil
}

// IsCrafting returns true if the actor is currently crafting.
func (c *Controller) IsCrafting(actorID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.activeCrafts[actorID]
	return busy
}

func (c *Controller) lookup(recipeID string) (*Recipe, error) {
	recipe, ok := c.recipes.Recipe(recipeID)
	if !ok {
		return nil, fmt.Errorf("recipe %q not found", recipeID)
	}
	if err := recipe.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe: %w", err)
	}
	return recipe, nil
}
