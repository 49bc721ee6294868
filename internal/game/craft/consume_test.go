package craft

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/craftcore/internal/testutil"
)

// mustResolve resolves recipe and fails the test unless it is makeable.
func mustResolve(t *testing.T, e *Engine, recipe *Recipe, player, nearby InventoryMutate) *ResolutionResult {
	t.Helper()
	res := e.Resolve(recipe, queryOf(player), queryOf(nearby))
	require.True(t, res.Makeable(), "missing %v", res.Missing())
	return res
}

func failOnChoose(t *testing.T) DisambiguateFunc {
	return func(options []SourceOption) (SourceOption, bool) {
		t.Errorf("unexpected disambiguation over %d options", len(options))
		return SourceOption{}, false
	}
}

func TestConsume_Rope(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	ground := testutil.Ground()
	knife := cat.Put(t, player, "knife", 1, 0)
	cat.Put(t, player, "plant_fiber", 25, 0)

	recipe := ropeRecipe()
	res := mustResolve(t, e, recipe, player, ground)

	consumed, err := e.Consume(recipe, res, player, ground, failOnChoose(t))
	require.NoError(t, err)
	require.Len(t, consumed, 1)

	got := consumed[0]
	assert.Equal(t, SlotID{Axis: AxisComponent, Index: 0}, got.Slot)
	assert.Equal(t, SourcePlayer, got.Source)
	assert.Equal(t, int32(20), got.Units)
	assert.False(t, got.Tool)

	assert.Equal(t, int32(5), player.CountUnits("plant_fiber"))
	assert.Same(t, knife, player.GetItem(knife.ObjectID()), "tools without charges are never removed")
}

func TestConsume_RaceLost(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	cat.Put(t, player, "knife", 1, 0)
	cat.Put(t, player, "plant_fiber", 25, 0)

	recipe := ropeRecipe()
	res := mustResolve(t, e, recipe, player, nil)

	// Someone else picks up 10 fiber in between.
	_, err := player.RemoveUnits("plant_fiber", 10)
	require.NoError(t, err)

	consumed, err := e.Consume(recipe, res, player, nil, nil)
	require.Error(t, err)
	assert.Nil(t, consumed)
	assert.ErrorIs(t, err, ErrRaceLost)

	var race *RaceLostError
	require.ErrorAs(t, err, &race)
	assert.Equal(t, SlotID{Axis: AxisComponent, Index: 0}, race.Slot)
	assert.Equal(t, int32(20), race.Need)
	assert.Equal(t, int32(15), race.Have)

	assert.Equal(t, int32(15), player.CountUnits("plant_fiber"))
	assert.Equal(t, int32(1), player.CountUnits("knife"))
}

func TestConsume_AllOrNothing(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	cat.Put(t, player, "plank", 2, 0)
	rock := cat.Put(t, player, "rock", 1, 0)

	recipe := &Recipe{
		ID: "weight",
		Components: []Slot{
			{Exact("plank", 2, NoCharges())},
			{Exact("rock", 1, NoCharges())},
		},
	}
	res := mustResolve(t, e, recipe, player, nil)

	require.NotNil(t, player.RemoveItem(rock.ObjectID()))

	_, err := e.Consume(recipe, res, player, nil, nil)
	require.ErrorIs(t, err, ErrRaceLost)
	assert.Equal(t, int32(2), player.CountUnits("plank"), "earlier slots must stay untouched")
}

func TestConsume_NotMakeable(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	cat.Put(t, player, "knife", 1, 0)
	cat.Put(t, player, "plant_fiber", 15, 0)

	recipe := ropeRecipe()
	res := e.Resolve(recipe, player, nil)
	require.False(t, res.Makeable())

	_, err := e.Consume(recipe, res, player, nil, nil)
	assert.ErrorIs(t, err, ErrNotMakeable)

	_, err = e.Consume(recipe, nil, player, nil, nil)
	assert.ErrorIs(t, err, ErrNotMakeable)

	other := &Recipe{ID: "other"}
	_, err = e.Consume(recipe, e.Resolve(other, player, nil), player, nil, nil)
	assert.ErrorIs(t, err, ErrNotMakeable)

	assert.Equal(t, int32(15), player.CountUnits("plant_fiber"))
}

func TestConsume_Disambiguation(t *testing.T) {
	tests := []struct {
		name       string
		pick       Source
		cancel     bool
		wantErr    error
		wantPlayer int32
		wantGround int32
	}{
		{name: "take from player", pick: SourcePlayer, wantPlayer: 0, wantGround: 20},
		{name: "take from map", pick: SourceMap, wantPlayer: 20, wantGround: 0},
		{name: "cancel", cancel: true, wantErr: ErrCancelled, wantPlayer: 20, wantGround: 20},
		{name: "unknown option", pick: SourceMixed, wantErr: ErrCancelled, wantPlayer: 20, wantGround: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, cat := newTestEngine(t)
			player := testutil.Player()
			ground := testutil.Ground()
			cat.Put(t, player, "plant_fiber", 20, 0)
			cat.Put(t, ground, "plant_fiber", 20, 0)

			recipe := &Recipe{ID: "cord", Components: []Slot{{Exact("plant_fiber", 20, NoCharges())}}}
			res := mustResolve(t, e, recipe, player, ground)

			var offered []SourceOption
			choose := func(options []SourceOption) (SourceOption, bool) {
				offered = options
				if tt.cancel {
					return SourceOption{}, false
				}
				return SourceOption{Alternative: 0, Source: tt.pick}, true
			}

			consumed, err := e.Consume(recipe, res, player, ground, choose)
			require.Len(t, offered, 2)
			assert.Equal(t, SourceMap, offered[0].Source)
			assert.Equal(t, SourcePlayer, offered[1].Source)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, consumed)
			} else {
				require.NoError(t, err)
				require.Len(t, consumed, 1)
				assert.Equal(t, tt.pick, consumed[0].Source)
			}
			assert.Equal(t, tt.wantPlayer, player.CountUnits("plant_fiber"))
			assert.Equal(t, tt.wantGround, ground.CountUnits("plant_fiber"))
		})
	}
}

func TestConsume_NilChooseTakesFirstOption(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	ground := testutil.Ground()
	cat.Put(t, player, "plant_fiber", 20, 0)
	cat.Put(t, ground, "plant_fiber", 20, 0)

	recipe := &Recipe{ID: "cord", Components: []Slot{{Exact("plant_fiber", 20, NoCharges())}}}
	res := mustResolve(t, e, recipe, player, ground)

	_, err := e.Consume(recipe, res, player, ground, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(0), ground.CountUnits("plant_fiber"), "map option comes first")
	assert.Equal(t, int32(20), player.CountUnits("plant_fiber"))
}

func TestConsume_MixedSourcesDrainMapFirst(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	ground := testutil.Ground()
	cat.Put(t, player, "plant_fiber", 12, 0)
	cat.Put(t, ground, "plant_fiber", 12, 0)

	recipe := &Recipe{ID: "cord", Components: []Slot{{Exact("plant_fiber", 20, NoCharges())}}}
	res := mustResolve(t, e, recipe, player, ground)

	consumed, err := e.Consume(recipe, res, player, ground, failOnChoose(t))
	require.NoError(t, err)
	require.Len(t, consumed, 2)
	assert.Equal(t, SourceMap, consumed[0].Source)
	assert.Equal(t, int32(12), consumed[0].Units)
	assert.Equal(t, SourcePlayer, consumed[1].Source)
	assert.Equal(t, int32(8), consumed[1].Units)

	assert.Equal(t, int32(0), ground.CountUnits("plant_fiber"))
	assert.Equal(t, int32(4), player.CountUnits("plant_fiber"))
}

func TestConsume_NonDeductingToolSkipsChoice(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	ground := testutil.Ground()
	cat.Put(t, player, "knife", 1, 0)
	cat.Put(t, ground, "knife", 1, 0)

	recipe := &Recipe{ID: "whittle", Tools: []Slot{{Exact("knife", 1, NoCharges())}}}
	res := mustResolve(t, e, recipe, player, ground)

	consumed, err := e.Consume(recipe, res, player, ground, failOnChoose(t))
	require.NoError(t, err)
	assert.Empty(t, consumed)
	assert.Equal(t, int32(1), player.CountUnits("knife"))
	assert.Equal(t, int32(1), ground.CountUnits("knife"))
}

func TestConsume_ToolChargesPerUse(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	iron := cat.Put(t, player, "soldering_iron", 1, 80)

	recipe := &Recipe{
		ID:    "circuit",
		Tools: []Slot{{Exact("soldering_iron", 1, PercentOfMax(50))}},
	}
	res := mustResolve(t, e, recipe, player, nil)

	consumed, err := e.Consume(recipe, res, player, nil, nil)
	require.NoError(t, err)
	require.Len(t, consumed, 1)
	assert.True(t, consumed[0].Tool)
	assert.Equal(t, int32(50), consumed[0].Charges)
	assert.Equal(t, int32(0), consumed[0].Units)

	assert.Equal(t, int32(30), iron.Charges())
	assert.Same(t, iron, player.GetItem(iron.ObjectID()), "a drained tool is kept")

	// 30 charges left: not enough for a second use.
	assert.False(t, e.Resolve(recipe, player, nil).Makeable())
}

func TestConsume_PresenceOnlyTool(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	mask := cat.Put(t, player, "welding_mask", 1, 0)

	recipe := &Recipe{ID: "weld", Tools: []Slot{{Exact("welding_mask", 0, NoCharges())}}}
	res := mustResolve(t, e, recipe, player, nil)

	consumed, err := e.Consume(recipe, res, player, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, consumed)
	assert.Same(t, mask, player.GetItem(mask.ObjectID()))
}

func TestConsume_ToolChargePool(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	cat.Put(t, player, "battery", 1, 20)
	cat.Put(t, player, "battery", 1, 20)

	recipe := &Recipe{ID: "flash", Tools: []Slot{{Exact("battery", 30, NoCharges())}}}
	res := mustResolve(t, e, recipe, player, nil)

	consumed, err := e.Consume(recipe, res, player, nil, nil)
	require.NoError(t, err)
	require.Len(t, consumed, 1, "charge removals are coalesced")
	assert.Equal(t, int32(30), consumed[0].Charges)
	assert.True(t, consumed[0].Tool)

	assert.Equal(t, int32(10), player.CountCharges("battery"))
	assert.Equal(t, 1, player.Count(), "the drained battery is gone")
}

func TestConsume_ComponentChargePool(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	cat.Put(t, player, "thread", 1, 30)
	cat.Put(t, player, "thread", 1, 30)

	recipe := &Recipe{ID: "sew", Components: []Slot{{Exact("thread", 50, NoCharges())}}}
	res := mustResolve(t, e, recipe, player, nil)

	consumed, err := e.Consume(recipe, res, player, nil, nil)
	require.NoError(t, err)
	require.Len(t, consumed, 1)
	assert.Equal(t, int32(50), consumed[0].Charges)
	assert.Equal(t, int32(10), player.CountCharges("thread"))
}

func TestConsume_SameStackForToolAndComponent(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	cat.Put(t, player, "rock", 2, 0)

	recipe := &Recipe{
		ID:         "pound",
		Tools:      []Slot{{Exact("rock", 1, NoCharges())}},
		Components: []Slot{{Exact("rock", 1, NoCharges())}},
	}
	res := mustResolve(t, e, recipe, player, nil)

	consumed, err := e.Consume(recipe, res, player, nil, nil)
	require.NoError(t, err)
	require.Len(t, consumed, 1)
	assert.Equal(t, AxisComponent, consumed[0].Slot.Axis)
	assert.Equal(t, int32(1), player.CountUnits("rock"))
}

func TestConsume_QualityComponentTakesByReference(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	cat.Put(t, player, "knife", 1, 0)
	rocks := cat.Put(t, player, "rock", 3, 0)

	recipe := &Recipe{ID: "cairn", Components: []Slot{{Quality("HAMMER", 1, 2, NoCharges())}}}
	res := mustResolve(t, e, recipe, player, nil)

	consumed, err := e.Consume(recipe, res, player, nil, nil)
	require.NoError(t, err)
	require.Len(t, consumed, 1)
	assert.Equal(t, rocks.ObjectID(), consumed[0].Item.ObjectID())
	assert.Equal(t, int32(2), consumed[0].Units)
	assert.Equal(t, int32(1), rocks.Count())
}

func TestConsume_ContainedFlag(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	cat.Put(t, player, "plank", 3, 0)

	recipe := &Recipe{ID: "crate", Components: []Slot{{Exact("plank", -2, NoCharges())}}}
	res := mustResolve(t, e, recipe, player, nil)

	consumed, err := e.Consume(recipe, res, player, nil, nil)
	require.NoError(t, err)
	require.Len(t, consumed, 1)
	assert.True(t, consumed[0].Contained)
	assert.Equal(t, int32(2), consumed[0].Units)
	assert.Equal(t, int32(1), player.CountUnits("plank"))
}

func TestConsume_SnapshotsAreDetached(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	fiber := cat.Put(t, player, "plant_fiber", 25, 0)

	recipe := &Recipe{ID: "cord", Components: []Slot{{Exact("plant_fiber", 20, NoCharges())}}}
	res := mustResolve(t, e, recipe, player, nil)

	consumed, err := e.Consume(recipe, res, player, nil, nil)
	require.NoError(t, err)
	require.Len(t, consumed, 1)
	assert.NotSame(t, fiber, consumed[0].Item)
	assert.Equal(t, int32(20), consumed[0].Item.Count())
	assert.Equal(t, int32(5), fiber.Count())
}

func TestRaceLostError(t *testing.T) {
	err := error(&RaceLostError{Slot: SlotID{Axis: AxisTool, Index: 1}, Need: 3, Have: 1})
	assert.True(t, errors.Is(err, ErrRaceLost))
	assert.False(t, errors.Is(err, ErrCancelled))
	assert.Contains(t, err.Error(), "tool#1")
}

func TestConsume_MixedDrainsMapBeforeLessContestedPlayerItems(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	ground := testutil.Ground()
	rocks := cat.Put(t, ground, "rock", 3, 0)
	cat.Put(t, player, "stone_hammer", 1, 0)
	cat.Put(t, player, "stone_hammer", 1, 0)

	// The rock stack is wanted by both slots, the hammers by one only.
	recipe := &Recipe{
		ID:         "crush",
		Tools:      []Slot{{Exact("rock", 0, NoCharges())}},
		Components: []Slot{{Quality("HAMMER", 1, 3, NoCharges())}},
	}
	res := mustResolve(t, e, recipe, player, ground)

	consumed, err := e.Consume(recipe, res, player, ground, failOnChoose(t))
	require.NoError(t, err)
	require.Len(t, consumed, 2)
	assert.Equal(t, SourceMap, consumed[0].Source)
	assert.Equal(t, int32(2), consumed[0].Units)
	assert.Equal(t, SourcePlayer, consumed[1].Source)
	assert.Equal(t, int32(1), consumed[1].Units)

	// One rock stays behind for the tool slot.
	assert.Equal(t, int32(1), rocks.Count())
	assert.Equal(t, int32(1), player.CountUnits("stone_hammer"))
}

func TestConsume_PerUseToolAndComponentShareBattery(t *testing.T) {
	e, cat := newTestEngine(t)
	player := testutil.Player()
	battery := cat.Put(t, player, "battery", 1, 100)

	recipe := &Recipe{
		ID:         "lamp",
		Tools:      []Slot{{Exact("battery", 1, ExactCharges(10))}},
		Components: []Slot{{Exact("battery", 50, NoCharges())}},
	}
	res := mustResolve(t, e, recipe, player, nil)

	consumed, err := e.Consume(recipe, res, player, nil, nil)
	require.NoError(t, err)
	require.Len(t, consumed, 2)
	assert.True(t, consumed[0].Tool)
	assert.Equal(t, int32(10), consumed[0].Charges)
	assert.False(t, consumed[1].Tool)
	assert.Equal(t, int32(50), consumed[1].Charges)

	assert.Equal(t, int32(40), battery.Charges())
}
