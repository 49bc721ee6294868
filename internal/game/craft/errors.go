package craft

import (
	"errors"
	"fmt"
)

var (
	// ErrNotMakeable is returned when consumption is asked for a resolution
	// that is not makeable or belongs to another recipe.
	ErrNotMakeable = errors.New("recipe is not makeable")

	// ErrCancelled is returned when the disambiguation callback makes no choice.
	ErrCancelled = errors.New("crafting cancelled")

	// ErrRaceLost matches any *RaceLostError.
	ErrRaceLost = errors.New("inventory changed since resolution")
)

// RaceLostError reports the slot that could no longer be satisfied at
// consumption time. Nothing was consumed.
type RaceLostError struct {
	Slot SlotID
	Need int32
	Have int32
}

func (e *RaceLostError) Error() string {
	return fmt.Sprintf("%s: %s: need %d, have %d", ErrRaceLost, e.Slot, e.Need, e.Have)
}

// Is makes errors.Is(err, ErrRaceLost) true.
func (e *RaceLostError) Is(target error) bool {
	return target == ErrRaceLost
}
