package regen

import (
	"time"
)

// Level is the answer to "how much of this resource does the player
// have right now". UntilFull is zero exactly when Current == Max
type Level struct {
	Current   int64
	Max       int64
	UntilFull time.Duration
}

// Params for one resource of one player: the capacity and the time
// needed to recover a single unit
type Params struct {
	Max      int64
	Interval time.Duration
}

// EnergyState is the persisted anchor for the value-plus-timestamp
// variant: the last recorded value and the moment it was recorded
type EnergyState struct {
	Current    int64
	LastUpdate time.Time
}

func clamp(value int64, max int64) int64 {
	if value < 0 {
		return 0
	}
	if value > max {
		return max
	}
	return value
}

// Energy computes the current energy level from the stored anchor.
// The function is pure: it never mutates the anchor, so repeated
// reads against the same state cannot drift
func Energy(state EnergyState, params Params, now time.Time) Level {

	if params.Max <= 0 {
		return Level{}
	}
	// A broken interval means there is no meaningful rate,
	// so consider the resource always full
	if params.Interval <= 0 {
		return Level{Current: params.Max, Max: params.Max}
	}

	elapsed := now.Sub(state.LastUpdate)
	if elapsed < 0 {
		elapsed = 0
	}
	elapsedSec := int64(elapsed / time.Second)
	intervalSec := int64(params.Interval / time.Second)
	if intervalSec <= 0 {
		intervalSec = 1
	}

	units := elapsedSec / intervalSec
	current := clamp(state.Current+units, params.Max)
	if current == params.Max {
		return Level{Current: current, Max: params.Max}
	}

	// Time remaining accounts for the partial progress already
	// made into the current regeneration tick
	intervalMs := intervalSec * 1000
	partialMs := (elapsedSec * 1000) % intervalMs
	untilFull := (params.Max-current)*intervalMs - partialMs
	if untilFull < 0 {
		untilFull = 0
	}
	return Level{Current: current, Max: params.Max, UntilFull: time.Duration(untilFull) * time.Millisecond}
}

// AnchorEnergy builds the state to persist after an explicit set.
// The value is clamped to the capacity and the timestamp re-anchored
func AnchorEnergy(value int64, params Params, now time.Time) EnergyState {
	return EnergyState{Current: clamp(value, params.Max), LastUpdate: now}
}

// Stamina computes the current stamina level from the single
// persisted timestamp at which the resource reaches its maximum
func Stamina(fullAt time.Time, params Params, now time.Time) Level {

	if params.Max <= 0 {
		return Level{}
	}
	if params.Interval <= 0 {
		return Level{Current: params.Max, Max: params.Max}
	}

	remaining := fullAt.Sub(now)
	if remaining <= 0 {
		return Level{Current: params.Max, Max: params.Max}
	}

	// Round missing units up so that the level only reports full
	// once the full-at timestamp has actually been reached
	missing := int64((remaining + params.Interval - 1) / params.Interval)
	return Level{
		Current:   clamp(params.Max-missing, params.Max),
		Max:       params.Max,
		UntilFull: remaining,
	}
}

// AnchorStamina translates a desired stamina value into the full-at
// timestamp to persist: every missing unit pushes the timestamp one
// regeneration interval into the future
func AnchorStamina(value int64, params Params, now time.Time) time.Time {
	missing := params.Max - clamp(value, params.Max)
	return now.Add(time.Duration(missing) * params.Interval)
}
