// Package predictor implements the branch predictor: a direction predictor
// built from 2-bit saturating counters (BHT) and a target predictor for
// indirect jumps (BTB).
//
// The predictor is a pure state machine. Predict is a side-effect-free
// lookup over the current state; Apply is an explicit (state, event) ->
// state transition. Fetch calls Predict every cycle, while Apply runs at
// most once per cycle when a resolved branch feeds an update back, so the
// two never race within a cycle.
package predictor

// SatCounter is a 2-bit saturating counter driving a taken/not-taken
// prediction.
type SatCounter uint8

// Saturating counter states, from most strongly not-taken to most
// strongly taken.
const (
	StronglyNotTaken SatCounter = iota
	WeaklyNotTaken
	WeaklyTaken
	StronglyTaken
)

// Increment moves the counter one state toward taken, saturating at
// StronglyTaken.
func (c SatCounter) Increment() SatCounter {
	if c >= StronglyTaken {
		return StronglyTaken
	}
	return c + 1
}

// Decrement moves the counter one state toward not-taken, saturating at
// StronglyNotTaken.
func (c SatCounter) Decrement() SatCounter {
	if c <= StronglyNotTaken {
		return StronglyNotTaken
	}
	return c - 1
}

// Predict returns true if the counter predicts taken.
func (c SatCounter) Predict() bool {
	return c >= WeaklyTaken
}

// String returns a human-readable state name.
func (c SatCounter) String() string {
	switch c {
	case StronglyNotTaken:
		return "strongly-not-taken"
	case WeaklyNotTaken:
		return "weakly-not-taken"
	case WeaklyTaken:
		return "weakly-taken"
	case StronglyTaken:
		return "strongly-taken"
	default:
		return "invalid"
	}
}
