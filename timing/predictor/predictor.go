package predictor

import "github.com/sarchlab/rvfront/insts"

// Config holds configuration for the branch predictor.
type Config struct {
	// BHTSize is the number of entries in the Branch History Table.
	// Must be a power of 2. Default is 1024.
	BHTSize uint32
	// BTBSize is the number of entries in the Branch Target Buffer.
	// Must be a power of 2. Default is 256.
	BTBSize uint32
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		BHTSize: 1024,
		BTBSize: 256,
	}
}

// Result is the prediction attached to one fetched instruction. It is
// produced once per fetch and carried unchanged through decode to the
// execute stage, where it is compared against the resolved outcome.
type Result struct {
	// Pre is the fetch-time classification of the instruction word.
	Pre insts.PreDecode

	// Taken is the BHT direction bit. Only meaningful when Pre.IsBranch.
	Taken bool

	// Target is the BTB-predicted target. When the BTB holds no entry it
	// defaults to the sequential PC, so downstream logic always sees a
	// defined target. Only meaningful when Pre.IsJalr.
	Target uint32

	// TargetKnown reports whether Target came from a BTB entry rather
	// than the sequential default.
	TargetKnown bool
}

// UpdateKind tags an Update event.
type UpdateKind uint8

const (
	// UpdateNone is the absent event; applying it leaves state unchanged.
	UpdateNone UpdateKind = iota
	// UpdateBht is a direction-counter update from a resolved
	// conditional branch.
	UpdateBht
	// UpdateBtb is a target update from a mispredicted indirect jump.
	UpdateBtb
)

// Update is the predictor-update event produced by execute-stage branch
// resolution. At most one exists per cycle; it flows backward one stage
// at a time until fetch applies it. The zero Update is a no-op.
type Update struct {
	// Kind selects which sub-table the event addresses.
	Kind UpdateKind
	// PC is the address of the resolved branch.
	PC uint32
	// Taken is the resolved direction (UpdateBht only).
	Taken bool
	// Target is the resolved target address (UpdateBtb only).
	Target uint32
}

// BhtUpdate builds a direction update for a resolved conditional branch.
func BhtUpdate(pc uint32, taken bool) Update {
	return Update{Kind: UpdateBht, PC: pc, Taken: taken}
}

// BtbUpdate builds a target update for a mispredicted indirect jump.
func BtbUpdate(pc, target uint32) Update {
	return Update{Kind: UpdateBtb, PC: pc, Target: target}
}

// Valid returns true if the event addresses a sub-table.
func (u Update) Valid() bool {
	return u.Kind != UpdateNone
}

// Predictor composes the pre-decoder, BHT, and BTB into the predict/update
// state machine consumed by fetch. It is a value type: Apply returns the
// successor state and never mutates the receiver.
type Predictor struct {
	bht Bht
	btb Btb
}

// New creates a predictor with all counters at WeaklyNotTaken and an
// empty BTB. Zero config fields fall back to defaults.
func New(config Config) Predictor {
	if config.BHTSize == 0 {
		config.BHTSize = DefaultConfig().BHTSize
	}
	if config.BTBSize == 0 {
		config.BTBSize = DefaultConfig().BTBSize
	}
	return Predictor{
		bht: NewBht(config.BHTSize),
		btb: NewBtb(config.BTBSize),
	}
}

// Predict classifies the instruction word fetched from pc and consults
// the sub-tables the classification needs: the BHT for conditional
// branches, the BTB for indirect jumps. Lookups the classification does
// not need are left at harmless defaults. Predict has no side effects.
func (p Predictor) Predict(pc, word uint32) Result {
	pre := insts.PreDecodeWord(word)

	result := Result{
		Pre:    pre,
		Target: pc + 4,
	}

	if pre.IsBranch {
		result.Taken = p.bht.Predict(pc)
	}
	if pre.IsJalr {
		if target, ok := p.btb.Predict(pc); ok {
			result.Target = target
			result.TargetKnown = true
		}
	}

	return result
}

// Apply is the state-transition function: it dispatches on the event tag
// and returns the predictor with the addressed sub-table updated. An
// absent event returns the state unchanged.
func (p Predictor) Apply(u Update) Predictor {
	switch u.Kind {
	case UpdateBht:
		p.bht = p.bht.Update(u.PC, u.Taken)
	case UpdateBtb:
		p.btb = p.btb.Update(u.PC, u.Target)
	}
	return p
}

// Bht returns the direction sub-table.
func (p Predictor) Bht() Bht { return p.bht }

// Btb returns the target sub-table.
func (p Predictor) Btb() Btb { return p.btb }
