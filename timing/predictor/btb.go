package predictor

// btbEntry is a single BTB slot. A zero entry holds no target.
type btbEntry struct {
	valid  bool
	target uint32
}

// Btb is the Branch Target Buffer: a direct-mapped array of previously
// resolved indirect-jump targets indexed by PC modulo capacity. Entries
// start empty; an empty entry means no target is known and the consumer
// falls back to sequential fetch.
//
// Like Bht, Btb is a value type with copy-on-write updates.
type Btb struct {
	entries []btbEntry
}

// NewBtb creates a BTB with the given capacity, which must be a power of
// two. All entries start empty.
func NewBtb(capacity uint32) Btb {
	mustPowerOfTwo("BTB", capacity)
	return Btb{entries: make([]btbEntry, capacity)}
}

func (b Btb) index(pc uint32) uint32 {
	return pc & uint32(len(b.entries)-1)
}

// Predict returns the predicted target for the indirect jump at pc, or
// ok=false if the entry is empty.
func (b Btb) Predict(pc uint32) (target uint32, ok bool) {
	e := b.entries[b.index(pc)]
	return e.target, e.valid
}

// Update returns a new table in which the entry for pc holds the given
// target. All other entries are unchanged. Updating with the same target
// twice is observationally identical to updating once.
func (b Btb) Update(pc uint32, target uint32) Btb {
	entries := make([]btbEntry, len(b.entries))
	copy(entries, b.entries)
	entries[b.index(pc)] = btbEntry{valid: true, target: target}
	return Btb{entries: entries}
}
