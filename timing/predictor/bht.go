package predictor

// Bht is the Branch History Table: a direct-mapped array of saturating
// counters indexed by PC modulo capacity. Distinct PCs that share an
// index alias to the same counter; that is inherent to a direct-mapped
// table, not a defect.
//
// Bht is a value type with copy-on-write updates: Update returns a new
// table differing from the receiver in exactly the addressed entry. The
// zero Bht is unusable; construct with NewBht.
type Bht struct {
	entries []SatCounter
}

// NewBht creates a BHT with the given capacity, which must be a power of
// two. All counters start at WeaklyNotTaken.
func NewBht(capacity uint32) Bht {
	mustPowerOfTwo("BHT", capacity)
	entries := make([]SatCounter, capacity)
	for i := range entries {
		entries[i] = WeaklyNotTaken
	}
	return Bht{entries: entries}
}

func (b Bht) index(pc uint32) uint32 {
	return pc & uint32(len(b.entries)-1)
}

// Predict returns true if the branch at pc is predicted taken.
// It is a pure O(1) lookup.
func (b Bht) Predict(pc uint32) bool {
	return b.entries[b.index(pc)].Predict()
}

// Counter returns the counter state backing the prediction for pc.
func (b Bht) Counter(pc uint32) SatCounter {
	return b.entries[b.index(pc)]
}

// Update returns a new table in which the counter for pc has moved one
// state toward the resolved direction. All other entries are unchanged.
func (b Bht) Update(pc uint32, taken bool) Bht {
	idx := b.index(pc)
	counter := b.entries[idx]
	if taken {
		counter = counter.Increment()
	} else {
		counter = counter.Decrement()
	}

	entries := make([]SatCounter, len(b.entries))
	copy(entries, b.entries)
	entries[idx] = counter
	return Bht{entries: entries}
}

func mustPowerOfTwo(name string, capacity uint32) {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		panic(name + " capacity must be a power of two")
	}
}
