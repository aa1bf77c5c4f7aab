// Package emu provides the architectural state and functional units shared
// by the timing model: the register file, a sparse byte-addressed memory,
// and the integer ALU.
package emu

// RegFile represents the RV32I integer register file.
// Register x0 is hardwired to zero.
type RegFile struct {
	// X holds general-purpose registers x0-x31.
	X [32]uint32
}

// ReadReg reads a register value. Register 0 always returns 0.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == 0 || reg >= 32 {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a register value. Writes to register 0 are discarded.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	if reg == 0 || reg >= 32 {
		return
	}
	r.X[reg] = value
}

// Snapshot returns a copy of the current register state. The timing
// model attaches snapshots to backward-flowing resolvers so earlier
// stages read architectural state without racing writeback.
func (r *RegFile) Snapshot() [32]uint32 {
	return r.X
}

// Reset clears all registers.
func (r *RegFile) Reset() {
	r.X = [32]uint32{}
}
