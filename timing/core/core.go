// Package core wraps the front-end pipeline into a simple runnable core
// with a high-level interface.
package core

import (
	"github.com/sarchlab/rvfront/emu"
	"github.com/sarchlab/rvfront/timing/pipeline"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// CPI is cycles per instruction.
	CPI float64
	// Mispredictions is the number of branch mispredictions.
	Mispredictions uint64
	// PredictionAccuracy is the branch prediction accuracy percentage.
	PredictionAccuracy float64
}

// Core represents a runnable model of the speculative front end plus
// the minimal back end needed to close the loop.
type Core struct {
	// Pipeline is the underlying pipeline.
	Pipeline *pipeline.Pipeline

	regFile *emu.RegFile
	memory  *emu.Memory
}

// NewCore creates a Core with the given register file and memory.
func NewCore(regFile *emu.RegFile, memory *emu.Memory, opts ...pipeline.Option) *Core {
	return &Core{
		Pipeline: pipeline.NewPipeline(regFile, memory, opts...),
		regFile:  regFile,
		memory:   memory,
	}
}

// SetPC sets the fetch start address.
func (c *Core) SetPC(pc uint32) {
	c.Pipeline.SetPC(pc)
}

// Tick executes one cycle.
func (c *Core) Tick() {
	c.Pipeline.Tick()
}

// Halted returns true if the core has halted on an EBREAK.
func (c *Core) Halted() bool {
	return c.Pipeline.Halted()
}

// Run executes until halt or maxCycles (0 means no limit).
func (c *Core) Run(maxCycles uint64) Stats {
	c.Pipeline.Run(maxCycles)
	return c.Stats()
}

// Stats returns performance statistics.
func (c *Core) Stats() Stats {
	s := c.Pipeline.Stats()
	return Stats{
		Cycles:             s.Cycles,
		Instructions:       s.Instructions,
		CPI:                s.CPI(),
		Mispredictions:     s.BranchMispredictions,
		PredictionAccuracy: s.Accuracy(),
	}
}

// Reset clears all core state.
func (c *Core) Reset() {
	c.Pipeline.Reset()
	c.regFile.Reset()
}
