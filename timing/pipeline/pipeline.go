package pipeline

import (
	"github.com/sarchlab/rvfront/emu"
	"github.com/sarchlab/rvfront/insts"
	"github.com/sarchlab/rvfront/timing/predictor"
)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Stalls is the number of load-use stall cycles.
	Stalls uint64
	// Flushes is the number of pipeline flushes due to redirects.
	Flushes uint64
	// BranchPredictions is the number of resolved predictions
	// (conditional branches and indirect jumps).
	BranchPredictions uint64
	// BranchCorrect is the number of correct predictions.
	BranchCorrect uint64
	// BranchMispredictions is the number of mispredictions.
	BranchMispredictions uint64
	// BTBHits is the number of indirect jumps whose target came from
	// the BTB.
	BTBHits uint64
	// BTBMisses is the number of indirect jumps fetched with no BTB
	// entry.
	BTBMisses uint64
}

// CPI returns cycles per retired instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Accuracy returns the prediction accuracy as a percentage.
func (s Statistics) Accuracy() float64 {
	if s.BranchPredictions == 0 {
		return 0
	}
	return float64(s.BranchCorrect) / float64(s.BranchPredictions) * 100
}

// MispredictionRate returns the misprediction rate as a percentage.
func (s Statistics) MispredictionRate() float64 {
	if s.BranchPredictions == 0 {
		return 0
	}
	return float64(s.BranchMispredictions) / float64(s.BranchPredictions) * 100
}

// Option is a functional option for configuring the Pipeline.
type Option func(*Pipeline)

// WithPredictorConfig sets the branch-predictor table sizes.
func WithPredictorConfig(config predictor.Config) Option {
	return func(p *Pipeline) {
		p.predConfig = config
	}
}

// WithStartPC sets the fetch seed address. Default is 0.
func WithStartPC(pc uint32) Option {
	return func(p *Pipeline) {
		p.startPC = pc
	}
}

// WithInstMem replaces the instruction port, e.g. with a cache model.
func WithInstMem(imem InstMem) Option {
	return func(p *Pipeline) {
		p.imem = imem
	}
}

// Pipeline is the speculative front end closed into a runnable loop: a
// predicting fetch stage, decode with resolver-driven operand selection,
// an execute stage with branch resolution, and memory/writeback stages
// that retire instructions and feed bypasses backward.
//
// Each Tick evaluates all stages combinationally from the previous
// cycle's registered state, back to front, so every backward resolver is
// available in the same cycle it is consumed.
type Pipeline struct {
	// Stage payload registers.
	idex  DecodePayload
	exmem ExecutePayload
	memwb WritebackPayload

	fetch   *FetchStage
	decoder *insts.Decoder

	regFile *emu.RegFile
	memory  *emu.Memory
	imem    InstMem

	predConfig predictor.Config
	startPC    uint32

	stats    Statistics
	draining bool
	halted   bool
}

// NewPipeline creates a pipeline over the given register file and
// memory.
func NewPipeline(regFile *emu.RegFile, memory *emu.Memory, opts ...Option) *Pipeline {
	p := &Pipeline{
		decoder:    insts.NewDecoder(),
		regFile:    regFile,
		memory:     memory,
		predConfig: predictor.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.imem == nil {
		p.imem = NewIdealInstMem(memory)
	}
	p.fetch = NewFetchStage(p.imem, p.predConfig, p.startPC)
	return p
}

// SetPC sets the fetch start address. Only meaningful before the first
// Tick or after Reset.
func (p *Pipeline) SetPC(pc uint32) {
	p.startPC = pc
	p.fetch.SetStartPC(pc)
}

// Fetch exposes the fetch stage, mainly for inspection in tests.
func (p *Pipeline) Fetch() *FetchStage {
	return p.fetch
}

// Tick advances the pipeline one cycle.
func (p *Pipeline) Tick() {
	if p.halted {
		return
	}
	p.stats.Cycles++

	// Snapshot architectural registers before this cycle's writeback;
	// the in-flight writeback value reaches consumers as a bypass.
	rfSnap := p.regFile.Snapshot()

	wbBypass := p.writeback(p.memwb)
	memOut, memBypass := p.memoryAccess(p.exmem)

	memr := MemResolver{
		BypassFromMem: memBypass,
		BypassFromWb:  wbBypass,
		RegFile:       rfSnap,
	}

	exeOut, exer := p.execute(p.idex, memr)
	decr := exer.ToFetch()

	decOut, stalled := p.decode(p.fetch.Output(), exer)

	// Latch forward registers.
	p.memwb = memOut
	p.exmem = exeOut

	switch {
	case decr.Redirect.Valid:
		// The redirect kills everything younger than the resolving
		// branch: the decoded instruction and the in-flight fetch.
		p.idex = DecodePayload{}
		p.stats.Flushes++
	case stalled:
		p.idex = DecodePayload{}
		p.stats.Stalls++
	default:
		p.idex = decOut
	}

	if exeOut.Valid && exeOut.Inst.Op == insts.OpEBREAK {
		p.draining = true
	}

	if p.draining {
		// Stop fetching; let older instructions retire.
		p.idex = DecodePayload{}
		if !p.exmem.Valid && !p.memwb.Valid {
			p.halted = true
		}
		return
	}

	p.fetch.Cycle(decr, stalled)
}

// memoryAccess runs the memory stage: loads read, stores write, and the
// stage's forward value is broadcast backward as a bypass.
func (p *Pipeline) memoryAccess(exmem ExecutePayload) (WritebackPayload, Bypass) {
	if !exmem.Valid {
		return WritebackPayload{}, Bypass{}
	}

	inst := exmem.Inst
	value := exmem.ALUResult

	switch inst.Op {
	case insts.OpLW:
		value = p.memory.Read32(exmem.ALUResult)
	case insts.OpLH:
		value = uint32(int32(int16(p.memory.Read16(exmem.ALUResult))))
	case insts.OpLHU:
		value = uint32(p.memory.Read16(exmem.ALUResult))
	case insts.OpLB:
		value = uint32(int32(int8(p.memory.Read8(exmem.ALUResult))))
	case insts.OpLBU:
		value = uint32(p.memory.Read8(exmem.ALUResult))
	case insts.OpSW:
		p.memory.Write32(exmem.ALUResult, exmem.StoreValue)
	case insts.OpSH:
		p.memory.Write16(exmem.ALUResult, uint16(exmem.StoreValue))
	case insts.OpSB:
		p.memory.Write8(exmem.ALUResult, uint8(exmem.StoreValue))
	}

	out := WritebackPayload{
		Valid: true,
		PC:    exmem.PC,
		Inst:  inst,
		Value: value,
	}

	var bypass Bypass
	if inst.WritesRd() {
		bypass = Bypass{Valid: true, Rd: inst.Rd, Value: value}
	}
	return out, bypass
}

// writeback retires an instruction: commits its value to the register
// file and broadcasts the same value backward as the writeback bypass.
func (p *Pipeline) writeback(memwb WritebackPayload) Bypass {
	if !memwb.Valid {
		return Bypass{}
	}

	p.stats.Instructions++

	if !memwb.Inst.WritesRd() {
		return Bypass{}
	}
	p.regFile.WriteReg(memwb.Inst.Rd, memwb.Value)
	return Bypass{Valid: true, Rd: memwb.Inst.Rd, Value: memwb.Value}
}

// Halted returns true once an EBREAK has retired and the pipeline has
// drained.
func (p *Pipeline) Halted() bool {
	return p.halted
}

// Run ticks until the pipeline halts or maxCycles elapse. A maxCycles of
// 0 means no limit. It returns the statistics at stop.
func (p *Pipeline) Run(maxCycles uint64) Statistics {
	for !p.halted {
		if maxCycles > 0 && p.stats.Cycles >= maxCycles {
			break
		}
		p.Tick()
	}
	return p.stats
}

// RunCycles ticks for the given number of cycles or until halt. It
// returns true if the pipeline is still running.
func (p *Pipeline) RunCycles(cycles uint64) bool {
	for i := uint64(0); i < cycles && !p.halted; i++ {
		p.Tick()
	}
	return !p.halted
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Reset clears all pipeline state, keeping configuration and the
// attached memory and register file.
func (p *Pipeline) Reset() {
	p.idex = DecodePayload{}
	p.exmem = ExecutePayload{}
	p.memwb = WritebackPayload{}
	p.fetch.Reset(p.predConfig)
	p.fetch.SetStartPC(p.startPC)
	p.stats = Statistics{}
	p.draining = false
	p.halted = false
}
