package pipeline

import (
	"github.com/sarchlab/rvfront/emu"
	"github.com/sarchlab/rvfront/timing/predictor"
)

// InstMem is the instruction-side memory port consumed by fetch: a
// request/response interface returning the word at an address together
// with the access latency in cycles (at least 1). An ideal memory
// answers in 1 cycle; a cache model may take longer on a miss.
type InstMem interface {
	Fetch(addr uint32) (word uint32, latency uint64)
}

// idealInstMem answers every fetch in a single cycle.
type idealInstMem struct {
	mem *emu.Memory
}

// NewIdealInstMem wraps a memory as a 1-cycle instruction port.
func NewIdealInstMem(mem *emu.Memory) InstMem {
	return idealInstMem{mem: mem}
}

func (m idealInstMem) Fetch(addr uint32) (uint32, uint64) {
	return m.mem.Read32(addr), 1
}

// FetchStats holds fetch-stage statistics.
type FetchStats struct {
	// Fetches is the number of fetch requests issued.
	Fetches uint64
	// Killed is the number of in-flight fetched payloads dropped on a
	// redirect instead of being forwarded downstream.
	Killed uint64
}

// FetchStage computes the next program counter speculatively, issues
// instruction-memory requests, attaches a prediction to each fetched
// word, and discards stale in-flight results when a redirect arrives.
//
// The stage owns two pieces of registered state: the program counter and
// the predictor tables. The PC register seeds at the configured start
// address; everything else is recomputed per cycle. The stage is the
// predictor's sole owner: updates reach the tables only through the
// resolver event this stage applies.
type FetchStage struct {
	imem    InstMem
	pred    predictor.Predictor
	startPC uint32

	// Registered state.
	pc     uint32
	primed bool

	// In-flight fetch. out is the registered fetched-but-not-yet-retired
	// payload visible to decode; busy counts remaining cycles of a
	// multi-cycle memory access.
	out         FetchPayload
	busy        uint64
	pendingWord uint32

	stats FetchStats
}

// NewFetchStage creates a fetch stage reading from imem, starting at
// startPC, with a fresh predictor.
func NewFetchStage(imem InstMem, config predictor.Config, startPC uint32) *FetchStage {
	return &FetchStage{
		imem:    imem,
		pred:    predictor.New(config),
		startPC: startPC,
	}
}

// Output returns the registered fetch payload for decode to consume
// this cycle.
func (s *FetchStage) Output() FetchPayload {
	return s.out
}

// Predictor returns the current predictor state.
func (s *FetchStage) Predictor() predictor.Predictor {
	return s.pred
}

// Stats returns fetch-stage statistics.
func (s *FetchStage) Stats() FetchStats {
	return s.stats
}

// Cycle advances the stage one clock, given the backward resolver from
// decode and whether decode is stalling this cycle.
//
// The resolver's update event is applied to the predictor first, in the
// same cycle it arrives, so this cycle's prediction already sees it.
// Priority for the next PC is then: redirect, previous payload's
// prediction, start address. On a redirect the in-flight payload is
// reported consumed and dropped rather than forwarded, which is how
// mis-speculated fetches are flushed.
func (s *FetchStage) Cycle(r DecResolver, stall bool) {
	s.pred = s.pred.Apply(r.Update)

	if r.Redirect.Valid {
		if s.out.Valid || s.busy > 0 {
			s.stats.Killed++
		}
		s.out = FetchPayload{}
		s.begin(r.Redirect.Target)
		return
	}

	if s.busy > 0 {
		s.busy--
		if s.busy == 0 {
			s.complete()
		}
		return
	}

	if stall {
		return
	}

	s.begin(s.nextPC())
}

// nextPC computes the speculative next PC from the previous cycle's
// fetched instruction and its prediction.
func (s *FetchStage) nextPC() uint32 {
	if !s.primed {
		return s.startPC
	}
	if !s.out.Valid {
		return s.pc + 4
	}

	current := s.out.Resp.Addr
	pred := s.out.Pred

	switch {
	case pred.Pre.IsJal:
		return current + uint32(pred.Pre.Imm)
	case pred.Pre.IsJalr:
		// BTB hit predicts the cached target; a miss already defaulted
		// the prediction to sequential fetch.
		return pred.Target
	case pred.Pre.IsBranch:
		if pred.Taken {
			return current + uint32(pred.Pre.Imm)
		}
		return current + 4
	default:
		return current + 4
	}
}

// begin registers pc and issues the memory request for it.
func (s *FetchStage) begin(pc uint32) {
	s.pc = pc
	s.primed = true
	s.stats.Fetches++

	word, latency := s.imem.Fetch(pc)
	s.pendingWord = word
	if latency <= 1 {
		s.busy = 0
		s.complete()
		return
	}
	s.out = FetchPayload{}
	s.busy = latency - 1
}

// complete turns the arrived memory response into the outgoing payload,
// predicting against the current predictor state.
func (s *FetchStage) complete() {
	resp := MemResponse{Addr: s.pc, Data: s.pendingWord}
	s.out = FetchPayload{
		Valid: true,
		Resp:  resp,
		Pred:  s.pred.Predict(resp.Addr, resp.Data),
	}
}

// Reset returns the stage to its post-construction state, keeping the
// memory port and configuration.
func (s *FetchStage) Reset(config predictor.Config) {
	s.pred = predictor.New(config)
	s.pc = 0
	s.primed = false
	s.out = FetchPayload{}
	s.busy = 0
	s.pendingWord = 0
	s.stats = FetchStats{}
}

// SetStartPC changes the fetch seed address. It only has effect before
// the first cycle or after a Reset.
func (s *FetchStage) SetStartPC(pc uint32) {
	s.startPC = pc
}
