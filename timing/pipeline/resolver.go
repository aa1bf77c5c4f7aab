package pipeline

import "github.com/sarchlab/rvfront/timing/predictor"

// Redirect is a corrected program counter flowing backward to fetch. It
// overrides normal next-PC sequencing unconditionally.
type Redirect struct {
	// Valid indicates a redirect is present.
	Valid bool
	// Target is the corrected PC.
	Target uint32
}

// RedirectTo builds a valid redirect.
func RedirectTo(target uint32) Redirect {
	return Redirect{Valid: true, Target: target}
}

// Bypass is a not-yet-committed register value broadcast backward so an
// earlier stage can consume it before writeback. Bypasses are read-only
// snapshots; consumers never mutate them.
type Bypass struct {
	// Valid indicates the bypass carries a value.
	Valid bool
	// Rd is the destination register the value is bound for.
	Rd uint8
	// Value is the computed value.
	Value uint32
}

// Stall names the destination register of an outstanding producer whose
// value exists nowhere in the pipeline yet (a load still in execute).
// A consumer of that register must hold until the value appears as a
// bypass.
type Stall struct {
	// Valid indicates a stall condition is present.
	Valid bool
	// Rd is the destination register of the outstanding producer.
	Rd uint8
}

// MemResolver is the backward resolver from the memory/writeback end of
// the pipeline. It is rebuilt every cycle; nothing in it persists.
type MemResolver struct {
	// BypassFromMem is the value computed by the instruction currently
	// in the memory stage.
	BypassFromMem Bypass

	// BypassFromWb is the value being written back this cycle.
	BypassFromWb Bypass

	// Redirect is a non-speculative control transfer originating at or
	// after memory. None exist in this model, but the field is part of
	// the resolver contract and merges with priority over the execute
	// redirect.
	Redirect Redirect

	// RegFile is a read-only snapshot of the architectural registers,
	// taken before this cycle's writeback.
	RegFile [32]uint32
}

// ExeResolver is the backward resolver from the execute stage to decode.
// It composes the downstream MemResolver with execute-local facts.
type ExeResolver struct {
	// Bypassed values from the last three in-flight producers, nearest
	// stage first.
	BypassFromExe Bypass
	BypassFromMem Bypass
	BypassFromWb  Bypass

	// Stall names the rd of an outstanding load in execute.
	Stall Stall

	// Redirect is the corrected PC, if any stage resolved a
	// misprediction this cycle.
	Redirect Redirect

	// RegFile is the architectural register snapshot passed through
	// from downstream.
	RegFile [32]uint32

	// Update is the predictor-update event from branch resolution.
	Update predictor.Update
}

// ComposeExeResolver merges execute-local facts with the downstream
// resolver. Fields the execute stage does not originate pass through
// unchanged; for the redirect, a downstream (older-instruction) redirect
// takes precedence over the execute-local one.
func ComposeExeResolver(
	memr MemResolver,
	bypass Bypass,
	stall Stall,
	redirect Redirect,
	update predictor.Update,
) ExeResolver {
	merged := memr.Redirect
	if !merged.Valid {
		merged = redirect
	}

	return ExeResolver{
		BypassFromExe: bypass,
		BypassFromMem: memr.BypassFromMem,
		BypassFromWb:  memr.BypassFromWb,
		Stall:         stall,
		Redirect:      merged,
		RegFile:       memr.RegFile,
		Update:        update,
	}
}

// ReadReg resolves a source register against the resolver: the nearest
// in-flight bypass wins, then the register-file snapshot. ok is false
// when the register is named by the stall field, meaning its value does
// not exist anywhere in the pipeline yet.
func (r ExeResolver) ReadReg(reg uint8) (value uint32, ok bool) {
	if reg == 0 {
		return 0, true
	}
	if r.Stall.Valid && r.Stall.Rd == reg {
		return 0, false
	}

	switch {
	case r.BypassFromExe.Valid && r.BypassFromExe.Rd == reg:
		return r.BypassFromExe.Value, true
	case r.BypassFromMem.Valid && r.BypassFromMem.Rd == reg:
		return r.BypassFromMem.Value, true
	case r.BypassFromWb.Valid && r.BypassFromWb.Rd == reg:
		return r.BypassFromWb.Value, true
	default:
		return r.RegFile[reg], true
	}
}

// DecResolver is the backward resolver from decode to fetch: only the
// redirect and the predictor-update event survive past decode.
type DecResolver struct {
	// Redirect is the corrected PC, if any.
	Redirect Redirect

	// Update is the predictor-update event to apply before the next
	// prediction.
	Update predictor.Update
}

// ToFetch narrows the execute resolver to the fields fetch consumes.
func (r ExeResolver) ToFetch() DecResolver {
	return DecResolver{
		Redirect: r.Redirect,
		Update:   r.Update,
	}
}
