package pipeline

import (
	"github.com/sarchlab/rvfront/emu"
	"github.com/sarchlab/rvfront/insts"
	"github.com/sarchlab/rvfront/timing/predictor"
)

// Resolve is the execute-stage branch-resolution decision table. Given
// the control-transfer info of the instruction, its fetch-time
// prediction, and the ALU comparison output, it decides whether the
// pipeline must redirect and which predictor-update event to emit.
//
// aluOut is the comparison value for conditional branches; the eq/ge
// family resolves taken when it is zero, the ne/lt family when it is
// nonzero. A redirect is emitted if and only if the resolved outcome
// disagrees with the prediction. Every resolved conditional branch emits
// a BHT update, correct or not; a JALR emits a BTB update only on a
// target mismatch; a JAL never emits anything because its target was
// already known at pre-decode.
func Resolve(
	br BranchInfo,
	pc uint32,
	pred predictor.Result,
	aluOut uint32,
) (Redirect, predictor.Update) {
	target := br.Target()

	switch br.Kind {
	case insts.KindJal:
		return Redirect{}, predictor.Update{}

	case insts.KindJalr:
		if target == pred.Target {
			return Redirect{}, predictor.Update{}
		}
		return RedirectTo(target), predictor.BtbUpdate(pc, target)

	case insts.KindCondEqGe:
		return resolveConditional(pc, target, pred.Taken, aluOut == 0)

	case insts.KindCondNeLt:
		return resolveConditional(pc, target, pred.Taken, aluOut != 0)

	default:
		return Redirect{}, predictor.Update{}
	}
}

// resolveConditional handles the four prediction-versus-outcome cases
// shared by both conditional-branch families.
func resolveConditional(
	pc, target uint32,
	predictedTaken, taken bool,
) (Redirect, predictor.Update) {
	update := predictor.BhtUpdate(pc, taken)

	switch {
	case taken && predictedTaken:
		return Redirect{}, update
	case taken && !predictedTaken:
		return RedirectTo(target), update
	case !taken && predictedTaken:
		return RedirectTo(pc + 4), update
	default:
		return Redirect{}, update
	}
}

// execute runs the execute stage for one cycle: ALU evaluation, branch
// resolution, and composition of the backward resolver. The forward
// payload is suppressed when a downstream redirect is killing this
// instruction.
func (p *Pipeline) execute(idex DecodePayload, memr MemResolver) (ExecutePayload, ExeResolver) {
	if !idex.Valid {
		stall := Stall{}
		return ExecutePayload{},
			ComposeExeResolver(memr, Bypass{}, stall, Redirect{}, predictor.Update{})
	}

	inst := idex.Inst
	kind := inst.Kind()

	var alu uint32
	switch {
	case inst.Op == insts.OpLUI:
		alu = uint32(inst.Imm)
	case inst.Op == insts.OpAUIPC:
		alu = idex.PC + uint32(inst.Imm)
	case kind == insts.KindJal || kind == insts.KindJalr:
		// Link address.
		alu = idex.PC + 4
	case inst.IsLoad() || inst.IsStore():
		// Effective address.
		alu = idex.Op1 + idex.Op2
	default:
		alu = emu.ALUOutput(inst.Op, idex.Op1, idex.Op2)
	}

	var cmp uint32
	if kind == insts.KindCondEqGe || kind == insts.KindCondNeLt {
		cmp = emu.ALUOutput(inst.Op, idex.Op1, idex.Op2)
	}

	redirect, update := Resolve(idex.Br, idex.PC, idex.Pred, cmp)
	p.recordBranch(kind, idex.Pred, redirect)

	var bypass Bypass
	if inst.WritesRd() && !inst.IsLoad() {
		bypass = Bypass{Valid: true, Rd: inst.Rd, Value: alu}
	}

	var stall Stall
	if inst.IsLoad() && inst.Rd != 0 {
		stall = Stall{Valid: true, Rd: inst.Rd}
	}

	resolver := ComposeExeResolver(memr, bypass, stall, redirect, update)

	// A redirect from an older instruction downstream kills this one.
	if memr.Redirect.Valid {
		return ExecutePayload{}, resolver
	}

	return ExecutePayload{
		Valid:      true,
		PC:         idex.PC,
		Inst:       inst,
		ALUResult:  alu,
		StoreValue: idex.StoreValue,
	}, resolver
}

// recordBranch accounts prediction statistics for resolved control
// transfers. JAL is excluded: its target is known at pre-decode and it
// cannot mispredict.
func (p *Pipeline) recordBranch(kind insts.BranchKind, pred predictor.Result, redirect Redirect) {
	switch kind {
	case insts.KindJalr:
		p.stats.BranchPredictions++
		if pred.TargetKnown {
			p.stats.BTBHits++
		} else {
			p.stats.BTBMisses++
		}
	case insts.KindCondEqGe, insts.KindCondNeLt:
		p.stats.BranchPredictions++
	default:
		return
	}

	if redirect.Valid {
		p.stats.BranchMispredictions++
	} else {
		p.stats.BranchCorrect++
	}
}
