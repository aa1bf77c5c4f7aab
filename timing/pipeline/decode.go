package pipeline

import "github.com/sarchlab/rvfront/insts"

// decode runs the decode stage for one cycle: full decode, operand
// selection against the execute resolver (nearest bypass first, then the
// register-file snapshot), and extraction of the branch info the execute
// stage resolves against.
//
// stalled is true when a source operand is named by the resolver's stall
// field, meaning no stage can supply it yet; the caller must hold the
// fetch payload and insert a bubble into execute.
func (p *Pipeline) decode(ifid FetchPayload, exer ExeResolver) (out DecodePayload, stalled bool) {
	if !ifid.Valid {
		return DecodePayload{}, false
	}

	pc := ifid.Resp.Addr
	inst := p.decoder.Decode(ifid.Resp.Data)

	rs1, rs1Ok := uint32(0), true
	if usesRs1(inst) {
		rs1, rs1Ok = exer.ReadReg(inst.Rs1)
	}
	rs2, rs2Ok := uint32(0), true
	if usesRs2(inst) {
		rs2, rs2Ok = exer.ReadReg(inst.Rs2)
	}
	if !rs1Ok || !rs2Ok {
		return DecodePayload{}, true
	}

	out = DecodePayload{
		Valid: true,
		PC:    pc,
		Inst:  inst,
		Pred:  ifid.Pred,
	}

	switch inst.Format {
	case insts.FormatR, insts.FormatB:
		out.Op1, out.Op2 = rs1, rs2
	case insts.FormatI:
		out.Op1, out.Op2 = rs1, uint32(inst.Imm)
	case insts.FormatS:
		out.Op1, out.Op2 = rs1, uint32(inst.Imm)
		out.StoreValue = rs2
	}

	switch kind := inst.Kind(); kind {
	case insts.KindJal, insts.KindCondEqGe, insts.KindCondNeLt:
		out.Br = BranchInfo{Kind: kind, Base: pc, Offset: uint32(inst.Imm)}
	case insts.KindJalr:
		out.Br = BranchInfo{Kind: kind, Base: rs1, Offset: uint32(inst.Imm)}
	}

	return out, false
}

// usesRs1 reports whether the instruction reads rs1.
func usesRs1(inst *insts.Instruction) bool {
	switch inst.Format {
	case insts.FormatR, insts.FormatI, insts.FormatS, insts.FormatB:
		switch inst.Op {
		case insts.OpFENCE, insts.OpECALL, insts.OpEBREAK:
			return false
		}
		return true
	default:
		return false
	}
}

// usesRs2 reports whether the instruction reads rs2.
func usesRs2(inst *insts.Instruction) bool {
	switch inst.Format {
	case insts.FormatR, insts.FormatS, insts.FormatB:
		return true
	default:
		return false
	}
}
