package emu

import "github.com/sarchlab/rvfront/insts"

// ALUOutput executes the integer operation for a decoded instruction and
// returns the 32-bit result. op1 and op2 are the already-selected operands
// (register, immediate, or bypassed values).
//
// For conditional branches the result is a comparison value whose
// zero-ness resolves the branch: the eq/ge family is taken when the
// output is zero, the ne/lt family when it is nonzero. This matches the
// hardware convention of routing branch resolution through the ALU zero
// flag instead of a dedicated comparator.
func ALUOutput(op insts.Op, op1, op2 uint32) uint32 {
	switch op {
	case insts.OpADD, insts.OpADDI:
		return op1 + op2
	case insts.OpSUB:
		return op1 - op2
	case insts.OpSLL, insts.OpSLLI:
		return op1 << (op2 & 0x1F)
	case insts.OpSRL, insts.OpSRLI:
		return op1 >> (op2 & 0x1F)
	case insts.OpSRA, insts.OpSRAI:
		return uint32(int32(op1) >> (op2 & 0x1F))
	case insts.OpSLT, insts.OpSLTI:
		if int32(op1) < int32(op2) {
			return 1
		}
		return 0
	case insts.OpSLTU, insts.OpSLTIU:
		if op1 < op2 {
			return 1
		}
		return 0
	case insts.OpXOR, insts.OpXORI:
		return op1 ^ op2
	case insts.OpOR, insts.OpORI:
		return op1 | op2
	case insts.OpAND, insts.OpANDI:
		return op1 & op2

	case insts.OpBEQ, insts.OpBNE:
		return op1 ^ op2
	case insts.OpBLT, insts.OpBGE:
		if int32(op1) < int32(op2) {
			return 1
		}
		return 0
	case insts.OpBLTU, insts.OpBGEU:
		if op1 < op2 {
			return 1
		}
		return 0

	default:
		return 0
	}
}
