// Package insts provides RV32I instruction definitions, decoding, and the
// light-weight pre-decode used by the fetch stage.
//
// Full decode produces a structured Instruction for the decode/execute
// stages. Pre-decode only classifies a raw word far enough to steer
// speculative fetch: whether it is a jump, an indirect jump, or a
// conditional branch, and what its branch immediate is.
package insts

// Op represents an RV32I opcode.
type Op uint16

// RV32I opcodes.
const (
	OpUnknown Op = iota
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpFENCE
	OpECALL
	OpEBREAK
)

// Format represents an RV32I encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR               // Register-register ALU
	FormatI               // Immediate ALU, loads, JALR, SYSTEM
	FormatS               // Stores
	FormatB               // Conditional branches
	FormatU               // LUI, AUIPC
	FormatJ               // JAL
)

// BranchKind classifies the control-transfer behavior of an instruction.
// It is a closed set: an instruction is exactly one of these, never a
// combination of boolean flags that could disagree.
type BranchKind uint8

const (
	// KindNone means the instruction does not transfer control.
	KindNone BranchKind = iota
	// KindJal is a PC-relative unconditional jump. Its target is fully
	// known from the instruction word, so once pre-decoded it never
	// mispredicts.
	KindJal
	// KindJalr is a register-indirect jump. Its target is only known at
	// execute time; fetch relies on the BTB.
	KindJalr
	// KindCondEqGe covers BEQ, BGE, and BGEU: the branch is taken when
	// the ALU comparison output is zero.
	KindCondEqGe
	// KindCondNeLt covers BNE, BLT, and BLTU: the branch is taken when
	// the ALU comparison output is nonzero.
	KindCondNeLt
)

// String returns a human-readable name for the branch kind.
func (k BranchKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindJal:
		return "jal"
	case KindJalr:
		return "jalr"
	case KindCondEqGe:
		return "cond-eq-ge"
	case KindCondNeLt:
		return "cond-ne-lt"
	default:
		return "invalid"
	}
}

// Instruction represents a decoded RV32I instruction.
type Instruction struct {
	// Word is the raw 32-bit instruction word.
	Word uint32

	// Op is the decoded opcode.
	Op Op

	// Format is the encoding format.
	Format Format

	// Register numbers. Register 0 is hardwired to zero.
	Rd  uint8
	Rs1 uint8
	Rs2 uint8

	// Imm is the sign-extended immediate for I/S/B/U/J formats.
	Imm int32
}

// Kind returns the branch kind of the instruction.
func (i *Instruction) Kind() BranchKind {
	switch i.Op {
	case OpJAL:
		return KindJal
	case OpJALR:
		return KindJalr
	case OpBEQ, OpBGE, OpBGEU:
		return KindCondEqGe
	case OpBNE, OpBLT, OpBLTU:
		return KindCondNeLt
	default:
		return KindNone
	}
}

// IsLoad returns true for load instructions.
func (i *Instruction) IsLoad() bool {
	switch i.Op {
	case OpLB, OpLH, OpLW, OpLBU, OpLHU:
		return true
	default:
		return false
	}
}

// IsStore returns true for store instructions.
func (i *Instruction) IsStore() bool {
	switch i.Op {
	case OpSB, OpSH, OpSW:
		return true
	default:
		return false
	}
}

// WritesRd returns true if the instruction writes a destination register.
// Branches, stores, fences, system instructions, and writes to x0 do not.
func (i *Instruction) WritesRd() bool {
	if i.Rd == 0 {
		return false
	}
	switch i.Format {
	case FormatS, FormatB, FormatUnknown:
		return false
	}
	switch i.Op {
	case OpFENCE, OpECALL, OpEBREAK:
		return false
	}
	return true
}
