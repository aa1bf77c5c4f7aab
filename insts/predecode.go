package insts

// PreDecode is the fetch-time classification of a raw instruction word.
// It answers only the questions next-PC selection needs; everything else
// waits for full decode. Exactly one of the Is* flags can be set because
// the major opcodes are mutually exclusive.
type PreDecode struct {
	// IsJal is true for PC-relative unconditional jumps (JAL).
	IsJal bool

	// IsJalr is true for register-indirect jumps (JALR).
	IsJalr bool

	// IsBranch is true for conditional branches.
	IsBranch bool

	// Imm is the PC-relative offset for JAL and conditional branches.
	// It is meaningless for JALR (the target comes from the BTB) and for
	// plain instructions.
	Imm int32
}

// PreDecodeWord classifies a raw instruction word without full decode.
// It inspects only the major opcode and the immediate bits, which is all
// the fetch stage can afford in its cycle.
func PreDecodeWord(word uint32) PreDecode {
	switch word & 0x7F {
	case opcodeJAL:
		return PreDecode{IsJal: true, Imm: immJ(word)}
	case opcodeJALR:
		return PreDecode{IsJalr: true}
	case opcodeBranch:
		return PreDecode{IsBranch: true, Imm: immB(word)}
	default:
		return PreDecode{}
	}
}
