package insts

// RV32I major opcodes (bits [6:0] of the instruction word).
const (
	opcodeLUI    = 0x37
	opcodeAUIPC  = 0x17
	opcodeJAL    = 0x6F
	opcodeJALR   = 0x67
	opcodeBranch = 0x63
	opcodeLoad   = 0x03
	opcodeStore  = 0x23
	opcodeOpImm  = 0x13
	opcodeOp     = 0x33
	opcodeFence  = 0x0F
	opcodeSystem = 0x73
)

// EBreakWord is the encoding of EBREAK, used as the halt marker by the
// timing model.
const EBreakWord uint32 = 0x00100073

// Decoder decodes RV32I machine words into Instruction values.
type Decoder struct{}

// NewDecoder creates a new decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a single 32-bit instruction word.
// Unrecognized words decode to OpUnknown rather than failing; the timing
// model treats them as straight-line instructions with no effects.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Word: word,
		Op:   OpUnknown,
		Rd:   uint8((word >> 7) & 0x1F),
		Rs1:  uint8((word >> 15) & 0x1F),
		Rs2:  uint8((word >> 20) & 0x1F),
	}

	funct3 := (word >> 12) & 0x7
	funct7 := (word >> 25) & 0x7F

	switch word & 0x7F {
	case opcodeLUI:
		inst.Op = OpLUI
		inst.Format = FormatU
		inst.Imm = immU(word)

	case opcodeAUIPC:
		inst.Op = OpAUIPC
		inst.Format = FormatU
		inst.Imm = immU(word)

	case opcodeJAL:
		inst.Op = OpJAL
		inst.Format = FormatJ
		inst.Imm = immJ(word)

	case opcodeJALR:
		inst.Op = OpJALR
		inst.Format = FormatI
		inst.Imm = immI(word)

	case opcodeBranch:
		inst.Format = FormatB
		inst.Imm = immB(word)
		switch funct3 {
		case 0b000:
			inst.Op = OpBEQ
		case 0b001:
			inst.Op = OpBNE
		case 0b100:
			inst.Op = OpBLT
		case 0b101:
			inst.Op = OpBGE
		case 0b110:
			inst.Op = OpBLTU
		case 0b111:
			inst.Op = OpBGEU
		default:
			inst.Op = OpUnknown
			inst.Format = FormatUnknown
		}

	case opcodeLoad:
		inst.Format = FormatI
		inst.Imm = immI(word)
		switch funct3 {
		case 0b000:
			inst.Op = OpLB
		case 0b001:
			inst.Op = OpLH
		case 0b010:
			inst.Op = OpLW
		case 0b100:
			inst.Op = OpLBU
		case 0b101:
			inst.Op = OpLHU
		default:
			inst.Op = OpUnknown
			inst.Format = FormatUnknown
		}

	case opcodeStore:
		inst.Format = FormatS
		inst.Imm = immS(word)
		switch funct3 {
		case 0b000:
			inst.Op = OpSB
		case 0b001:
			inst.Op = OpSH
		case 0b010:
			inst.Op = OpSW
		default:
			inst.Op = OpUnknown
			inst.Format = FormatUnknown
		}

	case opcodeOpImm:
		inst.Format = FormatI
		inst.Imm = immI(word)
		switch funct3 {
		case 0b000:
			inst.Op = OpADDI
		case 0b010:
			inst.Op = OpSLTI
		case 0b011:
			inst.Op = OpSLTIU
		case 0b100:
			inst.Op = OpXORI
		case 0b110:
			inst.Op = OpORI
		case 0b111:
			inst.Op = OpANDI
		case 0b001:
			inst.Op = OpSLLI
			inst.Imm = int32((word >> 20) & 0x1F)
		case 0b101:
			// SRLI and SRAI share funct3; bit 30 selects arithmetic.
			if funct7&0x20 != 0 {
				inst.Op = OpSRAI
			} else {
				inst.Op = OpSRLI
			}
			inst.Imm = int32((word >> 20) & 0x1F)
		}

	case opcodeOp:
		inst.Format = FormatR
		switch funct3 {
		case 0b000:
			if funct7&0x20 != 0 {
				inst.Op = OpSUB
			} else {
				inst.Op = OpADD
			}
		case 0b001:
			inst.Op = OpSLL
		case 0b010:
			inst.Op = OpSLT
		case 0b011:
			inst.Op = OpSLTU
		case 0b100:
			inst.Op = OpXOR
		case 0b101:
			if funct7&0x20 != 0 {
				inst.Op = OpSRA
			} else {
				inst.Op = OpSRL
			}
		case 0b110:
			inst.Op = OpOR
		case 0b111:
			inst.Op = OpAND
		}

	case opcodeFence:
		inst.Op = OpFENCE
		inst.Format = FormatI

	case opcodeSystem:
		inst.Format = FormatI
		switch word >> 20 {
		case 0:
			inst.Op = OpECALL
		case 1:
			inst.Op = OpEBREAK
		}
	}

	return inst
}

// Immediate extraction. All immediates are sign-extended per the RV32I
// encodings; branch and jump immediates are already scaled to bytes.

func immI(word uint32) int32 {
	return int32(word) >> 20
}

func immS(word uint32) int32 {
	return (int32(word)>>25)<<5 | int32((word>>7)&0x1F)
}

func immB(word uint32) int32 {
	imm := (int32(word)>>31)<<12 |
		int32((word>>7)&0x1)<<11 |
		int32((word>>25)&0x3F)<<5 |
		int32((word>>8)&0xF)<<1
	return imm
}

func immU(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}

func immJ(word uint32) int32 {
	imm := (int32(word)>>31)<<20 |
		int32((word>>12)&0xFF)<<12 |
		int32((word>>20)&0x1)<<11 |
		int32((word>>21)&0x3FF)<<1
	return imm
}
