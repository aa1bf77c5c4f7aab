package insts

// Instruction encoders. These build RV32I machine words from fields and
// are the inverse of Decode for the supported instructions. They are used
// by tests and by the demo program to assemble code without an external
// toolchain.

// EncodeR encodes a register-register ALU instruction.
func EncodeR(op Op, rd, rs1, rs2 uint8) uint32 {
	var funct3, funct7 uint32
	switch op {
	case OpADD:
		funct3 = 0b000
	case OpSUB:
		funct3, funct7 = 0b000, 0x20
	case OpSLL:
		funct3 = 0b001
	case OpSLT:
		funct3 = 0b010
	case OpSLTU:
		funct3 = 0b011
	case OpXOR:
		funct3 = 0b100
	case OpSRL:
		funct3 = 0b101
	case OpSRA:
		funct3, funct7 = 0b101, 0x20
	case OpOR:
		funct3 = 0b110
	case OpAND:
		funct3 = 0b111
	}
	return funct7<<25 | uint32(rs2&0x1F)<<20 | uint32(rs1&0x1F)<<15 |
		funct3<<12 | uint32(rd&0x1F)<<7 | opcodeOp
}

// EncodeI encodes an immediate ALU instruction, a load, or JALR.
func EncodeI(op Op, rd, rs1 uint8, imm int32) uint32 {
	var opcode, funct3 uint32
	switch op {
	case OpADDI:
		opcode, funct3 = opcodeOpImm, 0b000
	case OpSLTI:
		opcode, funct3 = opcodeOpImm, 0b010
	case OpSLTIU:
		opcode, funct3 = opcodeOpImm, 0b011
	case OpXORI:
		opcode, funct3 = opcodeOpImm, 0b100
	case OpORI:
		opcode, funct3 = opcodeOpImm, 0b110
	case OpANDI:
		opcode, funct3 = opcodeOpImm, 0b111
	case OpSLLI:
		opcode, funct3 = opcodeOpImm, 0b001
	case OpSRLI:
		opcode, funct3 = opcodeOpImm, 0b101
	case OpSRAI:
		opcode, funct3 = opcodeOpImm, 0b101
		imm = imm&0x1F | 0x400
	case OpLB:
		opcode, funct3 = opcodeLoad, 0b000
	case OpLH:
		opcode, funct3 = opcodeLoad, 0b001
	case OpLW:
		opcode, funct3 = opcodeLoad, 0b010
	case OpLBU:
		opcode, funct3 = opcodeLoad, 0b100
	case OpLHU:
		opcode, funct3 = opcodeLoad, 0b101
	case OpJALR:
		opcode, funct3 = opcodeJALR, 0b000
	}
	return uint32(imm&0xFFF)<<20 | uint32(rs1&0x1F)<<15 |
		funct3<<12 | uint32(rd&0x1F)<<7 | opcode
}

// EncodeS encodes a store instruction.
func EncodeS(op Op, rs1, rs2 uint8, imm int32) uint32 {
	var funct3 uint32
	switch op {
	case OpSB:
		funct3 = 0b000
	case OpSH:
		funct3 = 0b001
	case OpSW:
		funct3 = 0b010
	}
	u := uint32(imm)
	return (u>>5&0x7F)<<25 | uint32(rs2&0x1F)<<20 | uint32(rs1&0x1F)<<15 |
		funct3<<12 | (u&0x1F)<<7 | opcodeStore
}

// EncodeB encodes a conditional branch with a byte offset from the branch PC.
// The offset must be even and fit in 13 signed bits.
func EncodeB(op Op, rs1, rs2 uint8, offset int32) uint32 {
	var funct3 uint32
	switch op {
	case OpBEQ:
		funct3 = 0b000
	case OpBNE:
		funct3 = 0b001
	case OpBLT:
		funct3 = 0b100
	case OpBGE:
		funct3 = 0b101
	case OpBLTU:
		funct3 = 0b110
	case OpBGEU:
		funct3 = 0b111
	}
	u := uint32(offset)
	return (u>>12&0x1)<<31 | (u>>5&0x3F)<<25 |
		uint32(rs2&0x1F)<<20 | uint32(rs1&0x1F)<<15 | funct3<<12 |
		(u>>1&0xF)<<8 | (u>>11&0x1)<<7 | opcodeBranch
}

// EncodeU encodes LUI or AUIPC. imm supplies bits [31:12].
func EncodeU(op Op, rd uint8, imm int32) uint32 {
	opcode := uint32(opcodeLUI)
	if op == OpAUIPC {
		opcode = opcodeAUIPC
	}
	return uint32(imm)&0xFFFFF000 | uint32(rd&0x1F)<<7 | opcode
}

// EncodeJAL encodes JAL with a byte offset from the jump PC.
// The offset must be even and fit in 21 signed bits.
func EncodeJAL(rd uint8, offset int32) uint32 {
	u := uint32(offset)
	return (u>>20&0x1)<<31 | (u>>1&0x3FF)<<21 | (u>>11&0x1)<<20 |
		(u>>12&0xFF)<<12 | uint32(rd&0x1F)<<7 | opcodeJAL
}
