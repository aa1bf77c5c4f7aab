package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvfront/emu"
	"github.com/sarchlab/rvfront/insts"
)

var _ = Describe("ALUOutput", func() {
	It("should compute basic arithmetic", func() {
		Expect(emu.ALUOutput(insts.OpADD, 3, 4)).To(Equal(uint32(7)))
		Expect(emu.ALUOutput(insts.OpSUB, 3, 4)).To(Equal(uint32(0xFFFFFFFF)))
		Expect(emu.ALUOutput(insts.OpXOR, 0xF0, 0x0F)).To(Equal(uint32(0xFF)))
		Expect(emu.ALUOutput(insts.OpAND, 0xF0, 0x3C)).To(Equal(uint32(0x30)))
		Expect(emu.ALUOutput(insts.OpOR, 0xF0, 0x0F)).To(Equal(uint32(0xFF)))
	})

	It("should compute shifts with masked amounts", func() {
		Expect(emu.ALUOutput(insts.OpSLL, 1, 4)).To(Equal(uint32(16)))
		Expect(emu.ALUOutput(insts.OpSRL, 0x80000000, 31)).To(Equal(uint32(1)))
		Expect(emu.ALUOutput(insts.OpSRA, 0x80000000, 31)).To(Equal(uint32(0xFFFFFFFF)))
		Expect(emu.ALUOutput(insts.OpSLL, 1, 33)).To(Equal(uint32(2)))
	})

	It("should compare signed and unsigned", func() {
		Expect(emu.ALUOutput(insts.OpSLT, 0xFFFFFFFF, 1)).To(Equal(uint32(1)))
		Expect(emu.ALUOutput(insts.OpSLTU, 0xFFFFFFFF, 1)).To(Equal(uint32(0)))
	})

	Describe("branch comparison outputs", func() {
		It("should resolve BEQ through the zero test", func() {
			// eq/ge family: taken iff output is zero.
			Expect(emu.ALUOutput(insts.OpBEQ, 7, 7)).To(Equal(uint32(0)))
			Expect(emu.ALUOutput(insts.OpBEQ, 7, 8)).NotTo(Equal(uint32(0)))
		})

		It("should resolve BGE through the signed less-than output", func() {
			Expect(emu.ALUOutput(insts.OpBGE, 5, 3)).To(Equal(uint32(0)))
			Expect(emu.ALUOutput(insts.OpBGE, 3, 3)).To(Equal(uint32(0)))
			Expect(emu.ALUOutput(insts.OpBGE, 0xFFFFFFFF, 0)).To(Equal(uint32(1)))
		})

		It("should resolve BLTU through the unsigned less-than output", func() {
			// ne/lt family: taken iff output is nonzero.
			Expect(emu.ALUOutput(insts.OpBLTU, 1, 0xFFFFFFFF)).To(Equal(uint32(1)))
			Expect(emu.ALUOutput(insts.OpBLTU, 0xFFFFFFFF, 1)).To(Equal(uint32(0)))
		})
	})
})

var _ = Describe("RegFile", func() {
	It("should hardwire x0 to zero", func() {
		rf := &emu.RegFile{}
		rf.WriteReg(0, 42)
		Expect(rf.ReadReg(0)).To(Equal(uint32(0)))
	})

	It("should read back written values", func() {
		rf := &emu.RegFile{}
		rf.WriteReg(5, 0xDEADBEEF)
		Expect(rf.ReadReg(5)).To(Equal(uint32(0xDEADBEEF)))
	})

	It("should snapshot without aliasing", func() {
		rf := &emu.RegFile{}
		rf.WriteReg(3, 10)
		snap := rf.Snapshot()
		rf.WriteReg(3, 20)
		Expect(snap[3]).To(Equal(uint32(10)))
	})
})

var _ = Describe("Memory", func() {
	It("should read zero from untouched addresses", func() {
		mem := emu.NewMemory()
		Expect(mem.Read32(0x1000)).To(Equal(uint32(0)))
	})

	It("should round-trip little-endian words", func() {
		mem := emu.NewMemory()
		mem.Write32(0x1000, 0x11223344)
		Expect(mem.Read8(0x1000)).To(Equal(uint8(0x44)))
		Expect(mem.Read8(0x1003)).To(Equal(uint8(0x11)))
		Expect(mem.Read32(0x1000)).To(Equal(uint32(0x11223344)))
	})

	It("should handle accesses across page boundaries", func() {
		mem := emu.NewMemory()
		mem.Write32(0xFFE, 0xAABBCCDD)
		Expect(mem.Read32(0xFFE)).To(Equal(uint32(0xAABBCCDD)))
	})

	It("should load flat images", func() {
		mem := emu.NewMemory()
		mem.LoadImage(0x2000, []byte{0x01, 0x02, 0x03, 0x04})
		Expect(mem.Read32(0x2000)).To(Equal(uint32(0x04030201)))
	})
})
