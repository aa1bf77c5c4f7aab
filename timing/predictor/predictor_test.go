package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvfront/insts"
	"github.com/sarchlab/rvfront/timing/predictor"
)

var _ = Describe("Predictor", func() {
	var p predictor.Predictor

	BeforeEach(func() {
		p = predictor.New(predictor.Config{BHTSize: 16, BTBSize: 8})
	})

	Describe("Predict", func() {
		It("should classify a conditional branch and consult the BHT", func() {
			word := insts.EncodeB(insts.OpBNE, 5, 0, -8)
			result := p.Predict(0x100, word)

			Expect(result.Pre.IsBranch).To(BeTrue())
			Expect(result.Pre.Imm).To(Equal(int32(-8)))
			Expect(result.Taken).To(BeFalse())
		})

		It("should classify a JAL with its offset", func() {
			word := insts.EncodeJAL(1, 0x40)
			result := p.Predict(0x100, word)

			Expect(result.Pre.IsJal).To(BeTrue())
			Expect(result.Pre.Imm).To(Equal(int32(0x40)))
		})

		It("should default a JALR with no BTB entry to sequential", func() {
			word := insts.EncodeI(insts.OpJALR, 0, 1, 0)
			result := p.Predict(40, word)

			Expect(result.Pre.IsJalr).To(BeTrue())
			Expect(result.TargetKnown).To(BeFalse())
			Expect(result.Target).To(Equal(uint32(44)))
		})

		It("should use the BTB target for a JALR after training", func() {
			p = p.Apply(predictor.BtbUpdate(40, 500))

			word := insts.EncodeI(insts.OpJALR, 0, 1, 0)
			result := p.Predict(40, word)

			Expect(result.TargetKnown).To(BeTrue())
			Expect(result.Target).To(Equal(uint32(500)))
		})

		It("should not consult tables for plain instructions", func() {
			word := insts.EncodeI(insts.OpADDI, 1, 0, 42)
			result := p.Predict(0x100, word)

			Expect(result.Pre.IsJal).To(BeFalse())
			Expect(result.Pre.IsJalr).To(BeFalse())
			Expect(result.Pre.IsBranch).To(BeFalse())
			Expect(result.Taken).To(BeFalse())
		})
	})

	Describe("Apply", func() {
		It("should train the direction predictor", func() {
			word := insts.EncodeB(insts.OpBEQ, 1, 2, 16)

			p = p.Apply(predictor.BhtUpdate(3, true))
			Expect(p.Predict(3, word).Taken).To(BeTrue())

			p = p.Apply(predictor.BhtUpdate(3, true))
			p = p.Apply(predictor.BhtUpdate(3, true))
			Expect(p.Predict(3, word).Taken).To(BeTrue())
			Expect(p.Bht().Counter(3)).To(Equal(predictor.StronglyTaken))
		})

		It("should leave state unchanged for the absent event", func() {
			trained := p.Apply(predictor.BhtUpdate(3, true))
			same := trained.Apply(predictor.Update{})
			Expect(same.Bht().Counter(3)).To(Equal(trained.Bht().Counter(3)))
		})

		It("should not mutate the receiver", func() {
			p.Apply(predictor.BhtUpdate(3, true))
			Expect(p.Bht().Counter(3)).To(Equal(predictor.WeaklyNotTaken))
		})
	})
})
