package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvfront/insts"
	"github.com/sarchlab/rvfront/timing/pipeline"
	"github.com/sarchlab/rvfront/timing/predictor"
)

var _ = Describe("Resolve", func() {
	It("should never redirect a JAL", func() {
		br := pipeline.BranchInfo{Kind: insts.KindJal, Base: 0x100, Offset: 0x40}
		redirect, update := pipeline.Resolve(br, 0x100, predictor.Result{}, 0)

		Expect(redirect.Valid).To(BeFalse())
		Expect(update.Valid()).To(BeFalse())
	})

	Describe("indirect jumps", func() {
		It("should accept a correct BTB target silently", func() {
			br := pipeline.BranchInfo{Kind: insts.KindJalr, Base: 0x480, Offset: 0x20}
			pred := predictor.Result{Target: 0x4A0, TargetKnown: true}

			redirect, update := pipeline.Resolve(br, 40, pred, 0)

			Expect(redirect.Valid).To(BeFalse())
			Expect(update.Valid()).To(BeFalse())
		})

		It("should redirect and train the BTB on a target mismatch", func() {
			// JALR at pc=40 with an empty BTB: the prediction defaulted
			// to sequential (44); the true target is 500.
			br := pipeline.BranchInfo{Kind: insts.KindJalr, Base: 400, Offset: 100}
			pred := predictor.Result{Target: 44}

			redirect, update := pipeline.Resolve(br, 40, pred, 0)

			Expect(redirect.Valid).To(BeTrue())
			Expect(redirect.Target).To(Equal(uint32(500)))
			Expect(update.Kind).To(Equal(predictor.UpdateBtb))
			Expect(update.PC).To(Equal(uint32(40)))
			Expect(update.Target).To(Equal(uint32(500)))
		})
	})

	Describe("eq/ge family (taken when ALU output is zero)", func() {
		br := pipeline.BranchInfo{Kind: insts.KindCondEqGe, Base: 100, Offset: 100}

		It("taken, predicted taken: update only", func() {
			redirect, update := pipeline.Resolve(br, 100, predictor.Result{Taken: true}, 0)

			Expect(redirect.Valid).To(BeFalse())
			Expect(update.Kind).To(Equal(predictor.UpdateBht))
			Expect(update.Taken).To(BeTrue())
		})

		It("taken, predicted not-taken: redirect to target", func() {
			redirect, update := pipeline.Resolve(br, 100, predictor.Result{Taken: false}, 0)

			Expect(redirect.Valid).To(BeTrue())
			Expect(redirect.Target).To(Equal(uint32(200)))
			Expect(update.Kind).To(Equal(predictor.UpdateBht))
			Expect(update.PC).To(Equal(uint32(100)))
			Expect(update.Taken).To(BeTrue())
		})

		It("not-taken, predicted taken: redirect to fall-through", func() {
			redirect, update := pipeline.Resolve(br, 100, predictor.Result{Taken: true}, 1)

			Expect(redirect.Valid).To(BeTrue())
			Expect(redirect.Target).To(Equal(uint32(104)))
			Expect(update.Taken).To(BeFalse())
		})

		It("not-taken, predicted not-taken: update only", func() {
			redirect, update := pipeline.Resolve(br, 100, predictor.Result{Taken: false}, 1)

			Expect(redirect.Valid).To(BeFalse())
			Expect(update.Kind).To(Equal(predictor.UpdateBht))
			Expect(update.Taken).To(BeFalse())
		})
	})

	Describe("ne/lt family (taken when ALU output is nonzero)", func() {
		br := pipeline.BranchInfo{Kind: insts.KindCondNeLt, Base: 0x1000, Offset: 0x80}

		It("taken, predicted not-taken: redirect to target", func() {
			redirect, update := pipeline.Resolve(br, 0x1000, predictor.Result{}, 7)

			Expect(redirect.Valid).To(BeTrue())
			Expect(redirect.Target).To(Equal(uint32(0x1080)))
			Expect(update.Taken).To(BeTrue())
		})

		It("not-taken, predicted taken: redirect to fall-through", func() {
			redirect, update := pipeline.Resolve(br, 0x1000, predictor.Result{Taken: true}, 0)

			Expect(redirect.Valid).To(BeTrue())
			Expect(redirect.Target).To(Equal(uint32(0x1004)))
			Expect(update.Taken).To(BeFalse())
		})

		It("emits a BHT update on every resolution, win or lose", func() {
			for _, tc := range []struct {
				aluOut    uint32
				predTaken bool
			}{
				{0, false}, {0, true}, {1, false}, {1, true},
			} {
				_, update := pipeline.Resolve(
					br, 0x1000, predictor.Result{Taken: tc.predTaken}, tc.aluOut)
				Expect(update.Kind).To(Equal(predictor.UpdateBht))
			}
		})
	})

	It("should handle backward targets with wrapping arithmetic", func() {
		negOffset := int32(-8)
		br := pipeline.BranchInfo{
			Kind:   insts.KindCondNeLt,
			Base:   0x1010,
			Offset: uint32(negOffset),
		}
		redirect, _ := pipeline.Resolve(br, 0x1010, predictor.Result{}, 1)

		Expect(redirect.Valid).To(BeTrue())
		Expect(redirect.Target).To(Equal(uint32(0x1008)))
	})
})
