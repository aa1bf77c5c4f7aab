package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvfront/timing/predictor"
)

var _ = Describe("Bht", func() {
	var bht predictor.Bht

	BeforeEach(func() {
		bht = predictor.NewBht(16)
	})

	It("should default to not-taken", func() {
		Expect(bht.Predict(0x40)).To(BeFalse())
		Expect(bht.Counter(0x40)).To(Equal(predictor.WeaklyNotTaken))
	})

	It("should train toward taken", func() {
		// WeaklyNotTaken -> WeaklyTaken -> StronglyTaken -> StronglyTaken.
		bht = bht.Update(3, true)
		Expect(bht.Counter(3)).To(Equal(predictor.WeaklyTaken))
		Expect(bht.Predict(3)).To(BeTrue())

		bht = bht.Update(3, true)
		Expect(bht.Counter(3)).To(Equal(predictor.StronglyTaken))

		bht = bht.Update(3, true)
		Expect(bht.Counter(3)).To(Equal(predictor.StronglyTaken))
		Expect(bht.Predict(3)).To(BeTrue())
	})

	It("should leave other entries untouched on update", func() {
		before := make([]predictor.SatCounter, 16)
		for i := uint32(0); i < 16; i++ {
			before[i] = bht.Counter(i)
		}

		bht = bht.Update(5, true)

		for i := uint32(0); i < 16; i++ {
			if i == 5 {
				continue
			}
			Expect(bht.Counter(i)).To(Equal(before[i]))
		}
	})

	It("should not mutate the original table on update", func() {
		updated := bht.Update(7, true)
		Expect(bht.Predict(7)).To(BeFalse())
		Expect(updated.Predict(7)).To(BeTrue())
	})

	It("should alias PCs congruent modulo capacity", func() {
		// 3 and 19 share index 3 in a 16-entry table.
		bht = bht.Update(3, true)
		Expect(bht.Predict(19)).To(BeTrue())
	})

	It("should panic on a non-power-of-two capacity", func() {
		Expect(func() { predictor.NewBht(12) }).To(Panic())
	})
})

var _ = Describe("Btb", func() {
	var btb predictor.Btb

	BeforeEach(func() {
		btb = predictor.NewBtb(8)
	})

	It("should start with no targets known", func() {
		_, ok := btb.Predict(0x20)
		Expect(ok).To(BeFalse())
	})

	It("should remember an updated target", func() {
		btb = btb.Update(0x20, 0x500)
		target, ok := btb.Predict(0x20)
		Expect(ok).To(BeTrue())
		Expect(target).To(Equal(uint32(0x500)))
	})

	It("should be idempotent for equal targets", func() {
		once := btb.Update(0x20, 0x500)
		twice := once.Update(0x20, 0x500)

		for pc := uint32(0); pc < 8; pc++ {
			t1, ok1 := once.Predict(pc)
			t2, ok2 := twice.Predict(pc)
			Expect(ok1).To(Equal(ok2))
			Expect(t1).To(Equal(t2))
		}
	})

	It("should overwrite on conflicting update", func() {
		btb = btb.Update(0x20, 0x500)
		btb = btb.Update(0x20, 0x600)
		target, ok := btb.Predict(0x20)
		Expect(ok).To(BeTrue())
		Expect(target).To(Equal(uint32(0x600)))
	})

	It("should alias PCs congruent modulo capacity", func() {
		btb = btb.Update(2, 0x100)
		target, ok := btb.Predict(10)
		Expect(ok).To(BeTrue())
		Expect(target).To(Equal(uint32(0x100)))
	})
})
