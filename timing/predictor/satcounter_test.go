package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvfront/timing/predictor"
)

var _ = Describe("SatCounter", func() {
	It("should increment without skipping states", func() {
		c := predictor.StronglyNotTaken
		c = c.Increment()
		Expect(c).To(Equal(predictor.WeaklyNotTaken))
		c = c.Increment()
		Expect(c).To(Equal(predictor.WeaklyTaken))
		c = c.Increment()
		Expect(c).To(Equal(predictor.StronglyTaken))
	})

	It("should decrement without skipping states", func() {
		c := predictor.StronglyTaken
		c = c.Decrement()
		Expect(c).To(Equal(predictor.WeaklyTaken))
		c = c.Decrement()
		Expect(c).To(Equal(predictor.WeaklyNotTaken))
		c = c.Decrement()
		Expect(c).To(Equal(predictor.StronglyNotTaken))
	})

	It("should saturate at StronglyTaken", func() {
		c := predictor.StronglyTaken
		for i := 0; i < 10; i++ {
			c = c.Increment()
			Expect(c).To(Equal(predictor.StronglyTaken))
			Expect(c.Predict()).To(BeTrue())
		}
	})

	It("should saturate at StronglyNotTaken", func() {
		c := predictor.StronglyNotTaken
		for i := 0; i < 10; i++ {
			c = c.Decrement()
			Expect(c).To(Equal(predictor.StronglyNotTaken))
			Expect(c.Predict()).To(BeFalse())
		}
	})

	It("should never leave the four defined states", func() {
		// Walk every state through long random-ish up/down sequences.
		for start := predictor.StronglyNotTaken; start <= predictor.StronglyTaken; start++ {
			c := start
			for i := 0; i < 100; i++ {
				if i%3 == 0 {
					c = c.Decrement()
				} else {
					c = c.Increment()
				}
				Expect(c).To(BeNumerically("<=", predictor.StronglyTaken))
			}
		}
	})

	It("should predict taken only for the two taken states", func() {
		Expect(predictor.StronglyNotTaken.Predict()).To(BeFalse())
		Expect(predictor.WeaklyNotTaken.Predict()).To(BeFalse())
		Expect(predictor.WeaklyTaken.Predict()).To(BeTrue())
		Expect(predictor.StronglyTaken.Predict()).To(BeTrue())
	})
})
