package analysis_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/physics"
)

var _ = Describe("Range", func() {
	It("follows arange semantics and excludes the end", func() {
		xs, err := analysis.Range(0.001, 30, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(HaveLen(30))
		Expect(xs[0]).To(Equal(0.001))
		Expect(xs[29]).To(BeNumerically("~", 29.001, 1e-12))
	})

	It("produces the rpm grid", func() {
		xs, err := analysis.Range(0.001, 2000, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(HaveLen(20000))
		Expect(xs[len(xs)-1]).To(BeNumerically("<", 2000))
	})

	DescribeTable("rejects bad bounds",
		func(start, end, step float64) {
			_, err := analysis.Range(start, end, step)
			Expect(err).To(MatchError(physics.ErrInvalidConfig))
		},
		Entry("zero start", 0.0, 10.0, 1.0),
		Entry("negative start", -1.0, 10.0, 1.0),
		Entry("zero step", 0.1, 10.0, 0.0),
		Entry("start after end", 5.0, 1.0, 1.0),
		Entry("start equals end", 5.0, 5.0, 1.0),
		Entry("infinite end", 0.1, math.Inf(1), 1.0),
		Entry("too many samples", 1e-9, 1.0, 1e-9),
		Entry("count beyond int range", 1.0, 1e300, 1e-10),
		Entry("count overflows to infinity", 0.001, 1e308, 1e-300),
	)

	It("rejects a huge range through Settings.Validate", func() {
		s := analysis.DefaultSettings(physics.AxisVelocity)
		s.Start, s.End, s.Step = 1, 1e300, 1e-10
		Expect(s.Validate()).To(MatchError(physics.ErrInvalidConfig))
	})
})

var _ = Describe("SampleForce", func() {
	var c physics.Constants

	BeforeEach(func() {
		var err error
		c, err = physics.NewConstants(physics.DefaultParams())
		Expect(err).NotTo(HaveOccurred())
	})

	It("keeps input order and evaluates every point", func() {
		xs := []float64{0.5, 1, 2, 4}
		out, err := analysis.SampleForce(c.Lift, xs)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(len(xs)))
		for i, s := range out {
			Expect(s.X).To(Equal(xs[i]))
			want, _ := c.Lift(xs[i])
			Expect(s.Y).To(Equal(want))
		}
	})

	It("is idempotent", func() {
		xs, _ := analysis.Range(0.001, 2000, 0.1)
		a, err := analysis.SampleForce(c.DragAtSpeed, xs)
		Expect(err).NotTo(HaveOccurred())
		b, err := analysis.SampleForce(c.DragAtSpeed, xs)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("rejects zero before evaluating drag", func() {
		_, err := analysis.SampleForce(c.Drag, []float64{0, 1, 2})
		Expect(err).To(MatchError(physics.ErrDomain))
	})

	It("rejects unordered points", func() {
		_, err := analysis.SampleForce(c.Drag, []float64{1, 3, 2})
		Expect(err).To(MatchError(physics.ErrInvalidConfig))
	})

	It("produces a unimodal drag curve over wheel speed", func() {
		xs, _ := analysis.Range(0.001, 2000, 0.1)
		out, err := analysis.SampleForce(c.DragAtSpeed, xs)
		Expect(err).NotTo(HaveOccurred())

		peak := 0
		for i := range out {
			if out[i].Y > out[peak].Y {
				peak = i
			}
		}
		Expect(peak).To(BeNumerically(">", 0))
		Expect(peak).To(BeNumerically("<", len(out)-1))
		for i := 1; i <= peak; i++ {
			Expect(out[i].Y).To(BeNumerically(">", out[i-1].Y))
		}
		for i := peak + 1; i < len(out); i++ {
			Expect(out[i].Y).To(BeNumerically("<", out[i-1].Y))
		}
	})
})
