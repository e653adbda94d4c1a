package analysis_test

import (
	"context"
	"math"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/metrics"
	"github.com/san-kum/maglev/internal/physics"
	"github.com/san-kum/maglev/internal/roots"
)

var phi = (1 + math.Sqrt(5)) / 2

var _ = Describe("critical points", func() {
	var c physics.Constants

	BeforeEach(func() {
		var err error
		c, err = physics.NewConstants(physics.DefaultParams())
		Expect(err).NotTo(HaveOccurred())
	})

	It("finds lift and drag crossing at the diffusion velocity", func() {
		p, err := analysis.FindIntersection(c.Lift, c.Drag, 3.001, roots.New(1e-3, 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Kind).To(Equal(analysis.Intersection))
		Expect(p.X).To(BeNumerically("~", c.DiffusionVelocity(), 1e-6))
		lift, _ := c.Lift(p.X)
		Expect(p.Y).To(Equal(lift))
	})

	It("finds peak drag at w times the square root of the golden ratio", func() {
		p, err := analysis.FindMaxDrag(c.Drag, 4.001, roots.New(1e-3, 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Kind).To(Equal(analysis.MaxDrag))
		Expect(p.X).To(BeNumerically("~", c.DiffusionVelocity()*math.Sqrt(phi), 2e-3))
	})

	It("reports a typed failure instead of a wrong value", func() {
		flat := func(x float64) (float64, error) { return 1, nil }
		_, err := analysis.FindIntersection(flat, flat, 1, roots.New(1e-3, 10))
		Expect(err).To(MatchError(roots.ErrDerivativeVanished))
	})
})

var _ = Describe("Analyzer", func() {
	var (
		c   physics.Constants
		a   *analysis.Analyzer
		ctx context.Context
	)

	BeforeEach(func() {
		var err error
		c, err = physics.NewConstants(physics.DefaultParams())
		Expect(err).NotTo(HaveOccurred())
		a = analysis.New(c)
		ctx = context.Background()
	})

	It("samples both curves over the velocity range", func() {
		r, err := a.Run(ctx, analysis.DefaultSettings(physics.AxisVelocity))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Lift).To(HaveLen(30))
		Expect(r.Drag).To(HaveLen(30))
		Expect(r.Xs()[0]).To(Equal(0.001))
		Expect(r.LiftValues()[29]).To(BeNumerically("<", c.MaxLift()))
	})

	It("solves both critical points on the velocity axis", func() {
		r, err := a.Run(ctx, analysis.DefaultSettings(physics.AxisVelocity))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Failures).To(BeEmpty())

		poi, ok := r.Point(analysis.Intersection)
		Expect(ok).To(BeTrue())
		Expect(poi.X).To(BeNumerically("~", c.DiffusionVelocity(), 1e-3))
		Expect(poi.Velocity).To(Equal(poi.X))

		peak, ok := r.Point(analysis.MaxDrag)
		Expect(ok).To(BeTrue())
		Expect(peak.X).To(BeNumerically("~", c.DiffusionVelocity()*math.Sqrt(phi), 2e-3))
		Expect(r.Metrics).To(HaveKeyWithValue("poi_x", poi.X))
	})

	It("solves both critical points on the rpm axis", func() {
		r, err := a.Run(ctx, analysis.DefaultSettings(physics.AxisSpeed))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Failures).To(BeEmpty())

		poi, ok := r.Point(analysis.Intersection)
		Expect(ok).To(BeTrue())
		Expect(poi.X).To(BeNumerically("~", c.RelativeVelocityToSpeed(c.DiffusionVelocity()), 1e-2))
		Expect(poi.Velocity).To(BeNumerically("~", c.DiffusionVelocity(), 1e-4))

		peak, ok := r.Point(analysis.MaxDrag)
		Expect(ok).To(BeTrue())
		Expect(peak.X).To(BeNumerically(">", r.Settings.Start))
		Expect(peak.X).To(BeNumerically("<", r.Settings.End))
		Expect(peak.Velocity).To(BeNumerically("~", c.DiffusionVelocity()*math.Sqrt(phi), 1e-3))
	})

	It("skips the solver when critical points are off", func() {
		s := analysis.DefaultSettings(physics.AxisVelocity)
		s.ShowCriticalPoints = false
		r, err := a.Run(ctx, s)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Points).To(BeEmpty())
		Expect(r.Markers()).To(BeEmpty())
	})

	It("records solver failures without failing the run", func() {
		s := analysis.DefaultSettings(physics.AxisVelocity)
		s.MaxIter = 1
		r, err := a.Run(ctx, s)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Drag).To(HaveLen(30))
		Expect(r.Failures).To(HaveKey(analysis.MaxDrag))
		Expect(r.Failures[analysis.MaxDrag]).To(ContainSubstring(roots.ErrNonConvergence.Error()))
		_, ok := r.Point(analysis.MaxDrag)
		Expect(ok).To(BeFalse())
	})

	It("rejects invalid settings before computing", func() {
		s := analysis.DefaultSettings(physics.AxisVelocity)
		s.Step = -1
		_, err := a.Run(ctx, s)
		Expect(err).To(MatchError(physics.ErrInvalidConfig))
	})

	It("honours explicit starting points", func() {
		s := analysis.DefaultSettings(physics.AxisVelocity)
		s.POIGuess = 2.5
		s.MaxDragGuess = 3.3
		r, err := a.Run(ctx, s)
		Expect(err).NotTo(HaveOccurred())
		poi, ok := r.Point(analysis.Intersection)
		Expect(ok).To(BeTrue())
		Expect(poi.X).To(BeNumerically("~", c.DiffusionVelocity(), 1e-3))
	})

	It("labels markers according to the settings", func() {
		s := analysis.DefaultSettings(physics.AxisVelocity)
		r, err := a.Run(ctx, s)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Markers()).To(HaveLen(2))
		Expect(r.Markers()[0].Label).To(HavePrefix("POI ("))
		Expect(r.Markers()[0].Label).To(ContainSubstring("m/s"))

		r.Settings.ShowLabels = false
		Expect(r.Markers()[1].Label).To(Equal("Max drag"))
	})

	It("fills report metrics", func() {
		for _, m := range metrics.Defaults(c.MaxLift()) {
			a.AddMetric(m)
		}
		r, err := a.Run(ctx, analysis.DefaultSettings(physics.AxisVelocity))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Metrics).To(HaveKey("peak_drag"))
		Expect(r.Metrics["peak_drag_at"]).To(BeNumerically("~", 4.001, 1e-9))
		Expect(r.Metrics["final_lift_ratio"]).To(BeNumerically(">", 0))
		Expect(r.Metrics["final_lift_ratio"]).To(BeNumerically("<", 1))
	})

	It("traces solver iterations", func() {
		var calls int64
		a.Trace = func(kind analysis.Kind, iter int, x, hx float64) {
			atomic.AddInt64(&calls, 1)
		}
		_, err := a.Run(ctx, analysis.DefaultSettings(physics.AxisVelocity))
		Expect(err).NotTo(HaveOccurred())
		Expect(atomic.LoadInt64(&calls)).To(BeNumerically(">=", 2))
	})

	It("stops before solving when the context is done", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		r, err := a.Run(cctx, analysis.DefaultSettings(physics.AxisVelocity))
		Expect(err).To(MatchError(context.Canceled))
		Expect(r.Points).To(BeEmpty())
	})
})
