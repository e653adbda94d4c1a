package analysis

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/maglev/internal/physics"
	"github.com/san-kum/maglev/internal/roots"
	"gonum.org/v1/gonum/floats"
)

// DefaultTolerance is the Newton tolerance for force curves. Forces here are
// of order 1e4 N, so a 1e-6 finite-difference step is swamped by rounding.
const DefaultTolerance = 1e-3

// Settings select the axis, the sampled range and which critical points are
// computed.
type Settings struct {
	Axis               physics.Axis `json:"axis"`
	Start              float64      `json:"range_start"`
	End                float64      `json:"range_end"`
	Step               float64      `json:"range_step"`
	ShowCriticalPoints bool         `json:"show_critical_points"`
	ShowLabels         bool         `json:"show_labels"`
	Tolerance          float64      `json:"tolerance"`
	MaxIter            int          `json:"max_iter"`
	POIGuess           float64      `json:"poi_guess,omitempty"`
	MaxDragGuess       float64      `json:"max_drag_guess,omitempty"`
}

// DefaultSettings returns the standard range for the axis: 0.001 to 30 m/s
// in 1 m/s steps, or 0.001 to 2000 rpm in 0.1 rpm steps.
func DefaultSettings(axis physics.Axis) Settings {
	s := Settings{
		Axis:               axis,
		Start:              0.001,
		End:                30,
		Step:               1,
		ShowCriticalPoints: true,
		ShowLabels:         true,
		Tolerance:          DefaultTolerance,
		MaxIter:            roots.DefaultMaxIter,
	}
	if axis == physics.AxisSpeed {
		s.End = 2000
		s.Step = 0.1
	}
	return s
}

func (s Settings) Validate() error {
	if s.Axis != physics.AxisVelocity && s.Axis != physics.AxisSpeed {
		return fmt.Errorf("unknown axis %v: %w", s.Axis, physics.ErrInvalidConfig)
	}
	if _, err := Range(s.Start, s.End, s.Step); err != nil {
		return err
	}
	if s.Tolerance <= 0 || math.IsNaN(s.Tolerance) || math.IsInf(s.Tolerance, 0) {
		return fmt.Errorf("tolerance must be positive, got %g: %w", s.Tolerance, physics.ErrInvalidConfig)
	}
	if s.MaxIter < 0 {
		return fmt.Errorf("max_iter must not be negative, got %d: %w", s.MaxIter, physics.ErrInvalidConfig)
	}
	if s.POIGuess < 0 || s.MaxDragGuess < 0 {
		return fmt.Errorf("starting points must be positive: %w", physics.ErrInvalidConfig)
	}
	return nil
}

// Metric accumulates a statistic over the sampled curves.
type Metric interface {
	Name() string
	Observe(x, lift, drag float64)
	Value() float64
	Reset()
}

// Analyzer evaluates one set of constants. It is not safe for concurrent Run
// calls when metrics are attached.
type Analyzer struct {
	constants physics.Constants
	metrics   []Metric

	// Trace, when set, receives every Newton iterate. It may be called from
	// two goroutines at once.
	Trace func(kind Kind, iter int, x, hx float64)
}

func New(c physics.Constants) *Analyzer {
	return &Analyzer{constants: c, metrics: make([]Metric, 0)}
}

func (a *Analyzer) AddMetric(m Metric) { a.metrics = append(a.metrics, m) }

func (a *Analyzer) Constants() physics.Constants { return a.constants }

// Run samples lift and drag over the configured range and, when enabled,
// solves for the point of indifference and the drag maximum.
func (a *Analyzer) Run(ctx context.Context, s Settings) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	xs, _ := Range(s.Start, s.End, s.Step)
	lift, drag := a.constants.Forces(s.Axis)

	liftSamples, err := SampleForce(lift, xs)
	if err != nil {
		return nil, fmt.Errorf("lift: %w", err)
	}
	dragSamples, err := SampleForce(drag, xs)
	if err != nil {
		return nil, fmt.Errorf("drag: %w", err)
	}

	report := &Report{
		Settings: s,
		Lift:     liftSamples,
		Drag:     dragSamples,
		Points:   make([]CriticalPoint, 0, 2),
		Failures: make(map[Kind]string),
		Metrics:  make(map[string]float64),
	}

	for _, m := range a.metrics {
		m.Reset()
		for i := range xs {
			m.Observe(xs[i], liftSamples[i].Y, dragSamples[i].Y)
		}
		report.Metrics[m.Name()] = m.Value()
	}

	if !s.ShowCriticalPoints {
		return report, nil
	}

	select {
	case <-ctx.Done():
		return report, ctx.Err()
	default:
	}

	jobs := []struct {
		kind Kind
		run  func(*roots.Solver) (CriticalPoint, error)
	}{
		{Intersection, func(sv *roots.Solver) (CriticalPoint, error) {
			return FindIntersection(lift, drag, poiGuess(s, liftSamples, dragSamples), sv)
		}},
		{MaxDrag, func(sv *roots.Solver) (CriticalPoint, error) {
			return FindMaxDrag(drag, maxDragGuess(s, dragSamples), sv)
		}},
	}

	points := make([]CriticalPoint, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, kind Kind, run func(*roots.Solver) (CriticalPoint, error)) {
			defer wg.Done()
			points[idx], errs[idx] = run(a.solver(kind, s))
		}(i, job.kind, job.run)
	}
	wg.Wait()

	for i, job := range jobs {
		if errs[i] != nil {
			report.Failures[job.kind] = errs[i].Error()
			continue
		}
		p := points[i]
		p.Velocity = a.constants.ToVelocity(s.Axis, p.X)
		report.Points = append(report.Points, p)
		report.Metrics[string(job.kind)+"_x"] = p.X
		report.Metrics[string(job.kind)+"_force"] = p.Y
	}

	return report, nil
}

func (a *Analyzer) solver(kind Kind, s Settings) *roots.Solver {
	sv := roots.New(s.Tolerance, s.MaxIter)
	if a.Trace != nil {
		sv.Trace = func(iter int, x, hx float64) { a.Trace(kind, iter, x, hx) }
	}
	return sv
}

// poiGuess starts at the first sample where lift has caught up with drag.
func poiGuess(s Settings, lift, drag []Sample) float64 {
	if s.POIGuess > 0 {
		return s.POIGuess
	}
	for i := range lift {
		if lift[i].Y >= drag[i].Y {
			return lift[i].X
		}
	}
	return lift[len(lift)-1].X
}

// maxDragGuess starts at the largest sampled drag.
func maxDragGuess(s Settings, drag []Sample) float64 {
	if s.MaxDragGuess > 0 {
		return s.MaxDragGuess
	}
	return drag[floats.MaxIdx(values(drag))].X
}
