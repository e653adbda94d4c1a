package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/maglev/internal/physics"
)

// MaxSamples bounds the number of points Range will generate.
const MaxSamples = 10_000_000

// Sample is a force value at a point on the analysis axis.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Range returns start, start+step, ... for every value below end.
func Range(start, end, step float64) ([]float64, error) {
	for _, v := range []float64{start, end, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("range bounds must be finite: %w", physics.ErrInvalidConfig)
		}
	}
	if start <= 0 {
		return nil, fmt.Errorf("range start must be positive, got %g: %w", start, physics.ErrInvalidConfig)
	}
	if step <= 0 {
		return nil, fmt.Errorf("range step must be positive, got %g: %w", step, physics.ErrInvalidConfig)
	}
	if start >= end {
		return nil, fmt.Errorf("range start %g must be below end %g: %w", start, end, physics.ErrInvalidConfig)
	}

	count := math.Ceil((end - start) / step)
	if math.IsInf(count, 0) || count > MaxSamples {
		return nil, fmt.Errorf("range yields %g samples, limit is %d: %w", count, MaxSamples, physics.ErrInvalidConfig)
	}

	xs := make([]float64, int(count))
	for i := range xs {
		xs[i] = start + float64(i)*step
	}
	return xs, nil
}

// SampleForce evaluates f at every point of xs, which must be strictly
// positive and strictly increasing. The output keeps the order of xs.
func SampleForce(f physics.ForceFunc, xs []float64) ([]Sample, error) {
	if err := checkPoints(xs); err != nil {
		return nil, err
	}

	out := make([]Sample, len(xs))
	for i, x := range xs {
		y, err := f(x)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out[i] = Sample{X: x, Y: y}
	}
	return out, nil
}

func checkPoints(xs []float64) error {
	for i, x := range xs {
		if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("sample %d: %w", i, &physics.DomainError{Quantity: "sample point", Value: x})
		}
		if i > 0 && x <= xs[i-1] {
			return fmt.Errorf("sample %d: %g does not follow %g: %w", i, x, xs[i-1], physics.ErrInvalidConfig)
		}
	}
	return nil
}

func values(s []Sample) []float64 {
	v := make([]float64, len(s))
	for i := range s {
		v[i] = s[i].Y
	}
	return v
}
