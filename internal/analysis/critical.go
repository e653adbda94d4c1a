package analysis

import (
	"fmt"

	"github.com/san-kum/maglev/internal/physics"
	"github.com/san-kum/maglev/internal/roots"
)

// Kind names a critical point of the force curves.
type Kind string

const (
	Intersection Kind = "poi"
	MaxDrag      Kind = "max_drag"
)

func (k Kind) Title() string {
	switch k {
	case Intersection:
		return "POI"
	case MaxDrag:
		return "Max drag"
	}
	return string(k)
}

// CriticalPoint is a solved location on the axis and the force there.
type CriticalPoint struct {
	Kind       Kind    `json:"kind"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Velocity   float64 `json:"velocity"`
	Iterations int     `json:"iterations"`
}

// FindIntersection solves lift(x) = drag(x) starting from x0.
func FindIntersection(lift, drag physics.ForceFunc, x0 float64, s *roots.Solver) (CriticalPoint, error) {
	diff := func(x float64) (float64, error) {
		l, err := lift(x)
		if err != nil {
			return 0, err
		}
		d, err := drag(x)
		if err != nil {
			return 0, err
		}
		return l - d, nil
	}

	res, err := s.Solve(diff, x0)
	if err != nil {
		return CriticalPoint{}, fmt.Errorf("point of indifference: %w", err)
	}
	y, err := lift(res.X)
	if err != nil {
		return CriticalPoint{}, fmt.Errorf("point of indifference: %w", err)
	}
	return CriticalPoint{Kind: Intersection, X: res.X, Y: y, Iterations: res.Iterations}, nil
}

// FindMaxDrag locates the stationary point of drag nearest x0.
func FindMaxDrag(drag physics.ForceFunc, x0 float64, s *roots.Solver) (CriticalPoint, error) {
	res, err := s.Stationary(roots.Func(drag), x0)
	if err != nil {
		return CriticalPoint{}, fmt.Errorf("maximum drag: %w", err)
	}
	y, err := drag(res.X)
	if err != nil {
		return CriticalPoint{}, fmt.Errorf("maximum drag: %w", err)
	}
	return CriticalPoint{Kind: MaxDrag, X: res.X, Y: y, Iterations: res.Iterations}, nil
}
