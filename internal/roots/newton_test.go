package roots

import (
	"errors"
	"math"
	"testing"
)

func TestSolve_Linear(t *testing.T) {
	s := New(1e-6, 0)
	res, err := s.Solve(func(x float64) (float64, error) { return x - 5, nil }, 0)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if math.Abs(res.X-5) > 1e-6 {
		t.Errorf("expected x ~5, got %.10f", res.X)
	}
	if math.Abs(res.Residual) > 1e-6 {
		t.Errorf("residual too large: %g", res.Residual)
	}
	if res.Iterations > DefaultMaxIter {
		t.Errorf("iteration cap exceeded: %d", res.Iterations)
	}
}

func TestSolve_Quadratic(t *testing.T) {
	s := New(1e-9, 100)
	res, err := s.Solve(func(x float64) (float64, error) { return x*x - 2, nil }, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.X-math.Sqrt2) > 1e-6 {
		t.Errorf("expected sqrt(2), got %.10f", res.X)
	}
}

func TestSolve_NegativeResidualDoesNotStopEarly(t *testing.T) {
	// The first step overshoots to x=9 where h is strongly negative; only
	// |h| <= tol may stop the iteration.
	s := New(1e-6, 50)
	f := func(x float64) (float64, error) { return 10 - math.Exp(x), nil }
	res, err := s.Solve(f, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.X-math.Log(10)) > 1e-6 {
		t.Errorf("expected ln(10), got %.10f", res.X)
	}
}

func TestStationary_Maximum(t *testing.T) {
	s := New(1e-6, 0)
	f := func(x float64) (float64, error) { return -(x-3)*(x-3) + 10, nil }
	res, err := s.Stationary(f, 2.5)
	if err != nil {
		t.Fatalf("stationary failed: %v", err)
	}
	if math.Abs(res.X-3) > 1e-5 {
		t.Errorf("expected maximum at 3, got %.10f", res.X)
	}
}

func TestSolve_Failures(t *testing.T) {
	tests := []struct {
		name string
		f    Func
		x0   float64
		max  int
		want error
	}{
		{
			"flat function",
			func(x float64) (float64, error) { return 1, nil },
			0, 10, ErrDerivativeVanished,
		},
		{
			"no real root",
			func(x float64) (float64, error) { return x*x + 1, nil },
			0.5, 30, ErrNonConvergence,
		},
		{
			"overflow",
			func(x float64) (float64, error) { return math.Exp(x * 1000), nil },
			1, 10, ErrNumericalOverflow,
		},
		{
			"NaN objective",
			func(x float64) (float64, error) { return math.NaN(), nil },
			1, 10, ErrNumericalOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(1e-6, tt.max)
			_, err := s.Solve(tt.f, tt.x0)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var se *SolveError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SolveError, got %T", err)
			}
			if se.Iteration < 1 || se.Iteration > tt.max {
				t.Errorf("iteration %d outside [1, %d]", se.Iteration, tt.max)
			}
		})
	}
}

func TestSolve_ObjectiveError(t *testing.T) {
	domain := errors.New("domain")
	s := New(1e-6, 10)
	_, err := s.Solve(func(x float64) (float64, error) {
		if x <= 0 {
			return 0, domain
		}
		return x, nil
	}, 1)
	if !errors.Is(err, domain) {
		t.Errorf("expected objective error to propagate, got %v", err)
	}
}

func TestSolve_InvalidInput(t *testing.T) {
	f := func(x float64) (float64, error) { return x, nil }

	if _, err := New(math.NaN(), 10).Solve(f, 1); err == nil {
		t.Error("expected error for NaN tolerance")
	}
	if _, err := New(1e-6, 10).Solve(f, math.Inf(1)); err == nil {
		t.Error("expected error for infinite start")
	}
}

func TestSolve_Trace(t *testing.T) {
	var calls int
	s := New(1e-9, 100)
	s.Trace = func(iter int, x, hx float64) { calls++ }
	res, err := s.Solve(func(x float64) (float64, error) { return x*x - 9, nil }, 1)
	if err != nil {
		t.Fatal(err)
	}
	if calls != res.Iterations {
		t.Errorf("trace called %d times for %d iterations", calls, res.Iterations)
	}
}
