// Package roots finds zeros and stationary points of scalar functions with
// Newton's method on finite-difference derivatives.
package roots

import (
	"fmt"
	"math"
)

const (
	DefaultTolerance = 1e-6
	DefaultMaxIter   = 1000
)

// Func is a scalar objective. A returned error stops the solve.
type Func func(x float64) (float64, error)

// Result is a converged iterate.
type Result struct {
	X          float64
	Residual   float64
	Iterations int
}

// Solver runs Newton's method. Tolerance is both the convergence bound on
// |h(x)| and the finite-difference step.
type Solver struct {
	Tolerance float64
	MaxIter   int
	Trace     func(iter int, x, hx float64)
}

func New(tolerance float64, maxIter int) *Solver {
	return &Solver{Tolerance: tolerance, MaxIter: maxIter}
}

// Solve finds x with |f(x)| <= Tolerance starting from x0.
func (s *Solver) Solve(f Func, x0 float64) (Result, error) {
	return s.newton("solve", f, x0)
}

// Stationary finds a stationary point of f by driving the forward-difference
// slope |f(x+tol) - f(x)| / tol to zero.
func (s *Solver) Stationary(f Func, x0 float64) (Result, error) {
	tol := s.tolerance()
	slope := func(x float64) (float64, error) {
		a, err := f(x)
		if err != nil {
			return 0, err
		}
		b, err := f(x + tol)
		if err != nil {
			return 0, err
		}
		return math.Abs(b-a) / tol, nil
	}
	return s.newton("stationary", slope, x0)
}

func (s *Solver) tolerance() float64 {
	if s.Tolerance <= 0 {
		return DefaultTolerance
	}
	return s.Tolerance
}

func (s *Solver) maxIter() int {
	if s.MaxIter <= 0 {
		return DefaultMaxIter
	}
	return s.MaxIter
}

func (s *Solver) validate(x0 float64) error {
	if math.IsNaN(s.Tolerance) || math.IsInf(s.Tolerance, 0) || s.Tolerance < 0 {
		return fmt.Errorf("tolerance must be positive, got %g", s.Tolerance)
	}
	if !finite(x0) {
		return fmt.Errorf("starting point must be finite, got %g", x0)
	}
	return nil
}

func (s *Solver) newton(op string, h Func, x0 float64) (Result, error) {
	if err := s.validate(x0); err != nil {
		return Result{}, err
	}
	tol := s.tolerance()
	x := x0

	for i := 1; i <= s.maxIter(); i++ {
		fail := func(err error) (Result, error) {
			return Result{}, &SolveError{Op: op, X: x, Iteration: i, Err: err}
		}

		hx, err := h(x)
		if err != nil {
			return fail(err)
		}
		hStep, err := h(x + tol)
		if err != nil {
			return fail(err)
		}
		if !finite(hx) || !finite(hStep) {
			return fail(ErrNumericalOverflow)
		}

		deriv := (hStep - hx) / tol
		if deriv == 0 {
			return fail(ErrDerivativeVanished)
		}

		next := x - hx/deriv
		if !finite(next) {
			return fail(ErrNumericalOverflow)
		}
		x = next

		hNext, err := h(x)
		if err != nil {
			return fail(err)
		}
		if !finite(hNext) {
			return fail(ErrNumericalOverflow)
		}
		if s.Trace != nil {
			s.Trace(i, x, hNext)
		}
		if math.Abs(hNext) <= tol {
			return Result{X: x, Residual: hNext, Iterations: i}, nil
		}
	}

	return Result{}, &SolveError{Op: op, X: x, Iteration: s.maxIter(), Err: ErrNonConvergence}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
