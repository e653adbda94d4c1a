package roots

import (
	"errors"
	"fmt"
)

var (
	// ErrDerivativeVanished indicates a zero finite-difference slope, so no
	// Newton step can be taken.
	ErrDerivativeVanished = errors.New("roots: finite-difference derivative vanished")

	// ErrNonConvergence indicates the iteration cap was reached.
	ErrNonConvergence = errors.New("roots: iteration limit reached without convergence")

	// ErrNumericalOverflow indicates a NaN or Inf iterate or objective value.
	ErrNumericalOverflow = errors.New("roots: non-finite intermediate value")
)

// SolveError describes where a solve stopped. Err is one of the sentinel
// errors above, or the error returned by the objective.
type SolveError struct {
	Op        string
	X         float64
	Iteration int
	Err       error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%s: iteration %d (x=%g): %v", e.Op, e.Iteration, e.X, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }
