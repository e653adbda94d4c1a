package physics

import (
	"errors"
	"fmt"
)

// Domain errors for force model construction and evaluation.
var (
	// ErrInvalidConfig indicates a non-physical input, rejected before any
	// force is computed.
	ErrInvalidConfig = errors.New("physics: invalid configuration")

	// ErrDomain indicates a force evaluated at zero, negative or non-finite
	// velocity or speed.
	ErrDomain = errors.New("physics: outside force model domain")
)

// ConfigError reports a non-physical primary input.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s = %g: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// DomainError reports a force evaluation at a non-positive or non-finite
// velocity or speed.
type DomainError struct {
	Quantity string
	Value    float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s must be positive and finite, got %g", e.Quantity, e.Value)
}

func (e *DomainError) Unwrap() error { return ErrDomain }
