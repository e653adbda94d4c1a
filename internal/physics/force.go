package physics

import (
	"fmt"
	"math"
)

// ForceFunc evaluates a force at a point on the analysis axis.
type ForceFunc func(x float64) (float64, error)

// Axis selects the independent variable force curves are indexed by.
type Axis int

const (
	AxisVelocity Axis = iota // relative velocity, m/s
	AxisSpeed                // wheel speed, rpm
)

func (a Axis) String() string {
	switch a {
	case AxisVelocity:
		return "velocity"
	case AxisSpeed:
		return "rpm"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Unit is the SI unit label of the axis.
func (a Axis) Unit() string {
	if a == AxisSpeed {
		return "rpm"
	}
	return "m/s"
}

func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Axis) UnmarshalText(b []byte) error {
	v, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func ParseAxis(s string) (Axis, error) {
	switch s {
	case "velocity", "v", "":
		return AxisVelocity, nil
	case "rpm", "speed":
		return AxisSpeed, nil
	}
	return 0, fmt.Errorf("unknown axis mode %q: %w", s, ErrInvalidConfig)
}

// Lift is the vertical repulsive force at relative velocity v.
func (c Constants) Lift(v float64) (float64, error) {
	if err := checkDomain("velocity", v); err != nil {
		return 0, err
	}
	return c.lift(v), nil
}

// Drag is the retarding force at relative velocity v, (w/v) times lift.
func (c Constants) Drag(v float64) (float64, error) {
	if err := checkDomain("velocity", v); err != nil {
		return 0, err
	}
	return c.diffusion / v * c.lift(v), nil
}

func (c Constants) lift(v float64) float64 {
	w := c.diffusion
	return c.maxLift * (1 - w/math.Sqrt(v*v+w*w))
}

func (c Constants) LiftAtSpeed(rpm float64) (float64, error) {
	if err := checkDomain("rpm", rpm); err != nil {
		return 0, err
	}
	return c.Lift(c.SpeedToRelativeVelocity(rpm))
}

func (c Constants) DragAtSpeed(rpm float64) (float64, error) {
	if err := checkDomain("rpm", rpm); err != nil {
		return 0, err
	}
	return c.Drag(c.SpeedToRelativeVelocity(rpm))
}

// LiftDragRatio is lift over drag at relative velocity v, which reduces to v/w.
func (c Constants) LiftDragRatio(v float64) (float64, error) {
	if err := checkDomain("velocity", v); err != nil {
		return 0, err
	}
	return v / c.diffusion, nil
}

// Forces returns the lift and drag curves indexed by the given axis.
func (c Constants) Forces(axis Axis) (lift, drag ForceFunc) {
	if axis == AxisSpeed {
		return c.LiftAtSpeed, c.DragAtSpeed
	}
	return c.Lift, c.Drag
}

// ToVelocity converts a point on the axis to relative velocity.
func (c Constants) ToVelocity(axis Axis, x float64) float64 {
	if axis == AxisSpeed {
		return c.SpeedToRelativeVelocity(x)
	}
	return x
}

// FromVelocity converts a relative velocity to a point on the axis.
func (c Constants) FromVelocity(axis Axis, v float64) float64 {
	if axis == AxisSpeed {
		return c.RelativeVelocityToSpeed(v)
	}
	return v
}

func checkDomain(quantity string, x float64) error {
	if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return &DomainError{Quantity: quantity, Value: x}
	}
	return nil
}
