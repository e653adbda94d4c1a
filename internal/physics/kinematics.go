package physics

import "math"

// AngularVelocity converts wheel speed in rpm to rad/s.
func AngularVelocity(rpm float64) float64 {
	return math.Pi * rpm / 30
}

// TangentialVelocity is the rim speed of the wheel for omega in rad/s.
func (c Constants) TangentialVelocity(omega float64) float64 {
	return c.wheelRadius * omega
}

// SpeedToRelativeVelocity maps wheel speed in rpm to the relative velocity
// between the magnets and the beam.
func (c Constants) SpeedToRelativeVelocity(rpm float64) float64 {
	return c.TangentialVelocity(AngularVelocity(rpm))
}

// RelativeVelocityToSpeed is the inverse of SpeedToRelativeVelocity.
func (c Constants) RelativeVelocityToSpeed(v float64) float64 {
	return 30 * v / (math.Pi * c.wheelRadius)
}
