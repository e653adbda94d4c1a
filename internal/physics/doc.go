// Package physics provides the electrodynamic suspension model of a
// Halbach-array magnet wheel running over a conductive guideway.
//
// The package is split along the chain the forces are computed through:
//
//   - [Params] and [Constants]: primary material and geometry inputs and the
//     quantities derived from them (dipole moment, diffusion velocity, wheel
//     radius)
//   - [AngularVelocity] and [Constants.SpeedToRelativeVelocity]: wheel speed
//     in rpm to relative velocity in m/s
//   - [Constants.Lift] and [Constants.Drag]: closed-form forces over relative
//     velocity, with rpm-indexed variants
//
// # Domain
//
// Drag carries a w/v factor, so both forces are only defined for v > 0.
// Evaluating at v <= 0 returns a [*DomainError] instead of dividing by zero:
//
//	c, err := physics.NewConstants(physics.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	drag, err := c.Drag(3.5)
package physics
