// Package analysis samples the force model over an axis range and locates
// its critical points.
//
// Two points are of interest on every curve pair:
//
//   - [Intersection]: the point of indifference, where lift equals drag
//   - [MaxDrag]: the peak of the drag curve
//
// Both are found with Newton's method from the roots package. A failed solve
// does not fail the analysis; the point is left out of [Report.Points] and
// the reason is recorded in [Report.Failures].
package analysis
