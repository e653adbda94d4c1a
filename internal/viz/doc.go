// Package viz renders force curves in the terminal.
//
// [Plot] and [Summary] produce static output for the CLI. [Explorer] is a
// Bubble Tea model for tuning the wheel geometry interactively.
//
// # Key Bindings
//
//	Tab   - Cycle tunable parameter
//	Up/K  - Increase parameter (+5%)
//	Down/J- Decrease parameter (-5%)
//	A     - Toggle velocity/rpm axis
//	C     - Toggle critical points
//	T     - Cycle color themes
//	R     - Reset parameters
//	Q     - Quit
package viz
