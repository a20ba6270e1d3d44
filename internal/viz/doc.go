// Package viz provides the terminal live view of a running flock.
//
// The view is a Bubble Tea program:
//
//   - [Model]: steps a flock on a timer and renders it next to a stats panel
//   - [Canvas]: braille canvas, 2x4 dots per character
//   - [Theme]: color schemes, cycled at runtime
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Reset to the initial population
//	T     - Cycle color themes
//	?     - Toggle help
//	Q     - Quit
package viz
