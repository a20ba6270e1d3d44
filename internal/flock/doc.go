// Package flock implements the per-frame state update of a boids flock.
//
// A frame is evaluated in three strictly ordered phases:
//
//   - [BuildIndex]: partition the current snapshot into a uniform grid of cells
//   - [Advance]: compute every boid's next state in parallel, reading only the snapshot
//   - commit: copy the next-state buffer back over the snapshot, sequentially
//
// No boid ever observes a neighbor's updated state within the frame it is computed in,
// so the result does not depend on how the parallel phase is scheduled.
//
// # Example
//
//	params := flock.Params{MaxSpeed: 3, MinSpeed: 0.5, CellSize: 22, Width: 1920, Height: 1080, ...}
//	f, err := flock.New(boids, params, flock.WithSeed(42))
//	if err != nil {
//		return err
//	}
//	for i := 0; i < frames; i++ {
//		f.Step()
//	}
//
// # Determinism
//
// Neighbor sums are accumulated in cell order and, inside a cell, in snapshot slot order.
// Floating-point addition is not associative, so reordering the snapshot may change results
// in the last bits; for a fixed snapshot order the output is reproducible. The zero-speed nudge
// draws from a source derived from (seed, frame, slot), so results are identical for any
// worker count.
//
// # Thread Safety
//
// [Flock] instances are NOT thread-safe. [Advance] is safe to call as long as nothing else
// touches the boid slice while it runs.
package flock
