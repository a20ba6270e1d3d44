package flock

import "math/rand/v2"

// golden is the 64-bit golden ratio constant, used to spread frame numbers across the seed space.
const golden = 0x9E3779B97F4A7C15

// nudgeSource returns the random source for one boid in one frame.
// Each (seed, frame, slot) triple gets its own PCG stream, so concurrent workers never
// share a generator and results do not depend on scheduling.
func nudgeSource(seed, frame uint64, slot int) *rand.Rand {
	return rand.New(rand.NewPCG(seed^(frame*golden), uint64(slot)))
}

// randomVelocity draws both components uniformly from [-limit, limit).
func randomVelocity(r *rand.Rand, limit float64) Vec2 {
	return Vec2{
		X: (r.Float64()*2 - 1) * limit,
		Y: (r.Float64()*2 - 1) * limit,
	}
}
