package flock

import "math/rand/v2"

func testParams() Params {
	return Params{
		MaxSpeed:        3.0,
		MinSpeed:        0.5,
		Margin:          10,
		VisibleRange:    20,
		ProtectedRange:  2,
		AvoidFactor:     0.05,
		MatchingFactor:  0.05,
		CenteringFactor: 0.0005,
		TurnFactor:      0.2,
		CellSize:        22,
		Width:           1920,
		Height:          1080,
	}
}

func randomBoids(n, width, height int, maxSpeed float64, seed uint64) []Boid {
	r := rand.New(rand.NewPCG(seed, 0))
	boids := make([]Boid, n)
	for i := range boids {
		boids[i] = Boid{
			ID:  i,
			Pos: Vec2{X: r.Float64() * float64(width), Y: r.Float64() * float64(height)},
			Vel: Vec2{X: (r.Float64() - 0.5) * maxSpeed, Y: (r.Float64() - 0.5) * maxSpeed},
		}
	}
	return boids
}
