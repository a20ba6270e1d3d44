package metrics

import "github.com/san-kum/flocksim/internal/flock"

// EdgeFraction is the share of boids inside the turn margin of any edge.
type EdgeFraction struct {
	name  string
	value float64
}

func NewEdgeFraction() *EdgeFraction {
	return &EdgeFraction{name: "edge_fraction"}
}

func (e *EdgeFraction) Name() string { return e.name }

func (e *EdgeFraction) Observe(boids []flock.Boid, p flock.Params) {
	if len(boids) == 0 {
		e.value = 0
		return
	}
	w, h := float64(p.Width), float64(p.Height)
	near := 0
	for i := range boids {
		pos := boids[i].Pos
		if pos.X < p.Margin || pos.X > w-p.Margin || pos.Y < p.Margin || pos.Y > h-p.Margin {
			near++
		}
	}
	e.value = float64(near) / float64(len(boids))
}

func (e *EdgeFraction) Value() float64 { return e.value }

func (e *EdgeFraction) Reset() { e.value = 0 }
