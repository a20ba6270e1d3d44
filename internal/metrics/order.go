package metrics

import (
	"math"

	"github.com/san-kum/flocksim/internal/flock"
)

// Polarization is the length of the mean heading vector: 1 when every boid flies the
// same way, near 0 for random headings. Boids at rest have no heading and are skipped.
type Polarization struct {
	name  string
	value float64
}

func NewPolarization() *Polarization {
	return &Polarization{name: "polarization"}
}

func (p *Polarization) Name() string { return p.name }

func (p *Polarization) Observe(boids []flock.Boid, _ flock.Params) {
	var sum flock.Vec2
	n := 0
	for i := range boids {
		speed := boids[i].Vel.Norm()
		if speed == 0 {
			continue
		}
		sum = sum.Add(boids[i].Vel.Scale(1 / speed))
		n++
	}
	if n == 0 {
		p.value = 0
		return
	}
	p.value = sum.Norm() / float64(n)
}

func (p *Polarization) Value() float64 { return p.value }

func (p *Polarization) Reset() { p.value = 0 }

// Spread is the root-mean-square distance of the boids from their centroid.
type Spread struct {
	name  string
	value float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(boids []flock.Boid, _ flock.Params) {
	if len(boids) == 0 {
		s.value = 0
		return
	}
	var centroid flock.Vec2
	for i := range boids {
		centroid = centroid.Add(boids[i].Pos)
	}
	centroid = centroid.Div(float64(len(boids)))

	sumSq := 0.0
	for i := range boids {
		sumSq += boids[i].Pos.Sub(centroid).NormSq()
	}
	s.value = math.Sqrt(sumSq / float64(len(boids)))
}

func (s *Spread) Value() float64 { return s.value }

func (s *Spread) Reset() { s.value = 0 }
