package metrics

import "github.com/san-kum/flocksim/internal/flock"

// MeanSpeed is the average recorded speed of the flock.
type MeanSpeed struct {
	name  string
	value float64
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(boids []flock.Boid, _ flock.Params) {
	if len(boids) == 0 {
		m.value = 0
		return
	}
	sum := 0.0
	for i := range boids {
		sum += boids[i].Speed
	}
	m.value = sum / float64(len(boids))
}

func (m *MeanSpeed) Value() float64 { return m.value }

func (m *MeanSpeed) Reset() { m.value = 0 }
