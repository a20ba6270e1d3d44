package flock

import (
	"fmt"
	"math"
)

// Params holds the immutable per-run simulation parameters.
// There are no defaults here; callers build the full set (see internal/config).
type Params struct {
	MaxSpeed        float64
	MinSpeed        float64
	Margin          float64
	VisibleRange    float64
	ProtectedRange  float64
	AvoidFactor     float64 // separation
	MatchingFactor  float64 // alignment
	CenteringFactor float64 // cohesion
	TurnFactor      float64
	CellSize        float64
	Width           int
	Height          int

	// LegacySpeed measures the clamp speed from the pre-force velocity instead of the
	// force-updated one. The clamp is still applied to the force-updated velocity.
	LegacySpeed bool
}

// Validate rejects degenerate configurations. It must be called before the frame loop;
// the hot path assumes valid parameters.
func (p Params) Validate() error {
	checks := []struct {
		field string
		value float64
		ok    bool
	}{
		{"cell_size", p.CellSize, p.CellSize > 0},
		{"width", float64(p.Width), p.Width > 0},
		{"height", float64(p.Height), p.Height > 0},
		{"min_speed", p.MinSpeed, p.MinSpeed >= 0},
		{"max_speed", p.MaxSpeed, p.MaxSpeed > 0 && p.MaxSpeed >= p.MinSpeed},
		{"margin", p.Margin, p.Margin >= 0},
		{"visible_range", p.VisibleRange, p.VisibleRange > 0},
		{"protected_range", p.ProtectedRange, p.ProtectedRange >= 0},
		{"avoid_factor", p.AvoidFactor, p.AvoidFactor >= 0},
		{"matching_factor", p.MatchingFactor, p.MatchingFactor >= 0},
		{"centering_factor", p.CenteringFactor, p.CenteringFactor >= 0},
		{"turn_factor", p.TurnFactor, p.TurnFactor >= 0},
	}
	for _, c := range checks {
		if !c.ok || math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &ParamError{Field: c.field, Value: c.value, Wrapped: ErrParameterBounds}
		}
	}
	return nil
}

// CheckBounds verifies that every boid lies inside [0, Width) x [0, Height). The update
// clamps to Width-1 only once a position reaches Width, so values like Width-0.5 are legal.
func (p Params) CheckBounds(boids []Boid) error {
	w, h := float64(p.Width), float64(p.Height)
	for i := range boids {
		pos := boids[i].Pos
		if !(pos.X >= 0 && pos.X < w && pos.Y >= 0 && pos.Y < h) {
			return fmt.Errorf("boid %d at %s: %w", boids[i].ID, pos, ErrOutOfBounds)
		}
	}
	return nil
}
