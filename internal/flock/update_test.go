package flock

import (
	"math"
	"testing"
)

const tol = 1e-12

func near(a, b float64) bool { return math.Abs(a-b) <= tol }

func step(boids []Boid, p Params, opts Options) {
	Advance(boids, BuildIndex(boids, p.CellSize), p, opts)
}

func TestAdvance_ProtectedRangePair(t *testing.T) {
	p := testParams()
	boids := []Boid{
		{ID: 0, Pos: Vec2{X: 100, Y: 100}},
		{ID: 1, Pos: Vec2{X: 101, Y: 100}},
	}

	step(boids, p, Options{Workers: 1})

	// separation gives (-0.05, 0) and (0.05, 0); both are below MinSpeed and get scaled up
	if boids[0].Speed != p.MinSpeed || boids[1].Speed != p.MinSpeed {
		t.Fatalf("speeds = %v, %v; want exactly %v", boids[0].Speed, boids[1].Speed, p.MinSpeed)
	}
	if !near(boids[0].Vel.X, -0.5) || boids[0].Vel.Y != 0 {
		t.Errorf("boid 0 velocity = %v, want (-0.5, 0)", boids[0].Vel)
	}
	if !near(boids[1].Vel.X, 0.5) || boids[1].Vel.Y != 0 {
		t.Errorf("boid 1 velocity = %v, want (0.5, 0)", boids[1].Vel)
	}
	if !near(boids[0].Pos.X, 99.5) || !near(boids[1].Pos.X, 101.5) {
		t.Errorf("positions = %v, %v; want x 99.5 and 101.5", boids[0].Pos, boids[1].Pos)
	}
	if boids[0].Pos.Y != 100 || boids[1].Pos.Y != 100 {
		t.Errorf("boids left the x axis: %v, %v", boids[0].Pos, boids[1].Pos)
	}
}

func TestAdvance_ProtectedRangePairLegacySpeed(t *testing.T) {
	p := testParams()
	p.LegacySpeed = true
	boids := []Boid{
		{ID: 0, Pos: Vec2{X: 100, Y: 100}},
		{ID: 1, Pos: Vec2{X: 101, Y: 100}},
	}

	step(boids, p, Options{Workers: 1, Seed: 7})

	// the pre-force speed is zero, so both boids are nudged
	for _, b := range boids {
		if b.Speed != p.MinSpeed {
			t.Errorf("boid %d speed = %v, want %v", b.ID, b.Speed, p.MinSpeed)
		}
		if b.Vel.X < -p.MinSpeed || b.Vel.X >= p.MinSpeed || b.Vel.Y < -p.MinSpeed || b.Vel.Y >= p.MinSpeed {
			t.Errorf("boid %d nudge %v outside [-min, min)", b.ID, b.Vel)
		}
	}
}

func TestAdvance_CornerTurn(t *testing.T) {
	tests := []struct {
		name     string
		minSpeed float64
		wantVel  Vec2
	}{
		{"no speed floor", 0, Vec2{X: 0.2, Y: 0.2}},
		{"speed floor", 0.5, Vec2{X: 0.5 / math.Sqrt2, Y: 0.5 / math.Sqrt2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			p.MinSpeed = tt.minSpeed
			boids := []Boid{{Pos: Vec2{X: 5, Y: 5}}}

			step(boids, p, Options{Workers: 1})

			got := boids[0].Vel
			if got.X <= 0 || got.Y <= 0 {
				t.Fatalf("velocity %v not turned inward on both axes", got)
			}
			if math.Abs(got.X-tt.wantVel.X) > 1e-9 || math.Abs(got.Y-tt.wantVel.Y) > 1e-9 {
				t.Errorf("velocity = %v, want %v", got, tt.wantVel)
			}
		})
	}
}

func TestAdvance_EdgeTurns(t *testing.T) {
	p := testParams()
	p.MinSpeed = 0
	tests := []struct {
		name string
		pos  Vec2
		want Vec2
	}{
		{"interior", Vec2{X: 500, Y: 500}, Vec2{X: 1, Y: 0}},
		{"left", Vec2{X: 3, Y: 500}, Vec2{X: 1.2, Y: 0}},
		{"right", Vec2{X: 1915, Y: 500}, Vec2{X: 0.8, Y: 0}},
		{"top", Vec2{X: 500, Y: 2}, Vec2{X: 1, Y: 0.2}},
		{"bottom", Vec2{X: 500, Y: 1075}, Vec2{X: 1, Y: -0.2}},
		{"bottom right", Vec2{X: 1912, Y: 1075}, Vec2{X: 0.8, Y: -0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boids := []Boid{{Pos: tt.pos, Vel: Vec2{X: 1, Y: 0}}}
			step(boids, p, Options{Workers: 1})
			got := boids[0].Vel
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("velocity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdvance_IsolatedBoid(t *testing.T) {
	p := testParams()
	boids := []Boid{
		{ID: 0, Pos: Vec2{X: 500, Y: 500}, Vel: Vec2{X: 1, Y: 0.5}},
		{ID: 1, Pos: Vec2{X: 900, Y: 900}, Vel: Vec2{X: -2, Y: 0}},
	}

	step(boids, p, Options{Workers: 1})

	if boids[0].Vel != (Vec2{X: 1, Y: 0.5}) {
		t.Errorf("isolated velocity changed: %v", boids[0].Vel)
	}
	if boids[0].Pos != (Vec2{X: 501, Y: 500.5}) {
		t.Errorf("position = %v, want (501, 500.5)", boids[0].Pos)
	}
	if !near(boids[0].Speed, math.Hypot(1, 0.5)) {
		t.Errorf("speed = %v, want |v|", boids[0].Speed)
	}
}

func TestAdvance_SeparationIsSymmetric(t *testing.T) {
	p := testParams()
	p.MinSpeed = 0
	a, b := Vec2{X: 300, Y: 300}, Vec2{X: 301.2, Y: 300.9}
	boids := []Boid{{Pos: a}, {Pos: b}}

	step(boids, p, Options{Workers: 1})

	away := b.Sub(a)
	if boids[0].Vel.X*away.X+boids[0].Vel.Y*away.Y >= 0 {
		t.Errorf("boid 0 velocity %v does not point away from boid 1", boids[0].Vel)
	}
	if boids[1].Vel.X*away.X+boids[1].Vel.Y*away.Y <= 0 {
		t.Errorf("boid 1 velocity %v does not point away from boid 0", boids[1].Vel)
	}
	if !near(boids[0].Vel.X, -boids[1].Vel.X) || !near(boids[0].Vel.Y, -boids[1].Vel.Y) {
		t.Errorf("separation not equal and opposite: %v vs %v", boids[0].Vel, boids[1].Vel)
	}
}

func TestAdvance_CohesionAndAlignment(t *testing.T) {
	p := testParams()
	p.MinSpeed = 0
	p.AvoidFactor = 0
	boids := []Boid{
		{Pos: Vec2{X: 300, Y: 300}, Vel: Vec2{X: 0, Y: 1}},
		{Pos: Vec2{X: 310, Y: 300}, Vel: Vec2{X: 1, Y: 1}},
	}

	step(boids, p, Options{Workers: 1})

	// cohesion (10*0.0005) plus alignment (1*0.05) along x
	want := 10*p.CenteringFactor + 1*p.MatchingFactor
	if math.Abs(boids[0].Vel.X-want) > 1e-12 {
		t.Errorf("vx = %v, want %v", boids[0].Vel.X, want)
	}
	if boids[0].Vel.Y != 1 {
		t.Errorf("vy = %v, want 1", boids[0].Vel.Y)
	}
}

func TestAdvance_NeighborAcrossCellBoundary(t *testing.T) {
	p := testParams()
	p.MinSpeed = 0
	boids := []Boid{
		{Pos: Vec2{X: 21.5, Y: 100}},
		{Pos: Vec2{X: 22.5, Y: 100}},
	}

	step(boids, p, Options{Workers: 1})

	if boids[0].Vel.X >= 0 || boids[1].Vel.X <= 0 {
		t.Errorf("boids in adjacent cells did not separate: %v, %v", boids[0].Vel, boids[1].Vel)
	}
}

func TestAdvance_SpeedClamp(t *testing.T) {
	p := testParams()
	tests := []struct {
		name      string
		vel       Vec2
		wantSpeed float64
	}{
		{"too fast", Vec2{X: 30, Y: 40}, 3},
		{"too slow", Vec2{X: 0.03, Y: 0.04}, 0.5},
		{"in range", Vec2{X: 1.2, Y: 1.6}, 2},
		{"huge components", Vec2{X: 1e200, Y: 1e200}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boids := []Boid{{Pos: Vec2{X: 800, Y: 500}, Vel: tt.vel}}
			step(boids, p, Options{Workers: 1})
			if !near(boids[0].Speed, tt.wantSpeed) {
				t.Errorf("speed = %v, want %v", boids[0].Speed, tt.wantSpeed)
			}
			if math.Abs(boids[0].Vel.Norm()-tt.wantSpeed) > 1e-9 {
				t.Errorf("|vel| = %v, want %v", boids[0].Vel.Norm(), tt.wantSpeed)
			}
			// direction is preserved
			if math.Abs(boids[0].Vel.X*tt.vel.Y-boids[0].Vel.Y*tt.vel.X) > 1e-9 {
				t.Errorf("direction changed: %v vs %v", boids[0].Vel, tt.vel)
			}
		})
	}
}

func TestAdvance_ZeroSpeedWithoutFloorStaysPut(t *testing.T) {
	p := testParams()
	p.MinSpeed = 0
	boids := []Boid{{Pos: Vec2{X: 800, Y: 500}}}

	step(boids, p, Options{Workers: 1})

	if boids[0].Speed != 0 || boids[0].Vel != (Vec2{}) || boids[0].Pos != (Vec2{X: 800, Y: 500}) {
		t.Errorf("stationary boid moved: %+v", boids[0])
	}
}

func TestAdvance_PositionClamp(t *testing.T) {
	p := testParams()
	p.Margin = 0
	tests := []struct {
		name string
		pos  Vec2
		vel  Vec2
		want Vec2
	}{
		{"past right", Vec2{X: 1919.5, Y: 500}, Vec2{X: 2, Y: 0}, Vec2{X: 1919, Y: 500}},
		{"past left", Vec2{X: 0.5, Y: 500}, Vec2{X: -2, Y: 0}, Vec2{X: 0, Y: 500}},
		{"past bottom", Vec2{X: 500, Y: 1079.9}, Vec2{X: 0, Y: 1}, Vec2{X: 500, Y: 1079}},
		{"past top", Vec2{X: 500, Y: 0.2}, Vec2{X: 0, Y: -1}, Vec2{X: 500, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boids := []Boid{{Pos: tt.pos, Vel: tt.vel}}
			step(boids, p, Options{Workers: 1})
			if !near(boids[0].Pos.X, tt.want.X) || !near(boids[0].Pos.Y, tt.want.Y) {
				t.Errorf("position = %v, want %v", boids[0].Pos, tt.want)
			}
		})
	}
}

func TestAdvance_ColorAndIDUntouched(t *testing.T) {
	p := testParams()
	boids := randomBoids(200, 200, 200, p.MaxSpeed, 3)
	for i := range boids {
		boids[i].Color = Color{R: uint8(i), G: 7, B: 9}
	}
	p.Width, p.Height = 200, 200

	step(boids, p, Options{})

	for i, b := range boids {
		if b.ID != i || b.Color != (Color{R: uint8(i), G: 7, B: 9}) {
			t.Fatalf("slot %d identity changed: %+v", i, b)
		}
	}
}
