package flock

import (
	"fmt"
	"math"
)

// Vec2 is a 2-D vector or point.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Div divides both components by d. The caller guarantees d != 0.
func (v Vec2) Div(d float64) Vec2 { return Vec2{v.X / d, v.Y / d} }

// NormSq is the squared magnitude; use it for comparisons.
func (v Vec2) NormSq() float64 { return v.X*v.X + v.Y*v.Y }

// Norm is the magnitude, computed without overflow for large components.
func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// Color is an opaque display attribute. The update never reads or writes it.
type Color struct {
	R, G, B uint8
}

// Boid is a single flocking agent.
type Boid struct {
	ID    int
	Pos   Vec2
	Vel   Vec2
	Speed float64
	Color Color
}

// NextState is one boid's contribution to the new-state buffer.
type NextState struct {
	Pos   Vec2
	Vel   Vec2
	Speed float64
}

// Clone returns an independent copy of the snapshot.
func Clone(boids []Boid) []Boid {
	c := make([]Boid, len(boids))
	copy(c, boids)
	return c
}
