// Package snapshot reads and writes flock populations.
//
// A snapshot is a header (area size and frame number) followed by the ordered list of
// boid records. Two encodings are supported, chosen by file extension:
//
//   - .json: human-readable, validated against an embedded JSON schema on read
//   - .pb: protobuf wire format, compact enough for six-figure populations
//
// Record order is preserved. It is significant: the flock update accumulates neighbor
// sums in slot order.
package snapshot

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/flocksim/internal/flock"
)

// Record is one boid as stored on disk.
type Record struct {
	ID    int      `json:"id"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	VX    float64  `json:"vx"`
	VY    float64  `json:"vy"`
	Speed float64  `json:"speed"`
	Color [3]uint8 `json:"color"`
}

type Document struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Frame  uint64   `json:"frame"`
	Boids  []Record `json:"boids"`
}

// FromBoids captures a population. The records do not alias boids.
func FromBoids(boids []flock.Boid, width, height int, frame uint64) *Document {
	d := &Document{
		Width:  width,
		Height: height,
		Frame:  frame,
		Boids:  make([]Record, len(boids)),
	}
	for i, b := range boids {
		d.Boids[i] = Record{
			ID:    b.ID,
			X:     b.Pos.X,
			Y:     b.Pos.Y,
			VX:    b.Vel.X,
			VY:    b.Vel.Y,
			Speed: b.Speed,
			Color: [3]uint8{b.Color.R, b.Color.G, b.Color.B},
		}
	}
	return d
}

// ToBoids rebuilds the population in record order.
func (d *Document) ToBoids() []flock.Boid {
	boids := make([]flock.Boid, len(d.Boids))
	for i, r := range d.Boids {
		boids[i] = flock.Boid{
			ID:    r.ID,
			Pos:   flock.Vec2{X: r.X, Y: r.Y},
			Vel:   flock.Vec2{X: r.VX, Y: r.VY},
			Speed: r.Speed,
			Color: flock.Color{R: r.Color[0], G: r.Color[1], B: r.Color[2]},
		}
	}
	return boids
}

// Validate checks that ids are unique, velocities and speeds are finite and every boid
// lies inside the area.
func (d *Document) Validate() error {
	area := flock.Params{Width: d.Width, Height: d.Height}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("area %dx%d: %w", d.Width, d.Height, flock.ErrParameterBounds)
	}

	seen := make(map[int]struct{}, len(d.Boids))
	for _, r := range d.Boids {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("id %d: %w", r.ID, ErrDuplicateID)
		}
		seen[r.ID] = struct{}{}
		if !finite(r.VX) || !finite(r.VY) || !finite(r.Speed) {
			return fmt.Errorf("id %d: vel=(%g, %g) speed=%g: %w", r.ID, r.VX, r.VY, r.Speed, ErrNonFinite)
		}
	}
	return area.CheckBounds(d.ToBoids())
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type format int

const (
	formatJSON format = iota
	formatWire
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".pb", ".bin":
		return formatWire, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrFormat)
}

// Read loads and validates a snapshot file.
func Read(path string) (*Document, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var d *Document
	switch f {
	case formatJSON:
		d, err = DecodeJSON(file)
	default:
		d, err = DecodeWire(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Write stores a snapshot in the format implied by the file extension.
func Write(path string, d *Document) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	switch f {
	case formatJSON:
		err = EncodeJSON(file, d)
	default:
		err = EncodeWire(file, d)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}
