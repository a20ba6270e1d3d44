package sim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/flocksim/internal/flock"
)

// Palette selects how spawned boids are colored.
type Palette string

const (
	PaletteWhite   Palette = "white"
	PaletteRandom  Palette = "random"
	PaletteRainbow Palette = "rainbow"
)

var White = flock.Color{R: 255, G: 255, B: 255}

func ParsePalette(name string) (Palette, error) {
	switch p := Palette(name); p {
	case PaletteWhite, PaletteRandom, PaletteRainbow:
		return p, nil
	case "":
		return PaletteWhite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}

// Spawn creates n boids with ids 0..n-1 at integer positions in [0, width) x [0, height)
// and velocity components in [-maxSpeed/2, maxSpeed/2). Speed starts at zero and is set by
// the first frame. The result depends only on the arguments.
func Spawn(n, width, height int, maxSpeed float64, palette Palette, seed int64) []flock.Boid {
	r := rand.New(rand.NewPCG(uint64(seed), 0))
	boids := make([]flock.Boid, n)
	for i := range boids {
		boids[i] = flock.Boid{
			ID:  i,
			Pos: flock.Vec2{X: float64(r.IntN(width)), Y: float64(r.IntN(height))},
			Vel: flock.Vec2{
				X: (r.Float64() - 0.5) * maxSpeed,
				Y: (r.Float64() - 0.5) * maxSpeed,
			},
		}
	}

	colors := rand.New(rand.NewPCG(uint64(seed), 1))
	for i := range boids {
		boids[i].Color = palette.color(colors, i, n)
	}
	return boids
}

func (p Palette) color(r *rand.Rand, i, n int) flock.Color {
	switch p {
	case PaletteRandom:
		return flock.Color{R: uint8(64 + r.IntN(192)), G: uint8(64 + r.IntN(192)), B: uint8(64 + r.IntN(192))}
	case PaletteRainbow:
		return hue(float64(i) / float64(n))
	default:
		return White
	}
}

// hue converts a hue in [0, 1) at full saturation and value to RGB.
func hue(h float64) flock.Color {
	h = math.Mod(h, 1) * 6
	x := 1 - math.Abs(math.Mod(h, 2)-1)
	var r, g, b float64
	switch int(h) {
	case 0:
		r, g, b = 1, x, 0
	case 1:
		r, g, b = x, 1, 0
	case 2:
		r, g, b = 0, 1, x
	case 3:
		r, g, b = 0, x, 1
	case 4:
		r, g, b = x, 0, 1
	default:
		r, g, b = 1, 0, x
	}
	return flock.Color{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255)}
}
