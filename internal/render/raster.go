// Package render draws flock frames as images and writes them to disk.
package render

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/san-kum/flocksim/internal/flock"
)

var background = color.RGBA{A: 0xff}

// Rasterize draws boids on a new black width x height image.
func Rasterize(boids []flock.Boid, width, height, radius int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	Draw(img, boids, radius)
	return img
}

// Draw clears img to opaque black and paints every boid as a disk of pixels closer than
// radius to the boid's pixel. A radius of 1 or less paints a single pixel.
func Draw(img *image.RGBA, boids []flock.Boid, radius int) {
	fill(img, background)
	if radius < 1 {
		radius = 1
	}
	b := img.Bounds()
	r2 := radius * radius

	for i := range boids {
		px, py := int(boids[i].Pos.X), int(boids[i].Pos.Y)
		c := boids[i].Color
		for dy := -radius + 1; dy < radius; dy++ {
			for dx := -radius + 1; dx < radius; dx++ {
				if dx*dx+dy*dy >= r2 {
					continue
				}
				x, y := px+dx, py+dy
				if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
					continue
				}
				off := img.PixOffset(x, y)
				img.Pix[off+0] = c.R
				img.Pix[off+1] = c.G
				img.Pix[off+2] = c.B
			}
		}
	}
}

func fill(img *image.RGBA, c color.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
