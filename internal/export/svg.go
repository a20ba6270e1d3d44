package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/flocksim/internal/flock"
)

// SnapshotSVG draws boids as circles on a black width x height canvas.
func SnapshotSVG(boids []flock.Boid, width, height int, radius float64) string {
	if radius <= 0 {
		radius = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
`, width, height, width, height))

	for i := range boids {
		b := &boids[i]
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.1f" fill="#%02x%02x%02x"/>
`, b.Pos.X, b.Pos.Y, radius, b.Color.R, b.Color.G, b.Color.B))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesSVG plots values against frames as a polyline scaled to width x height.
func SeriesSVG(frames []uint64, values []float64, width, height int, strokeColor string) string {
	n := len(values)
	if len(frames) < n {
		n = len(frames)
	}
	if n < 2 {
		return ""
	}

	minX, maxX := float64(frames[0]), float64(frames[n-1])
	minY, maxY := values[0], values[0]
	for _, v := range values[:n] {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := 0; i < n; i++ {
		x := (float64(frames[i]) - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
