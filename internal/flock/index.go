package flock

import "math"

// CellKey is an integer grid cell coordinate.
type CellKey struct {
	X, Y int
}

// Index maps grid cells to the slot indices of the boids inside them.
// It stores indices only, never references into the boid slice.
type Index struct {
	cellSize float64
	cells    map[CellKey][]int
	count    int
}

// BuildIndex partitions the snapshot into cells of side cellSize.
// Within a cell, slots appear in snapshot order.
func BuildIndex(boids []Boid, cellSize float64) *Index {
	idx := &Index{
		cellSize: cellSize,
		cells:    make(map[CellKey][]int),
	}
	idx.Rebuild(boids)
	return idx
}

// Rebuild repopulates the index from a new snapshot. Cell slices are truncated and
// refilled so their backing arrays are reused; no membership survives the call.
func (idx *Index) Rebuild(boids []Boid) {
	for k, slots := range idx.cells {
		if len(slots) == 0 {
			delete(idx.cells, k)
			continue
		}
		idx.cells[k] = slots[:0]
	}
	for slot := range boids {
		key := idx.CellOf(boids[slot].Pos)
		idx.cells[key] = append(idx.cells[key], slot)
	}
	idx.count = len(boids)
}

// CellOf returns the cell containing p.
func (idx *Index) CellOf(p Vec2) CellKey {
	return CellKey{
		X: int(math.Floor(p.X / idx.cellSize)),
		Y: int(math.Floor(p.Y / idx.cellSize)),
	}
}

// Cell returns the slots in a cell. The slice is owned by the index and must not be modified.
func (idx *Index) Cell(key CellKey) []int {
	return idx.cells[key]
}

// CellSize returns the side length of a cell.
func (idx *Index) CellSize() float64 { return idx.cellSize }

// Len returns the number of indexed boids.
func (idx *Index) Len() int { return idx.count }

// Occupied returns the number of non-empty cells.
func (idx *Index) Occupied() int {
	n := 0
	for _, slots := range idx.cells {
		if len(slots) > 0 {
			n++
		}
	}
	return n
}
