package flock

import (
	"reflect"
	"testing"
)

func TestBuildIndex_CellAssignment(t *testing.T) {
	boids := []Boid{
		{ID: 0, Pos: Vec2{X: 5, Y: 5}},
		{ID: 1, Pos: Vec2{X: 25, Y: 5}},
		{ID: 2, Pos: Vec2{X: 5, Y: 44}},
		{ID: 3, Pos: Vec2{X: 21.999, Y: 21.999}},
		{ID: 4, Pos: Vec2{X: 22, Y: 0}},
	}

	idx := BuildIndex(boids, 22)

	tests := []struct {
		key  CellKey
		want []int
	}{
		{CellKey{0, 0}, []int{0, 3}},
		{CellKey{1, 0}, []int{1, 4}},
		{CellKey{0, 2}, []int{2}},
		{CellKey{5, 5}, nil},
	}

	for _, tt := range tests {
		got := idx.Cell(tt.key)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Cell(%v) = %v, want %v", tt.key, got, tt.want)
		}
	}

	if idx.Len() != len(boids) {
		t.Errorf("Len() = %d, want %d", idx.Len(), len(boids))
	}
	if idx.Occupied() != 3 {
		t.Errorf("Occupied() = %d, want 3", idx.Occupied())
	}
}

func TestBuildIndex_SlotOrder(t *testing.T) {
	boids := make([]Boid, 10)
	for i := range boids {
		boids[i] = Boid{ID: 100 - i, Pos: Vec2{X: float64(i), Y: 1}}
	}

	idx := BuildIndex(boids, 50)
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if got := idx.Cell(CellKey{0, 0}); !reflect.DeepEqual(got, want) {
		t.Errorf("slots not in snapshot order: got %v", got)
	}
}

func TestIndex_RebuildDropsOldMembership(t *testing.T) {
	boids := []Boid{
		{Pos: Vec2{X: 1, Y: 1}},
		{Pos: Vec2{X: 30, Y: 1}},
	}
	idx := BuildIndex(boids, 10)

	boids[0].Pos = Vec2{X: 31, Y: 1}
	idx.Rebuild(boids)

	if got := idx.Cell(CellKey{0, 0}); len(got) != 0 {
		t.Errorf("cell (0,0) should be empty after rebuild, got %v", got)
	}
	if got := idx.Cell(CellKey{3, 0}); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("cell (3,0) = %v, want [0 1]", got)
	}
	if idx.Occupied() != 1 {
		t.Errorf("Occupied() = %d, want 1", idx.Occupied())
	}

	// A second rebuild removes the cell left empty by the first one.
	idx.Rebuild(boids)
	if _, ok := idx.cells[CellKey{0, 0}]; ok {
		t.Error("stale empty cell was not removed")
	}
}

func TestIndex_CellOf(t *testing.T) {
	idx := BuildIndex(nil, 22)
	tests := []struct {
		p    Vec2
		want CellKey
	}{
		{Vec2{0, 0}, CellKey{0, 0}},
		{Vec2{21.9, 43.9}, CellKey{0, 1}},
		{Vec2{22, 44}, CellKey{1, 2}},
		{Vec2{1919, 1079}, CellKey{87, 49}},
	}
	for _, tt := range tests {
		if got := idx.CellOf(tt.p); got != tt.want {
			t.Errorf("CellOf(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
