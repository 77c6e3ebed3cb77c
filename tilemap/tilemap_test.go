package tilemap

import (
	"math"
	"testing"

	"github.com/scroggo/frogjump/geom"
)

// fullTile returns a tile-local square polygon filling a tile of the given
// size.
func fullTile(size float64) geom.Polygon {
	h := size / 2
	return geom.Polygon{
		{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h},
	}
}

func TestLocalToMap(t *testing.T) {
	l := NewLayer(16)
	tests := []struct {
		name  string
		local geom.Vec
		want  Cell
	}{
		{"origin", geom.Vec{X: 0, Y: 0}, Cell{X: 0, Y: 0}},
		{"inside first tile", geom.Vec{X: 15.9, Y: 15.9}, Cell{X: 0, Y: 0}},
		{"second tile", geom.Vec{X: 16, Y: 0}, Cell{X: 1, Y: 0}},
		{"negative", geom.Vec{X: -0.1, Y: -0.1}, Cell{X: -1, Y: -1}},
		{"down right", geom.Vec{X: 40, Y: 33}, Cell{X: 2, Y: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.LocalToMap(tt.local); got != tt.want {
				t.Errorf("LocalToMap(%v) = %v, want %v", tt.local, got, tt.want)
			}
		})
	}
}

func TestMapToLocalIsTileCenter(t *testing.T) {
	l := NewLayer(16)
	c := Cell{X: 2, Y: 1}
	center := l.MapToLocal(c)
	want := geom.Vec{X: 40, Y: 24}
	if math.Abs(center.X-want.X) > 1e-9 || math.Abs(center.Y-want.Y) > 1e-9 {
		t.Errorf("MapToLocal(%v) = %v, want %v", c, center, want)
	}
	// The center maps back to the same cell.
	if got := l.LocalToMap(center); got != c {
		t.Errorf("LocalToMap(MapToLocal(%v)) = %v", c, got)
	}
}

func TestToGlobalRoundTrip(t *testing.T) {
	l := NewLayer(16)
	l.Origin = geom.Vec{X: 100, Y: -50}
	p := geom.Vec{X: 3, Y: 7}
	global := l.ToGlobal(p)
	if global != (geom.Vec{X: 103, Y: -43}) {
		t.Errorf("ToGlobal = %v", global)
	}
	if back := l.ToLocal(global); back != p {
		t.Errorf("ToLocal(ToGlobal(%v)) = %v", p, back)
	}
}

func TestWorldPolygons(t *testing.T) {
	l := NewLayer(16)
	l.SetCell(Cell{X: 1, Y: 0}, fullTile(16))

	polys := l.WorldPolygons(Cell{X: 1, Y: 0})
	if len(polys) != 1 {
		t.Fatalf("got %d polygons, want 1", len(polys))
	}
	// Tile (1,0) spans x in [16,32], y in [0,16].
	if !polys[0].Contains(geom.Vec{X: 24, Y: 8}) {
		t.Errorf("world polygon %v should contain the tile center", polys[0])
	}
	if polys[0].Contains(geom.Vec{X: 8, Y: 8}) {
		t.Error("world polygon should not cover the neighboring tile")
	}

	if got := l.WorldPolygons(Cell{X: 5, Y: 5}); got != nil {
		t.Errorf("empty cell returned polygons: %v", got)
	}
}

func TestCellsInBox(t *testing.T) {
	l := NewLayer(16)
	l.SetCell(Cell{X: 0, Y: 0}, fullTile(16))
	l.SetCell(Cell{X: 1, Y: 0}, fullTile(16))
	l.SetCell(Cell{X: 5, Y: 5}, fullTile(16))

	cells := l.CellsInBox(geom.Vec{X: -4, Y: -4}, geom.Vec{X: 20, Y: 10})
	if len(cells) != 2 {
		t.Fatalf("CellsInBox returned %d cells, want 2: %v", len(cells), cells)
	}
	seen := map[Cell]bool{}
	for _, c := range cells {
		seen[c] = true
	}
	if !seen[(Cell{X: 0, Y: 0})] || !seen[(Cell{X: 1, Y: 0})] {
		t.Errorf("CellsInBox missed expected cells: %v", cells)
	}
}
