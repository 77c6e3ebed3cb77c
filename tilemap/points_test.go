package tilemap

import (
	"testing"

	"github.com/scroggo/frogjump/geom"
)

func TestColliderPointsSingleTile(t *testing.T) {
	l := NewLayer(16)
	l.SetCell(Cell{X: 1, Y: 1}, fullTile(16))

	// Collision on the top of tile (1,1), away from its edges.
	points, ok := ColliderPoints(l, geom.Vec{X: 24, Y: 16})
	if !ok {
		t.Fatal("ColliderPoints found nothing")
	}
	if len(points) != 4 {
		t.Fatalf("got %d points, want 4: %v", len(points), points)
	}
	for _, corner := range []geom.Vec{
		{X: 16, Y: 16}, {X: 32, Y: 16}, {X: 32, Y: 32}, {X: 16, Y: 32},
	} {
		if _, found := points.FindVertex(corner, 0.05); !found {
			t.Errorf("corner %v missing from %v", corner, points)
		}
	}
}

func TestColliderPointsExtendsAcrossSeam(t *testing.T) {
	// Two full tiles side by side: the resolved polygon spans both and the
	// seam corners at x=16 are smoothed away.
	l := NewLayer(16)
	l.SetCell(Cell{X: 0, Y: 0}, fullTile(16))
	l.SetCell(Cell{X: 1, Y: 0}, fullTile(16))

	points, ok := ColliderPoints(l, geom.Vec{X: 8, Y: 0})
	if !ok {
		t.Fatal("ColliderPoints found nothing")
	}
	if len(points) != 4 {
		t.Fatalf("merged polygon has %d points, want 4: %v", len(points), points)
	}
	if _, found := points.FindVertex(geom.Vec{X: 32, Y: 0}, 0.05); !found {
		t.Errorf("far corner of the neighbor tile missing from %v", points)
	}
	if _, found := points.FindVertex(geom.Vec{X: 16, Y: 0}, 0.05); found {
		t.Errorf("seam corner (16,0) should be smoothed away: %v", points)
	}
}

func TestColliderPointsIgnoresDisconnectedNeighbor(t *testing.T) {
	// The neighbor tile's polygon hugs its far side and never touches the
	// seam, so the merge is discarded and the original tile's polygon stays.
	l := NewLayer(16)
	l.SetCell(Cell{X: 0, Y: 0}, fullTile(16))
	l.SetCell(Cell{X: 1, Y: 0}, geom.Polygon{
		{X: 4, Y: -8}, {X: 8, Y: -8}, {X: 8, Y: 8}, {X: 4, Y: 8},
	})

	points, ok := ColliderPoints(l, geom.Vec{X: 8, Y: 0})
	if !ok {
		t.Fatal("ColliderPoints found nothing")
	}
	if len(points) != 4 {
		t.Fatalf("got %d points, want 4: %v", len(points), points)
	}
	if _, found := points.FindVertex(geom.Vec{X: 16, Y: 16}, 0.05); !found {
		t.Errorf("original tile corner missing from %v", points)
	}
	if _, found := points.FindVertex(geom.Vec{X: 24, Y: 0}, 0.05); found {
		t.Errorf("disconnected neighbor leaked into %v", points)
	}
}

func TestColliderPointsOnEmptyTileBoundary(t *testing.T) {
	// The collision sits on the left boundary of an empty tile; the polygon
	// lives in the tile to the left.
	l := NewLayer(16)
	l.SetCell(Cell{X: 0, Y: 0}, fullTile(16))

	points, ok := ColliderPoints(l, geom.Vec{X: 16.005, Y: 8})
	if !ok {
		t.Fatal("ColliderPoints found nothing for a boundary collision")
	}
	if _, found := points.FindVertex(geom.Vec{X: 0, Y: 0}, 0.05); !found {
		t.Errorf("left tile's polygon not resolved: %v", points)
	}
}

func TestColliderPointsEmpty(t *testing.T) {
	l := NewLayer(16)
	if _, ok := ColliderPoints(l, geom.Vec{X: 8, Y: 8}); ok {
		t.Error("ColliderPoints on an empty layer should report false")
	}
}
