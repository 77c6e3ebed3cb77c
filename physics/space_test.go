package physics

import (
	"math"
	"testing"

	"github.com/scroggo/frogjump/geom"
	"github.com/scroggo/frogjump/tilemap"
)

func floorLayer(t *testing.T) *tilemap.Layer {
	t.Helper()
	l := tilemap.NewLayer(16)
	h := 8.0
	full := geom.Polygon{{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}}
	// A floor row at y in [32, 48] spanning x in [0, 96].
	for x := 0; x < 6; x++ {
		l.SetCell(tilemap.Cell{X: x, Y: 2}, full)
	}
	return l
}

func testSpace(t *testing.T) *Space {
	t.Helper()
	s := NewSpace()
	s.AddLayer(floorLayer(t))
	return s
}

func TestMoveAndCollideClearPath(t *testing.T) {
	s := testSpace(t)
	box := Box{Size: geom.Vec{X: 20, Y: 14}}

	from := geom.Vec{X: 48, Y: 10}
	motion := geom.Vec{X: 5, Y: 0}
	end, col := s.MoveAndCollide(box, from, 0, motion)
	if col != nil {
		t.Fatalf("unexpected collision: %+v", col)
	}
	if end != from.Add(motion) {
		t.Errorf("end = %v, want %v", end, from.Add(motion))
	}
}

func TestMoveAndCollideFloor(t *testing.T) {
	s := testSpace(t)
	box := Box{Size: geom.Vec{X: 20, Y: 14}}

	// Fall straight down onto the floor. The box bottom starts at y=17,
	// the floor top is y=32.
	from := geom.Vec{X: 48, Y: 10}
	end, col := s.MoveAndCollide(box, from, 0, geom.Vec{X: 0, Y: 30})
	if col == nil {
		t.Fatal("expected a floor collision")
	}
	if col.Normal.Y >= 0 || math.Abs(col.Normal.X) > 0.01 {
		t.Errorf("floor normal = %v, want close to (0, -1)", col.Normal)
	}
	if col.Depth <= 0 {
		t.Errorf("depth = %v, want a small positive penetration", col.Depth)
	}
	// The committed position just penetrates the floor: bottom of the box
	// near y=32.
	bottom := end.Y + box.Size.Y/2
	if math.Abs(bottom-32) > 0.1 {
		t.Errorf("box bottom at y=%v, want about 32", bottom)
	}
	// Contact point on the floor's top edge, under the box.
	if math.Abs(col.Position.Y-32) > 0.1 || math.Abs(col.Position.X-48) > 1 {
		t.Errorf("contact = %v, want about (48, 32)", col.Position)
	}
	if col.Collider == nil {
		t.Error("collision did not carry the collider")
	}
}

func TestMoveAndCollideWall(t *testing.T) {
	l := tilemap.NewLayer(16)
	h := 8.0
	full := geom.Polygon{{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}}
	// A wall column at x in [64, 80].
	for y := 0; y < 4; y++ {
		l.SetCell(tilemap.Cell{X: 4, Y: y}, full)
	}
	s := NewSpace()
	s.AddLayer(l)

	box := Box{Size: geom.Vec{X: 20, Y: 14}}
	from := geom.Vec{X: 30, Y: 32}
	_, col := s.MoveAndCollide(box, from, 0, geom.Vec{X: 40, Y: 0})
	if col == nil {
		t.Fatal("expected a wall collision")
	}
	if col.Normal.X >= 0 || math.Abs(col.Normal.Y) > 0.01 {
		t.Errorf("wall normal = %v, want close to (-1, 0)", col.Normal)
	}
	if math.Abs(col.Position.X-64) > 0.1 {
		t.Errorf("contact = %v, want on the wall face x=64", col.Position)
	}
}

func TestTestMoveDoesNotCommit(t *testing.T) {
	s := testSpace(t)
	box := Box{Size: geom.Vec{X: 20, Y: 14}}
	from := geom.Vec{X: 48, Y: 10}

	if col := s.TestMove(box, from, 0, geom.Vec{X: 0, Y: 30}); col == nil {
		t.Error("TestMove should report the floor collision")
	}
	if col := s.TestMove(box, from, 0, geom.Vec{}); col != nil {
		t.Errorf("TestMove with no motion from a clear position reported %+v", col)
	}
}

func TestMoveAndCollideAlreadyOverlapping(t *testing.T) {
	s := testSpace(t)
	box := Box{Size: geom.Vec{X: 20, Y: 14}}

	// Start with the box bottom well inside the floor.
	from := geom.Vec{X: 48, Y: 28}
	end, col := s.MoveAndCollide(box, from, 0, geom.Vec{X: 0, Y: 5})
	if col == nil {
		t.Fatal("expected an in-place collision")
	}
	if end != from {
		t.Errorf("an already-overlapping body moved: %v -> %v", from, end)
	}
	if col.Remainder != (geom.Vec{X: 0, Y: 5}) {
		t.Errorf("remainder = %v, want the full motion", col.Remainder)
	}
	if col.Depth <= 1 {
		t.Errorf("depth = %v, want a deep penetration", col.Depth)
	}
}

func TestRayCast(t *testing.T) {
	s := testSpace(t)

	hit, ok := s.RayCast(geom.Vec{X: 48, Y: 0}, geom.Vec{X: 48, Y: 60})
	if !ok {
		t.Fatal("ray straight down should hit the floor")
	}
	if math.Abs(hit.Position.Y-32) > 1e-6 {
		t.Errorf("hit at y=%v, want 32", hit.Position.Y)
	}
	if hit.Normal.Y >= 0 {
		t.Errorf("hit normal = %v, want it facing the ray origin", hit.Normal)
	}

	if _, ok := s.RayCast(geom.Vec{X: 48, Y: 0}, geom.Vec{X: 48, Y: 20}); ok {
		t.Error("short ray should miss the floor")
	}
}
