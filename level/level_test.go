package level

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scroggo/frogjump/geom"
	"github.com/scroggo/frogjump/tilemap"
)

func TestLoadEmbeddedLevels(t *testing.T) {
	set, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	first, ok := set.Get(set.First)
	if !ok {
		t.Fatalf("first level %q not found", set.First)
	}
	if first.TileSize <= 0 {
		t.Errorf("tile size = %v, want positive", first.TileSize)
	}
	if len(first.Rows) == 0 {
		t.Error("first level has no terrain rows")
	}
	// Every level should be reachable sanity: links were validated by Load,
	// so just spot-check the first level's next link resolves.
	if first.Next != "" {
		if _, ok := set.Get(first.Next); !ok {
			t.Errorf("next level %q missing", first.Next)
		}
	}
}

func TestBuildLayer(t *testing.T) {
	def := &Definition{
		Name:     "test",
		TileSize: 16,
		Legend:   map[string]string{"#": "square", "/": "ramp-right"},
		Rows: []string{
			"..#",
			"#/#",
		},
	}
	layer, err := def.BuildLayer()
	if err != nil {
		t.Fatalf("BuildLayer: %v", err)
	}
	if layer.TileSize() != 16 {
		t.Errorf("tile size = %v, want 16", layer.TileSize())
	}
	for _, c := range []tilemap.Cell{{X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}} {
		if layer.TileDataAt(c) == nil {
			t.Errorf("cell %v empty, want a tile", c)
		}
	}
	if layer.TileDataAt(tilemap.Cell{X: 0, Y: 0}) != nil {
		t.Error("cell (0,0) should be empty")
	}

	// The ramp tile's polygon is a triangle.
	ramp := layer.TileDataAt(tilemap.Cell{X: 1, Y: 1})
	if len(ramp.Polygons) != 1 || len(ramp.Polygons[0]) != 3 {
		t.Errorf("ramp polygons = %+v, want one triangle", ramp.Polygons)
	}
}

func TestBuildLayerUnknownRune(t *testing.T) {
	def := &Definition{
		Name:     "bad",
		TileSize: 16,
		Legend:   map[string]string{},
		Rows:     []string{"#"},
	}
	if _, err := def.BuildLayer(); err == nil {
		t.Error("unknown legend rune should fail")
	}
}

func TestLoadRejectsBadLinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "levels.yaml")
	bad := `tile_size: 16
first: a
levels:
  - name: a
    legend: {"#": square}
    rows: ["#"]
    player: {x: 0, y: 0}
    next: missing
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("a dangling next link should fail to load")
	}
}

func TestProgression(t *testing.T) {
	set, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, ok := NewProgression(set, "")
	if !ok {
		t.Fatal("NewProgression failed for the first level")
	}
	if p.State() != Playing {
		t.Errorf("state = %v, want playing", p.State())
	}

	first := p.Current()
	p.Win()
	if p.State() != Won {
		t.Errorf("state after Win = %v", p.State())
	}

	// A bonus find outranks the pending win.
	if first.Bonus != "" {
		p.FindBonus()
		if p.State() != BonusFound {
			t.Errorf("state after FindBonus = %v", p.State())
		}
		next, ok := p.Advance()
		if !ok {
			t.Fatal("Advance after bonus failed")
		}
		if next.Name != first.Bonus {
			t.Errorf("advanced to %q, want the bonus level %q", next.Name, first.Bonus)
		}
		if p.State() != Playing {
			t.Errorf("state after Advance = %v, want playing", p.State())
		}
	}
}

func TestProgressionUnknownStart(t *testing.T) {
	set, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p, ok := NewProgression(set, "swamp-of-no-return"); ok || p != nil {
		t.Errorf("NewProgression(unknown) = %v, %v, want nil, false", p, ok)
	}
}

func TestProgressionEndsWithoutNext(t *testing.T) {
	set, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Find a level with no next link; the embedded set ends somewhere.
	var terminal string
	for _, name := range []string{"lily", "creek"} {
		if def, ok := set.Get(name); ok && def.Next == "" {
			terminal = name
			break
		}
	}
	if terminal == "" {
		t.Skip("no terminal level in the embedded set")
	}
	p, ok := NewProgression(set, terminal)
	if !ok {
		t.Fatal("NewProgression failed")
	}
	p.Win()
	if _, ok := p.Advance(); ok {
		t.Error("advancing past the last level should end the run")
	}
}

func TestPointVec(t *testing.T) {
	p := Point{X: 3, Y: -4}
	if p.Vec() != (geom.Vec{X: 3, Y: -4}) {
		t.Errorf("Vec = %v", p.Vec())
	}
}
