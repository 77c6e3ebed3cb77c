// Package level loads playable levels from YAML definitions: a tile legend,
// an ASCII terrain grid, actor placements, and progression links.
package level

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scroggo/frogjump/geom"
	"github.com/scroggo/frogjump/tilemap"
)

//go:embed levels.yaml
var defaultLevels []byte

// Point is a YAML-friendly 2D position.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) Vec() geom.Vec {
	return geom.Vec{X: p.X, Y: p.Y}
}

// FlyPlacement positions a fly and configures its patrol.
type FlyPlacement struct {
	Pos          Point   `yaml:"pos"`
	SelfDirected bool    `yaml:"self_directed"`
	Speed        float64 `yaml:"speed"`
	Bonus        bool    `yaml:"bonus"`
}

// DragonFlyPlacement positions a stationary dragonfly.
type DragonFlyPlacement struct {
	Pos   Point `yaml:"pos"`
	Bonus bool  `yaml:"bonus"`
}

// AlligatorPlacement positions an alligator and sizes its radii. Zero radii
// fall back to the configured defaults.
type AlligatorPlacement struct {
	Pos         Point   `yaml:"pos"`
	FocusRadius float64 `yaml:"focus_radius"`
	EatRadius   float64 `yaml:"eat_radius"`
}

// Definition is one level as authored in YAML.
type Definition struct {
	Name     string `yaml:"name"`
	TileSize float64
	Origin   Point `yaml:"origin"`

	// Legend maps each rune used in Rows to a tile shape name.
	Legend map[string]string `yaml:"legend"`
	Rows   []string          `yaml:"rows"`

	Player      Point                `yaml:"player"`
	Flies       []FlyPlacement       `yaml:"flies"`
	DragonFlies []DragonFlyPlacement `yaml:"dragonflies"`
	Alligators  []AlligatorPlacement `yaml:"alligators"`

	// Next is the level that follows on a win; Bonus the level a bonus
	// catch unlocks. Either may be empty.
	Next  string `yaml:"next"`
	Bonus string `yaml:"bonus"`
}

// Set holds every loaded level by name.
type Set struct {
	First  string
	levels map[string]*Definition
}

// Load reads a level set from a YAML file, or the embedded defaults when
// path is empty.
func Load(path string) (*Set, error) {
	data := defaultLevels
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading levels: %w", err)
		}
	}
	var file struct {
		TileSize float64       `yaml:"tile_size"`
		First    string        `yaml:"first"`
		Levels   []*Definition `yaml:"levels"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing levels: %w", err)
	}
	if file.TileSize <= 0 {
		return nil, fmt.Errorf("tile_size must be positive, got %v", file.TileSize)
	}
	set := &Set{First: file.First, levels: map[string]*Definition{}}
	for _, def := range file.Levels {
		if def.Name == "" {
			return nil, fmt.Errorf("level without a name")
		}
		if _, ok := set.levels[def.Name]; ok {
			return nil, fmt.Errorf("duplicate level %q", def.Name)
		}
		def.TileSize = file.TileSize
		set.levels[def.Name] = def
	}
	if set.First == "" {
		return nil, fmt.Errorf("no first level named")
	}
	for _, def := range file.Levels {
		for _, next := range []string{def.Next, def.Bonus} {
			if next == "" {
				continue
			}
			if _, ok := set.levels[next]; !ok {
				return nil, fmt.Errorf("level %q links to unknown level %q", def.Name, next)
			}
		}
	}
	if _, ok := set.levels[set.First]; !ok {
		return nil, fmt.Errorf("first level %q not defined", set.First)
	}
	return set, nil
}

// Get returns the named level.
func (s *Set) Get(name string) (*Definition, bool) {
	def, ok := s.levels[name]
	return def, ok
}

// BuildLayer turns the ASCII rows into a collision layer.
func (d *Definition) BuildLayer() (*tilemap.Layer, error) {
	layer := tilemap.NewLayer(d.TileSize)
	layer.Origin = d.Origin.Vec()
	for y, row := range d.Rows {
		for x, r := range row {
			if r == ' ' || r == '.' {
				continue
			}
			shape, ok := d.Legend[string(r)]
			if !ok {
				return nil, fmt.Errorf("level %q row %d: rune %q not in legend", d.Name, y, r)
			}
			polygon, err := tileShape(shape, d.TileSize)
			if err != nil {
				return nil, fmt.Errorf("level %q: %w", d.Name, err)
			}
			layer.SetCell(tilemap.Cell{X: x, Y: y}, polygon)
		}
	}
	return layer, nil
}

// tileShape returns the tile-local collision polygon for a legend shape
// name. Coordinates are centered on the tile, Y down.
func tileShape(name string, size float64) (geom.Polygon, error) {
	h := size / 2
	switch name {
	case "square":
		return geom.Polygon{
			{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h},
		}, nil
	case "ramp-right":
		// Rises toward the right edge.
		return geom.Polygon{
			{X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h},
		}, nil
	case "ramp-left":
		return geom.Polygon{
			{X: -h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h},
		}, nil
	case "ceiling-right":
		// Hangs from the top, thick on the right.
		return geom.Polygon{
			{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h},
		}, nil
	case "ceiling-left":
		return geom.Polygon{
			{X: -h, Y: -h}, {X: h, Y: -h}, {X: -h, Y: h},
		}, nil
	case "half-floor":
		// The bottom half of the tile.
		return geom.Polygon{
			{X: -h, Y: 0}, {X: h, Y: 0}, {X: h, Y: h}, {X: -h, Y: h},
		}, nil
	default:
		return nil, fmt.Errorf("unknown tile shape %q", name)
	}
}
