// Package tilemap provides the tile-grid collision layer the player lands
// on: a grid of square tiles, each optionally carrying collision polygons,
// queried by cell coordinate.
package tilemap

import (
	"math"

	"github.com/scroggo/frogjump/geom"
)

// Cell is an integer tile-grid coordinate.
type Cell struct {
	X, Y int
}

// Add returns c offset by d.
func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Y: c.Y + d.Y}
}

// Grid neighbor offsets. Y grows downward.
var (
	Left  = Cell{X: -1, Y: 0}
	Right = Cell{X: 1, Y: 0}
	Up    = Cell{X: 0, Y: -1}
	Down  = Cell{X: 0, Y: 1}
)

// TileData holds one tile's collision polygons in tile-local coordinates,
// with the origin at the tile center.
type TileData struct {
	Polygons []geom.Polygon
}

// Layer is a grid of square tiles. Global coordinates are the layer's local
// coordinates offset by Origin.
type Layer struct {
	tileSize float64
	Origin   geom.Vec
	cells    map[Cell]*TileData
}

// NewLayer creates an empty layer with the given square tile size.
func NewLayer(tileSize float64) *Layer {
	return &Layer{
		tileSize: tileSize,
		cells:    make(map[Cell]*TileData),
	}
}

// TileSize returns the edge length of one tile.
func (l *Layer) TileSize() float64 {
	return l.tileSize
}

// SetCell assigns collision polygons to a cell. Polygons are tile-local,
// centered on the tile.
func (l *Layer) SetCell(c Cell, polygons ...geom.Polygon) {
	l.cells[c] = &TileData{Polygons: polygons}
}

// TileDataAt returns the tile data for a cell, or nil for an empty cell.
func (l *Layer) TileDataAt(c Cell) *TileData {
	return l.cells[c]
}

// ToLocal converts a global position to layer-local coordinates.
func (l *Layer) ToLocal(global geom.Vec) geom.Vec {
	return global.Sub(l.Origin)
}

// ToGlobal converts a layer-local position to global coordinates.
func (l *Layer) ToGlobal(local geom.Vec) geom.Vec {
	return local.Add(l.Origin)
}

// LocalToMap returns the cell containing a layer-local position.
func (l *Layer) LocalToMap(local geom.Vec) Cell {
	return Cell{
		X: int(math.Floor(local.X / l.tileSize)),
		Y: int(math.Floor(local.Y / l.tileSize)),
	}
}

// MapToLocal returns the layer-local center of a cell.
func (l *Layer) MapToLocal(c Cell) geom.Vec {
	return geom.Vec{
		X: (float64(c.X) + 0.5) * l.tileSize,
		Y: (float64(c.Y) + 0.5) * l.tileSize,
	}
}

// WorldPolygons returns a cell's collision polygons converted to global
// coordinates.
func (l *Layer) WorldPolygons(c Cell) []geom.Polygon {
	data := l.cells[c]
	if data == nil {
		return nil
	}
	center := l.MapToLocal(c)
	out := make([]geom.Polygon, 0, len(data.Polygons))
	for _, poly := range data.Polygons {
		world := make(geom.Polygon, len(poly))
		for i, p := range poly {
			world[i] = l.ToGlobal(center.Add(p))
		}
		out = append(out, world)
	}
	return out
}

// CellsInBox returns the cells whose tiles intersect the global-coordinate
// box [min, max].
func (l *Layer) CellsInBox(min, max geom.Vec) []Cell {
	lo := l.LocalToMap(l.ToLocal(min))
	hi := l.LocalToMap(l.ToLocal(max))
	var out []Cell
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			c := Cell{X: x, Y: y}
			if l.cells[c] != nil {
				out = append(out, c)
			}
		}
	}
	return out
}
