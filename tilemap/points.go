package tilemap

import (
	"log/slog"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/scroggo/frogjump/geom"
)

// alignEps matches authored tile-polygon coordinates against tile
// boundaries. Tile data is produced by exact grid arithmetic, so only float
// error needs to be absorbed.
const alignEps = 1e-6

// contactEps matches a numerically computed collision position against a
// tile boundary.
const contactEps = 0.01

// ColliderPoints resolves the collision polygon surrounding a collision
// position, in global coordinates: the containing tile's polygon, extended
// across tile seams into neighboring tiles where the collision shape
// continues, then smoothed into the fewest possible edges. It reports false
// when no polygon covers the position; the caller falls back to the raw
// engine normal.
func ColliderPoints(layer *Layer, collisionPosition geom.Vec) (geom.Polygon, bool) {
	local := layer.ToLocal(collisionPosition)
	mapCoord := layer.LocalToMap(local)
	points, ok := colliderPointsFromCell(layer, mapCoord, &local)
	if !ok {
		return nil, false
	}
	return points.Smooth(), true
}

// colliderPointsFromCell fetches one cell's polygon and merges in neighbor
// polygons across shared tile boundaries. localCollision is only set on the
// outermost call; recursive calls pass nil so extension does not recurse
// further.
func colliderPointsFromCell(layer *Layer, mapCoord Cell, localCollision *geom.Vec) (geom.Polygon, bool) {
	localTileCenter := layer.MapToLocal(mapCoord)
	halfTile := layer.TileSize() / 2

	var pointsSoFar geom.Polygon
	directionsToAdd := make(map[Cell]bool)

	if tileData := layer.TileDataAt(mapCoord); tileData != nil && len(tileData.Polygons) >= 1 {
		points := tileData.Polygons[0]
		if n := len(tileData.Polygons); n > 1 {
			slog.Error("tile defines multiple collision polygons; only the first is used",
				"cell", mapCoord, "polygons", n)
		}

		if localCollision != nil {
			// Edges that lie flush on a tile boundary indicate the collision
			// shape may extend onto the next tile.
			for i := range points {
				a := points[i]
				b := points[points.NextIndex(i)]
				if scalar.EqualWithinAbs(a.X, b.X, alignEps) {
					if scalar.EqualWithinAbs(a.X, halfTile, alignEps) {
						directionsToAdd[Right] = true
					} else if scalar.EqualWithinAbs(a.X, -halfTile, alignEps) {
						directionsToAdd[Left] = true
					}
				}
				if scalar.EqualWithinAbs(a.Y, b.Y, alignEps) {
					if scalar.EqualWithinAbs(a.Y, halfTile, alignEps) {
						directionsToAdd[Down] = true
					} else if scalar.EqualWithinAbs(a.Y, -halfTile, alignEps) {
						directionsToAdd[Up] = true
					}
				}
			}
		}

		pointsSoFar = make(geom.Polygon, len(points))
		for i, p := range points {
			pointsSoFar[i] = layer.ToGlobal(localTileCenter.Add(p))
		}
	}

	if localCollision != nil {
		// A collision directly on the edge of the tile catches cases the
		// edge scan misses: if this tile is empty and the collision occurred
		// on its boundary, the polygon lives in the adjacent tile.
		// Note: this assumes square tiles.
		switch {
		case scalar.EqualWithinAbs(localCollision.X, localTileCenter.X-halfTile, contactEps):
			directionsToAdd[Left] = true
		case scalar.EqualWithinAbs(localCollision.Y, localTileCenter.Y-halfTile, contactEps):
			directionsToAdd[Up] = true
		case scalar.EqualWithinAbs(localCollision.X, localTileCenter.X+halfTile, contactEps):
			// Rarely reached in practice; logged loudly to collect repro
			// cases.
			slog.Error("collision on right edge of tile", "cell", mapCoord)
			directionsToAdd[Right] = true
		case scalar.EqualWithinAbs(localCollision.Y, localTileCenter.Y+halfTile, contactEps):
			slog.Error("collision on bottom edge of tile", "cell", mapCoord)
			directionsToAdd[Down] = true
		}

		for _, offset := range []Cell{Left, Right, Up, Down} {
			if !directionsToAdd[offset] {
				continue
			}
			nextPoints, ok := colliderPointsFromCell(layer, mapCoord.Add(offset), nil)
			if !ok {
				continue
			}
			if pointsSoFar == nil {
				// Only reachable when the collision is directly on the edge
				// of an empty tile. Tiles adjacent to the empty tile are not
				// adjacent to the polygon, so stop here.
				return nextPoints, true
			}
			merged := geom.MergePolygons(nextPoints, pointsSoFar)
			if len(merged) == 1 {
				pointsSoFar = merged[0]
			} else {
				// The next tile over likely had a disconnected polygon.
				// Ignore it.
				slog.Debug("polygon merge produced disjoint results",
					"cell", mapCoord, "offset", offset, "count", len(merged))
			}
		}
	}
	return pointsSoFar, pointsSoFar != nil
}
