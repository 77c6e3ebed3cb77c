// Package components defines ECS components for the simulation.
package components

import "github.com/scroggo/frogjump/geom"

// Position is an entity's parent-relative position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() geom.Vec {
	return geom.Vec{X: p.X, Y: p.Y}
}

// Set overwrites the position from a vector.
func (p *Position) Set(v geom.Vec) {
	p.X = v.X
	p.Y = v.Y
}

// Rotation is an entity's rotation in radians. Zero is upright; a player
// resting on a surface is rotated so their "up" aligns with its normal.
type Rotation struct {
	Angle float64
}
