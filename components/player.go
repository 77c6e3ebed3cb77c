package components

import "github.com/scroggo/frogjump/geom"

// Direction is the way an actor faces. It affects jump angle and sprite
// mirroring.
type Direction uint8

const (
	// Platformers traditionally play to the right.
	Right Direction = iota
	Left
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Right {
		return Left
	}
	return Right
}

func (d Direction) String() string {
	if d == Right {
		return "right"
	}
	return "left"
}

// Player holds the frog's landing and movement state. OnCeiling is only
// meaningful while OnSurface is true. While HasShimmy is set, the player
// ignores gravity and collision and glides linearly toward ShimmyDest.
type Player struct {
	TargetVelocity geom.Vec
	Dir            Direction
	OnSurface      bool
	OnCeiling      bool
	HasShimmy      bool
	ShimmyDest     geom.Vec

	// Sprite-facing state; there is no renderer, but animation transitions
	// are part of the landing behavior and are observable in tests.
	Anim  string
	FlipH bool
}

// PlayerInfo is the respawn snapshot recorded when a level starts.
type PlayerInfo struct {
	Pos geom.Vec
	Vel geom.Vec
	Dir Direction
}
