package components

import "github.com/mlange-42/ark/ecs"

// FlyState drives the fly's hover behavior.
type FlyState uint8

const (
	// FlyCalibrating means the fly is looking for a surface to hover over.
	FlyCalibrating FlyState = iota
	// FlyHovering means the fly is tracking a surface below it.
	FlyHovering
)

// Fly is a self-directed prey insect that hovers above surfaces and turns
// around at edges and obstacles.
type Fly struct {
	SelfDirected bool
	State        FlyState
	Dir          Direction
	Speed        float64
	Bonus        bool // eating a bonus fly triggers the bonus level
}

// DragonFly is stationary prey eaten on contact.
type DragonFly struct {
	Bonus bool
}

// Alligator is a predator that watches for the player inside its focus area
// and eats them inside its eat area. FocusedPlayer is a generation-checked
// entity handle; it can go stale when the player is despawned and must be
// validated against the world before use.
type Alligator struct {
	FocusRadius   float64
	EatRadius     float64
	FocusedPlayer ecs.Entity
	HasFocus      bool
	ScaleX        float64 // -1 when mirrored to face the player
	Anim          string
}
