// Package systems provides the per-tick ECS systems: the player
// landing/shimmy state machine, jump charging, and predator behavior.
package systems

import (
	"fmt"
	"strconv"
	"strings"
)

// JumpDetector reports whether the jump control is currently held. The
// concrete source (scripted schedule, test stub, a future input backend) is
// selected at construction time.
type JumpDetector interface {
	Pressed() bool
}

// NeverPressed is a JumpDetector that never jumps.
type NeverPressed struct{}

// Pressed implements JumpDetector.
func (NeverPressed) Pressed() bool { return false }

// JumpWindow is a half-open tick interval during which the jump control is
// held.
type JumpWindow struct {
	Press   int `yaml:"press"`
	Release int `yaml:"release"`
}

// ScriptedJumps replays a fixed schedule of jump holds, one tick at a time.
type ScriptedJumps struct {
	windows []JumpWindow
	tick    int
}

// NewScriptedJumps creates a detector replaying the given hold windows.
func NewScriptedJumps(windows []JumpWindow) *ScriptedJumps {
	return &ScriptedJumps{windows: windows}
}

// Advance moves the schedule forward one tick.
func (s *ScriptedJumps) Advance() {
	s.tick++
}

// Pressed implements JumpDetector.
func (s *ScriptedJumps) Pressed() bool {
	for _, w := range s.windows {
		if s.tick >= w.Press && s.tick < w.Release {
			return true
		}
	}
	return false
}

// ParseJumpScript parses a schedule of the form "press:release,..." with
// tick numbers, e.g. "30:75,200:260".
func ParseJumpScript(script string) ([]JumpWindow, error) {
	if script == "" {
		return nil, nil
	}
	var windows []JumpWindow
	for _, part := range strings.Split(script, ",") {
		bounds := strings.Split(part, ":")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("jump script entry %q is not press:release", part)
		}
		press, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, fmt.Errorf("jump script entry %q: %w", part, err)
		}
		release, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return nil, fmt.Errorf("jump script entry %q: %w", part, err)
		}
		if release <= press {
			return nil, fmt.Errorf("jump script entry %q releases before pressing", part)
		}
		windows = append(windows, JumpWindow{Press: press, Release: release})
	}
	return windows, nil
}

// JumpHandler turns how long the jump control was held into a jump strength.
// Holding charges the jump; releasing fires it.
type JumpHandler struct {
	detector JumpDetector
	maxHold  float64 // seconds of holding for a full-strength jump

	holding  bool
	held     float64
	meter    float64
	disabled bool
}

// NewJumpHandler creates a handler reading from the given detector.
func NewJumpHandler(detector JumpDetector, maxHold float64) *JumpHandler {
	return &JumpHandler{detector: detector, maxHold: maxHold}
}

// HandleInput advances the charge state by dt. When the player should jump
// it returns the strength in [0, 1], where 1 is a max-strength jump.
func (h *JumpHandler) HandleInput(dt float64) (float64, bool) {
	if h.disabled {
		return 0, false
	}
	pressed := h.detector.Pressed()
	if !h.holding {
		if pressed {
			h.holding = true
			h.held = 0
			h.meter = 0
		}
		return 0, false
	}
	h.held += dt
	strength := h.held / h.maxHold
	if strength > 1 {
		strength = 1
	}
	if pressed {
		// Still holding jump.
		h.meter = strength
		return 0, false
	}
	// Released jump.
	h.holding = false
	h.meter = 0
	return strength, true
}

// Reset discards any charge in progress, for level transitions.
func (h *JumpHandler) Reset() {
	h.holding = false
	h.held = 0
	h.meter = 0
}

// Meter returns the current charge ratio, for telemetry.
func (h *JumpHandler) Meter() float64 {
	return h.meter
}

// Disable prevents future jumps. Used when a level is over; new levels build
// new handlers, so there is no need to re-enable.
func (h *JumpHandler) Disable() {
	h.disabled = true
}
