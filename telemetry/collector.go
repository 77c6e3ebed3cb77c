package telemetry

import "github.com/scroggo/frogjump/geom"

// Collector accumulates events within time windows and produces WindowStats.
// A nil Collector is valid and records nothing, so systems can run without
// telemetry wired up.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32
	tick            int32

	// Event counters for the current window
	landings        int
	cornerLandings  int
	shimmies        int
	jumps           int
	jumpStrengthSum float64
	playerEaten     int
	preyEaten       int
	anomalies       int

	events []Event
}

// NewCollector creates a stats collector. windowDurationSec is how long each
// stats window lasts in simulation seconds; dt is seconds per tick.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// SetTick updates the collector's notion of the current tick.
func (c *Collector) SetTick(tick int32) {
	if c == nil {
		return
	}
	c.tick = tick
}

func (c *Collector) add(e Event) {
	e.Tick = c.tick
	c.events = append(c.events, e)
}

// RecordLanding records the player coming to rest on a surface.
func (c *Collector) RecordLanding(pos, normal geom.Vec, corner bool) {
	if c == nil {
		return
	}
	c.landings++
	if corner {
		c.cornerLandings++
	}
	c.add(Event{
		Type:    EventLanding.String(),
		X:       pos.X,
		Y:       pos.Y,
		NormalX: normal.X,
		NormalY: normal.Y,
		Corner:  corner,
	})
}

// RecordShimmyStart records the start of a shimmy glide.
func (c *Collector) RecordShimmyStart(dest geom.Vec) {
	if c == nil {
		return
	}
	c.shimmies++
	c.add(Event{Type: EventShimmyStart.String(), X: dest.X, Y: dest.Y})
}

// RecordJump records a jump launch with its strength.
func (c *Collector) RecordJump(pos geom.Vec, strength float64) {
	if c == nil {
		return
	}
	c.jumps++
	c.jumpStrengthSum += strength
	c.add(Event{Type: EventJump.String(), X: pos.X, Y: pos.Y, Strength: strength})
}

// RecordPlayerEaten records the player being eaten by a predator.
func (c *Collector) RecordPlayerEaten(pos geom.Vec) {
	if c == nil {
		return
	}
	c.playerEaten++
	c.add(Event{Type: EventPlayerEaten.String(), X: pos.X, Y: pos.Y})
}

// RecordPreyEaten records the player eating prey.
func (c *Collector) RecordPreyEaten(pos geom.Vec, bonus bool) {
	if c == nil {
		return
	}
	c.preyEaten++
	t := EventPreyEaten
	if bonus {
		t = EventBonusFound
	}
	c.add(Event{Type: t.String(), X: pos.X, Y: pos.Y})
}

// RecordGeometryAnomaly records a recoverable geometry failure, such as an
// uncorrectable normal or a corner with no viable landing side.
func (c *Collector) RecordGeometryAnomaly(pos geom.Vec, detail string) {
	if c == nil {
		return
	}
	c.anomalies++
	c.add(Event{Type: EventGeometryAnomaly.String(), X: pos.X, Y: pos.Y, Detail: detail})
}

// ShouldFlush reports whether enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	if c == nil {
		return false
	}
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces WindowStats, drains buffered events, and resets counters
// for the next window.
func (c *Collector) Flush(currentTick int32) (WindowStats, []Event) {
	var meanStrength float64
	if c.jumps > 0 {
		meanStrength = c.jumpStrengthSum / float64(c.jumps)
	}
	stats := WindowStats{
		WindowStartTick:  c.windowStartTick,
		WindowEndTick:    currentTick,
		SimTimeSec:       float64(currentTick) * c.dt,
		Landings:         c.landings,
		CornerLandings:   c.cornerLandings,
		Shimmies:         c.shimmies,
		Jumps:            c.jumps,
		MeanJumpStrength: meanStrength,
		PlayerEaten:      c.playerEaten,
		PreyEaten:        c.preyEaten,
		Anomalies:        c.anomalies,
	}
	events := c.events

	c.windowStartTick = currentTick
	c.landings = 0
	c.cornerLandings = 0
	c.shimmies = 0
	c.jumps = 0
	c.jumpStrengthSum = 0
	c.playerEaten = 0
	c.preyEaten = 0
	c.anomalies = 0
	c.events = nil

	return stats, events
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
