// Package telemetry provides landing-event tracking, per-tick performance
// timing, and structured CSV output for headless runs.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventLanding EventType = iota
	EventShimmyStart
	EventJump
	EventPlayerEaten
	EventPreyEaten
	EventBonusFound
	EventGeometryAnomaly
)

func (t EventType) String() string {
	switch t {
	case EventLanding:
		return "landing"
	case EventShimmyStart:
		return "shimmy_start"
	case EventJump:
		return "jump"
	case EventPlayerEaten:
		return "player_eaten"
	case EventPreyEaten:
		return "prey_eaten"
	case EventBonusFound:
		return "bonus_found"
	case EventGeometryAnomaly:
		return "geometry_anomaly"
	}
	return "unknown"
}

// Event is a single telemetry event, written as one row of events.csv.
type Event struct {
	Tick int32  `csv:"tick"`
	Type string `csv:"type"`

	// Position of the event, global coordinates.
	X float64 `csv:"x"`
	Y float64 `csv:"y"`

	// Optional fields depending on event type.
	NormalX  float64 `csv:"normal_x"` // landing
	NormalY  float64 `csv:"normal_y"` // landing
	Corner   bool    `csv:"corner"`   // landing on an exact polygon corner
	Strength float64 `csv:"strength"` // jump strength in [0, 1]
	Detail   string  `csv:"detail"`   // anomaly description
}
