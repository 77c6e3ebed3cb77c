package telemetry

import "log/slog"

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Landings         int     `csv:"landings"`
	CornerLandings   int     `csv:"corner_landings"`
	Shimmies         int     `csv:"shimmies"`
	Jumps            int     `csv:"jumps"`
	MeanJumpStrength float64 `csv:"mean_jump_strength"`
	PlayerEaten      int     `csv:"player_eaten"`
	PreyEaten        int     `csv:"prey_eaten"`
	Anomalies        int     `csv:"anomalies"`
}

// Log writes the window stats via slog.
func (s WindowStats) Log() {
	slog.Info("window stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"landings", s.Landings,
		"corner_landings", s.CornerLandings,
		"shimmies", s.Shimmies,
		"jumps", s.Jumps,
		"mean_jump_strength", s.MeanJumpStrength,
		"player_eaten", s.PlayerEaten,
		"prey_eaten", s.PreyEaten,
		"anomalies", s.Anomalies,
	)
}
