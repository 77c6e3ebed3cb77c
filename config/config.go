// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all tunable game parameters.
type Config struct {
	Physics   PhysicsConfig   `yaml:"physics"`
	Player    PlayerConfig    `yaml:"player"`
	Predators PredatorsConfig `yaml:"predators"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PhysicsConfig holds simulation physics parameters.
type PhysicsConfig struct {
	DT               float64 `yaml:"dt"`                // seconds per physics tick
	FallAcceleration float64 `yaml:"fall_acceleration"` // gravity along +Y per second
}

// PlayerConfig holds the frog's movement and collision parameters.
type PlayerConfig struct {
	Width           float64 `yaml:"width"`             // collision box width
	Height          float64 `yaml:"height"`            // collision box height
	SafeMargin      float64 `yaml:"safe_margin"`       // stand-off padding above a surface
	MaxJumpStrength float64 `yaml:"max_jump_strength"` // launch speed at a full-strength jump
	ShimmySpeed     float64 `yaml:"shimmy_speed"`      // glide speed while shimmying
	JumpMaxHold     float64 `yaml:"jump_max_hold"`     // seconds of holding for a max jump
}

// PredatorsConfig holds predator behavior parameters.
type PredatorsConfig struct {
	FlySpeed       float64 `yaml:"fly_speed"`        // horizontal hover speed
	FlyRayLength   float64 `yaml:"fly_ray_length"`   // downward surface-sensing distance
	FlyLookAhead   float64 `yaml:"fly_look_ahead"`   // forward obstacle-sensing distance
	FlyEatRadius   float64 `yaml:"fly_eat_radius"`   // contact distance for being eaten
	GatorFocus     float64 `yaml:"gator_focus"`      // alligator focus-area radius
	GatorEatRadius float64 `yaml:"gator_eat_radius"` // alligator eat-area radius
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`  // ticks averaged by the perf collector
	StatsWindow float64 `yaml:"stats_window"` // seconds per telemetry window
}

// LoggingConfig holds log toggles.
type LoggingConfig struct {
	Collisions bool `yaml:"collisions"` // verbose per-collision debug log
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	HalfWidth   float64 // Player.Width / 2
	HalfHeight  float64 // Player.Height / 2
	TicksPerSec float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present
		// in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.HalfWidth = c.Player.Width / 2
	c.Derived.HalfHeight = c.Player.Height / 2
	if c.Physics.DT > 0 {
		c.Derived.TicksPerSec = 1 / c.Physics.DT
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
