// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// World generation modes.
const (
	ModeHeightfield = "heightfield"
	ModeVoxel       = "voxel"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Noise     NoiseConfig     `yaml:"noise"`
	Voxel     VoxelConfig     `yaml:"voxel"`
	Player    PlayerConfig    `yaml:"player"`
	Movement  MovementConfig  `yaml:"movement"`
	Camera    CameraConfig    `yaml:"camera"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig selects the terrain strategy and sizes the height field.
type WorldConfig struct {
	Mode        string  `yaml:"mode"`         // heightfield | voxel
	Width       int     `yaml:"width"`        // grid cells along X
	Depth       int     `yaml:"depth"`        // grid cells along Z
	NoiseScale  float64 `yaml:"noise_scale"`  // grid units -> noise units
	Seed        int64   `yaml:"seed"`         // permutation seed
	HeightScale float64 `yaml:"height_scale"` // normalized height -> world units
}

// NoiseConfig holds fBm parameters.
type NoiseConfig struct {
	Octaves    int     `yaml:"octaves"`
	Lacunarity float64 `yaml:"lacunarity"` // frequency multiplier per octave
	Gain       float64 `yaml:"gain"`       // amplitude multiplier per octave
}

// VoxelConfig holds block-world generation parameters.
type VoxelConfig struct {
	Radius    int     `yaml:"radius"`     // half extent of the generated square, in blocks
	MaxHeight float64 `yaml:"max_height"` // column height at the center
	Falloff   float64 `yaml:"falloff"`    // height lost per block of distance
	CenterX   int     `yaml:"center_x"`
	CenterZ   int     `yaml:"center_z"`
}

// PlayerConfig holds the player volume and spawn point.
type PlayerConfig struct {
	Radius      float64 `yaml:"radius"`
	Height      float64 `yaml:"height"`
	EyeHeight   float64 `yaml:"eye_height"`
	SpawnX      float64 `yaml:"spawn_x"`
	SpawnZ      float64 `yaml:"spawn_z"`
	SpawnHeight float64 `yaml:"spawn_height"`
}

// MovementConfig holds controller tuning.
type MovementConfig struct {
	MoveSpeed      float64 `yaml:"move_speed"`
	Accel          float64 `yaml:"accel"`    // time constant (s) toward target velocity
	Friction       float64 `yaml:"friction"` // time constant (s) toward rest
	Gravity        float64 `yaml:"gravity"`  // magnitude, applied downward
	JumpSpeed      float64 `yaml:"jump_speed"`
	SnapTolerance  float64 `yaml:"snap_tolerance"`
	IntentDeadzone float64 `yaml:"intent_deadzone"`
}

// CameraConfig holds look settings.
type CameraConfig struct {
	FOV         float64 `yaml:"fov"`
	Sensitivity float64 `yaml:"sensitivity"` // radians per pixel of mouse travel
	PitchLimit  float64 `yaml:"pitch_limit"`
}

// PhysicsConfig holds tick settings.
type PhysicsConfig struct {
	DT    float64 `yaml:"dt"`
	MaxDT float64 `yaml:"max_dt"` // frame deltas are clamped to this in graphical mode
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"`
	LogEvery   int `yaml:"log_every"` // ticks between headless log lines (0 = never)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	HalfWidth float64 // World.Width / 2
	HalfDepth float64 // World.Depth / 2
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the generators and controllers cannot run with.
func (c *Config) Validate() error {
	switch c.World.Mode {
	case ModeHeightfield, ModeVoxel:
	default:
		return fmt.Errorf("%w: world.mode %q (want %q or %q)", ErrInvalid, c.World.Mode, ModeHeightfield, ModeVoxel)
	}
	if c.World.Width <= 0 || c.World.Depth <= 0 {
		return fmt.Errorf("%w: world dimensions %dx%d must be positive", ErrInvalid, c.World.Width, c.World.Depth)
	}
	if !positive(c.World.NoiseScale) {
		return fmt.Errorf("%w: world.noise_scale %v must be positive", ErrInvalid, c.World.NoiseScale)
	}
	if !positive(c.World.HeightScale) {
		return fmt.Errorf("%w: world.height_scale %v must be positive", ErrInvalid, c.World.HeightScale)
	}
	if c.Noise.Octaves < 0 {
		return fmt.Errorf("%w: noise.octaves %d is negative", ErrInvalid, c.Noise.Octaves)
	}
	if !positive(c.Noise.Lacunarity) || !positive(c.Noise.Gain) {
		return fmt.Errorf("%w: noise lacunarity/gain must be positive", ErrInvalid)
	}
	if c.Voxel.Radius <= 0 || c.Voxel.MaxHeight < 0 || c.Voxel.Falloff < 0 {
		return fmt.Errorf("%w: voxel radius must be positive and heights non-negative", ErrInvalid)
	}
	if !positive(c.Player.Radius) || !positive(c.Player.Height) || !positive(c.Player.EyeHeight) {
		return fmt.Errorf("%w: player radius/height/eye_height must be positive", ErrInvalid)
	}
	m := c.Movement
	if m.MoveSpeed < 0 || m.Accel < 0 || m.Friction < 0 || m.Gravity < 0 || m.JumpSpeed < 0 || m.SnapTolerance < 0 {
		return fmt.Errorf("%w: movement constants must be non-negative", ErrInvalid)
	}
	if !positive(c.Physics.DT) {
		return fmt.Errorf("%w: physics.dt %v must be positive", ErrInvalid, c.Physics.DT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.HalfWidth = float64(c.World.Width) / 2
	c.Derived.HalfDepth = float64(c.World.Depth) / 2
	if c.Physics.MaxDT <= 0 {
		c.Physics.MaxDT = c.Physics.DT * 6
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

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
