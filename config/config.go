// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Swing     SwingConfig     `yaml:"swing"`
	Tower     TowerConfig     `yaml:"tower"`
	Collision CollisionConfig `yaml:"collision"`
	Wobble    WobbleConfig    `yaml:"wobble"`
	Shake     ShakeConfig     `yaml:"shake"`
	Scroll    ScrollConfig    `yaml:"scroll"`
	Collapse  CollapseConfig  `yaml:"collapse"`
	Sensor    SensorConfig    `yaml:"sensor"`
	Vision    VisionConfig    `yaml:"vision"`
	Control   ControlConfig   `yaml:"control"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings. Width and Height are the logical
// scene size; the window scales the scene to fit.
type ScreenConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TargetFPS  int    `yaml:"target_fps"`
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// PhysicsConfig holds the falling-block parameters.
type PhysicsConfig struct {
	Gravity float64 `yaml:"gravity"` // Added to fall speed every tick
	FloorY  float64 `yaml:"floor_y"` // Block y at which a drop reaches the ground
}

// SwingConfig holds the pendulum parameters.
type SwingConfig struct {
	PivotX       float64 `yaml:"pivot_x"`       // Block x when the angle is zero
	PivotY       float64 `yaml:"pivot_y"`       // Block y offset of the rope origin
	AnchorX      float64 `yaml:"anchor_x"`      // Rope anchor drawn at the top of the screen
	AnchorY      float64 `yaml:"anchor_y"`
	RopeLength   float64 `yaml:"rope_length"`
	InitialAngle float64 `yaml:"initial_angle"` // Radians
	Force        float64 `yaml:"force"`         // Restoring force magnitude of the first block
	ForceGrowth  float64 `yaml:"force_growth"`  // Force multiplier applied on every respawn
	RespawnX     float64 `yaml:"respawn_x"`
	RespawnY     float64 `yaml:"respawn_y"`
}

// TowerConfig holds block and window sizes.
type TowerConfig struct {
	BlockSize         float64 `yaml:"block_size"`
	WindowAfterBlocks int     `yaml:"window_after_blocks"` // Switch to fixed-window addressing past this size
	OnscreenWindow    int     `yaml:"onscreen_window"`     // Blocks kept on screen after a scroll
	WindowResetBlocks int     `yaml:"window_reset_blocks"` // Onscreen count that snaps back to the window
}

// CollisionConfig holds landing tolerances.
type CollisionConfig struct {
	FitTolerance      float64 `yaml:"fit_tolerance"`      // Horizontal distance that still lands on the top block
	GoldenTolerance   float64 `yaml:"golden_tolerance"`   // Horizontal distance for a golden landing
	VerticalTolerance float64 `yaml:"vertical_tolerance"` // Max gap between tower top and block
	CollapseTolerance float64 `yaml:"collapse_tolerance"` // Max offset from the block underneath before toppling
}

// WobbleConfig holds the lateral oscillation parameters.
type WobbleConfig struct {
	Width     float64 `yaml:"width"`      // |width| that starts the wobble
	MinBlocks int     `yaml:"min_blocks"` // Tower size required for width-triggered wobble
	MaxBlocks int     `yaml:"max_blocks"` // Tower size that always wobbles
	Bound     float64 `yaml:"bound"`
	Speed     float64 `yaml:"speed"`
}

// ShakeConfig holds the instability jitter bands.
type ShakeConfig struct {
	Bands            []float64 `yaml:"bands"`              // Ascending |width| thresholds
	Jitter           []float64 `yaml:"jitter"`             // Pixel range per band, len(bands)+1 entries
	HeightBandBlocks int       `yaml:"height_band_blocks"` // Blocks per height band
	HeightGain       float64   `yaml:"height_gain"`        // Extra multiplier per height band
}

// ScrollConfig holds the tower scroll animation parameters.
type ScrollConfig struct {
	TriggerBlocks int     `yaml:"trigger_blocks"`
	TargetY       float64 `yaml:"target_y"`
	Speed         float64 `yaml:"speed"`
	SettledHeight float64 `yaml:"settled_height"`
}

// CollapseConfig holds the tower and block fall animation parameters.
type CollapseConfig struct {
	Width       float64 `yaml:"width"` // |width| past which the tower falls
	FallSpeed   float64 `yaml:"fall_speed"`
	Drift       float64 `yaml:"drift"`
	ToppleSpeed float64 `yaml:"topple_speed"`
	ToppleDrift float64 `yaml:"topple_drift"`
	ToppleSpin  float64 `yaml:"topple_spin"` // Degrees per tick
}

// SensorConfig holds camera worker and blink detection parameters.
type SensorConfig struct {
	Enabled              bool          `yaml:"enabled"`
	Device               int           `yaml:"device"`
	EARThreshold         float64       `yaml:"ear_threshold"`
	MinConsecutiveFrames int           `yaml:"min_consecutive_frames"`
	BlinkQueue           int           `yaml:"blink_queue"`
	FrameWidth           int           `yaml:"frame_width"` // Resize captured frames to this width (0 = keep)
	NoseSmoothing        float64       `yaml:"nose_smoothing"`
	CaptureRetryDelay    time.Duration `yaml:"capture_retry_delay"`
	StopTimeout          time.Duration `yaml:"stop_timeout"`
}

// VisionConfig holds the cascade vision parameters.
type VisionConfig struct {
	FaceCascade  string  `yaml:"face_cascade"`
	EyeCascade   string  `yaml:"eye_cascade"`
	MinEyeArea   float64 `yaml:"min_eye_area"`   // Smallest dark contour treated as an eye opening
	ClosedEyeEAR float64 `yaml:"closed_eye_ear"` // EAR reported for an eye the cascade could not find
}

// ControlConfig holds input mode parameters.
type ControlConfig struct {
	Mode        string        `yaml:"mode"` // keyboard, blink or nose
	NoseTrigger float64       `yaml:"nose_trigger"`
	NoseRearm   float64       `yaml:"nose_rearm"`
	PromptBlink time.Duration `yaml:"prompt_blink"`
}

// AudioConfig holds sound cue parameters.
type AudioConfig struct {
	Enabled    bool          `yaml:"enabled"`
	SampleRate int           `yaml:"sample_rate"`
	Buffer     time.Duration `yaml:"buffer"`
	Volume     float64       `yaml:"volume"` // 0 (silent) to 1 (full)
	AssetDir   string        `yaml:"asset_dir"`
}

// TelemetryConfig holds diagnostics output parameters.
type TelemetryConfig struct {
	WindowSec  float64 `yaml:"window_sec"`
	PerfWindow int     `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32           float32       // Screen.Width as float32
	ScreenH32           float32       // Screen.Height as float32
	ScreenHeight        float64       // Screen.Height as float64
	ScrollTriggerHeight float64       // Tower height that starts a scroll
	FrameInterval       time.Duration // Duration of one tick at TargetFPS
	WindowTicks         int           // Telemetry window in ticks
	PromptBlinkTicks    int           // Game-over prompt toggle period in ticks
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

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// and validates the result. If path is empty, only embedded defaults are used.
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every out-of-range option at once.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	atLeast := func(name string, v, min int) {
		if v < min {
			errs = append(errs, fmt.Errorf("%s must be at least %d, got %d", name, min, v))
		}
	}

	atLeast("screen.width", c.Screen.Width, 1)
	atLeast("screen.height", c.Screen.Height, 1)
	atLeast("screen.target_fps", c.Screen.TargetFPS, 1)

	positive("physics.gravity", c.Physics.Gravity)
	positive("physics.floor_y", c.Physics.FloorY)

	positive("swing.rope_length", c.Swing.RopeLength)
	positive("swing.force", c.Swing.Force)
	if c.Swing.ForceGrowth < 1 {
		errs = append(errs, fmt.Errorf("swing.force_growth must be at least 1, got %v", c.Swing.ForceGrowth))
	}

	positive("tower.block_size", c.Tower.BlockSize)
	atLeast("tower.window_after_blocks", c.Tower.WindowAfterBlocks, 1)
	atLeast("tower.onscreen_window", c.Tower.OnscreenWindow, 1)
	if c.Tower.WindowResetBlocks <= c.Tower.OnscreenWindow {
		errs = append(errs, fmt.Errorf("tower.window_reset_blocks (%d) must exceed tower.onscreen_window (%d)",
			c.Tower.WindowResetBlocks, c.Tower.OnscreenWindow))
	}

	positive("collision.fit_tolerance", c.Collision.FitTolerance)
	positive("collision.golden_tolerance", c.Collision.GoldenTolerance)
	positive("collision.vertical_tolerance", c.Collision.VerticalTolerance)
	positive("collision.collapse_tolerance", c.Collision.CollapseTolerance)
	if c.Collision.GoldenTolerance >= c.Collision.FitTolerance {
		errs = append(errs, fmt.Errorf("collision.golden_tolerance (%v) must be below collision.fit_tolerance (%v)",
			c.Collision.GoldenTolerance, c.Collision.FitTolerance))
	}

	positive("wobble.bound", c.Wobble.Bound)
	positive("wobble.speed", c.Wobble.Speed)

	if len(c.Shake.Bands) == 0 {
		errs = append(errs, errors.New("shake.bands must not be empty"))
	}
	for i := 1; i < len(c.Shake.Bands); i++ {
		if c.Shake.Bands[i] <= c.Shake.Bands[i-1] {
			errs = append(errs, fmt.Errorf("shake.bands must be strictly ascending at index %d", i))
		}
	}
	if len(c.Shake.Jitter) != len(c.Shake.Bands)+1 {
		errs = append(errs, fmt.Errorf("shake.jitter needs %d entries (one per band plus calm), got %d",
			len(c.Shake.Bands)+1, len(c.Shake.Jitter)))
	}
	atLeast("shake.height_band_blocks", c.Shake.HeightBandBlocks, 1)

	atLeast("scroll.trigger_blocks", c.Scroll.TriggerBlocks, 1)
	positive("scroll.speed", c.Scroll.Speed)

	positive("collapse.width", c.Collapse.Width)
	positive("collapse.fall_speed", c.Collapse.FallSpeed)
	positive("collapse.topple_speed", c.Collapse.ToppleSpeed)

	positive("sensor.ear_threshold", c.Sensor.EARThreshold)
	atLeast("sensor.min_consecutive_frames", c.Sensor.MinConsecutiveFrames, 1)
	atLeast("sensor.blink_queue", c.Sensor.BlinkQueue, 1)
	if c.Sensor.NoseSmoothing <= 0 || c.Sensor.NoseSmoothing > 1 {
		errs = append(errs, fmt.Errorf("sensor.nose_smoothing must be in (0, 1], got %v", c.Sensor.NoseSmoothing))
	}
	positive("sensor.stop_timeout", float64(c.Sensor.StopTimeout))

	switch c.Control.Mode {
	case "keyboard", "blink", "nose":
	default:
		errs = append(errs, fmt.Errorf("control.mode must be keyboard, blink or nose, got %q", c.Control.Mode))
	}
	if c.Control.NoseRearm >= c.Control.NoseTrigger {
		errs = append(errs, fmt.Errorf("control.nose_rearm (%v) must be below control.nose_trigger (%v)",
			c.Control.NoseRearm, c.Control.NoseTrigger))
	}

	if c.Audio.Enabled {
		atLeast("audio.sample_rate", c.Audio.SampleRate, 1)
		positive("audio.buffer", float64(c.Audio.Buffer))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be in [0, 1], got %v", c.Audio.Volume))
	}

	positive("telemetry.window_sec", c.Telemetry.WindowSec)

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.ScreenHeight = float64(c.Screen.Height)
	c.Derived.ScrollTriggerHeight = c.Tower.BlockSize * float64(c.Scroll.TriggerBlocks)
	c.Derived.FrameInterval = time.Second / time.Duration(c.Screen.TargetFPS)

	c.Derived.WindowTicks = int(c.Telemetry.WindowSec * float64(c.Screen.TargetFPS))
	if c.Derived.WindowTicks < 1 {
		c.Derived.WindowTicks = 1
	}

	c.Derived.PromptBlinkTicks = int(c.Control.PromptBlink / c.Derived.FrameInterval)
	if c.Derived.PromptBlinkTicks < 1 {
		c.Derived.PromptBlinkTicks = 1
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
