// Package config provides configuration loading and access for the framing demo.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/weightcam/camera"
	"github.com/pthm-cable/weightcam/weights"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Validation errors not covered by the camera package.
var (
	ErrInvalidTimeConstant = errors.New("config: framing.time_constant must be positive")
	ErrInvalidSmoothing    = errors.New("config: framing.smoothing must be linear or exponential")
	ErrInvalidDT           = errors.New("config: physics.dt must be positive")
	ErrInvalidTarget       = errors.New("config: invalid target")
)

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Level     LevelConfig     `yaml:"level"`
	Lens      LensConfig      `yaml:"lens"`
	Zoom      ZoomConfig      `yaml:"zoom"`
	Framing   FramingConfig   `yaml:"framing"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Targets   []TargetConfig  `yaml:"targets"`
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

// LevelConfig is the level rectangle the view must stay inside.
type LevelConfig struct {
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

// LensConfig holds camera lens parameters.
type LensConfig struct {
	FOV            float64 `yaml:"fov"`    // Vertical, degrees
	Aspect         float64 `yaml:"aspect"` // 0 = screen width / height
	NearClip       float64 `yaml:"near_clip"`
	ViewportWidth  float64 `yaml:"viewport_width"`  // Normalized camera rect
	ViewportHeight float64 `yaml:"viewport_height"` // Normalized camera rect
}

// ZoomConfig holds the requested distance limits.
// Max is further capped so the view never exceeds the level.
type ZoomConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"` // 0 = fit the level
}

// FramingConfig holds the weighting and framing parameters.
type FramingConfig struct {
	EdgeBufferX  float64        `yaml:"edge_buffer_x"`
	EdgeBufferY  float64        `yaml:"edge_buffer_y"`
	TimeConstant float64        `yaml:"time_constant"` // Seconds for weights to ramp
	Smoothing    string         `yaml:"smoothing"`     // linear | exponential
	Epsilon      float64        `yaml:"epsilon"`       // Prune threshold
	SafeArea     SafeAreaConfig `yaml:"safe_area"`
}

// SafeAreaConfig is a screen sub-rectangle drawn as a guide.
type SafeAreaConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	WidthOffset  float64 `yaml:"width_offset"`
	HeightOffset float64 `yaml:"height_offset"`
}

// PhysicsConfig holds simulation stepping parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// TargetConfig is one scripted weight source in the demo scene.
type TargetConfig struct {
	Name      string  `yaml:"name"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	VX        float64 `yaml:"vx"`
	VY        float64 `yaml:"vy"`
	Weight    float64 `yaml:"weight"`
	Important bool    `yaml:"important"`
	Disabled  bool    `yaml:"disabled"`
	SpawnAt   float64 `yaml:"spawn_at"` // Seconds after start
	Lifetime  float64 `yaml:"lifetime"` // Seconds, 0 = forever
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per CSV row
	PerfWindow  int     `yaml:"perf_window"`  // Ticks per perf average
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Aspect     float64               // Lens aspect, screen ratio when unset
	Smoothing  weights.SmoothingMode // Parsed Framing.Smoothing
	EdgeBuffer r2.Vec
	StatsTicks int // Telemetry.StatsWindow in ticks
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
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse merges YAML data into cfg. Only fields present in data are overwritten;
// a targets list replaces the default scene entirely.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Aspect = c.Lens.Aspect
	if c.Derived.Aspect == 0 && c.Screen.Height > 0 {
		c.Derived.Aspect = float64(c.Screen.Width) / float64(c.Screen.Height)
	}
	c.Derived.Smoothing, _ = weights.ParseSmoothingMode(c.Framing.Smoothing)
	c.Derived.EdgeBuffer = r2.Vec{X: c.Framing.EdgeBufferX, Y: c.Framing.EdgeBufferY}

	c.Derived.StatsTicks = 1
	if c.Physics.DT > 0 && c.Telemetry.StatsWindow > 0 {
		if n := int(c.Telemetry.StatsWindow/c.Physics.DT + 0.5); n > 1 {
			c.Derived.StatsTicks = n
		}
	}
}

// Validate rejects configurations the per-tick math cannot handle.
func (c *Config) Validate() error {
	if _, err := c.NewLens(); err != nil {
		return fmt.Errorf("lens: %w", err)
	}
	if err := c.Bounds().Validate(); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	if c.Zoom.Min < 0 || (c.Zoom.Max > 0 && c.Zoom.Max < c.Zoom.Min) {
		return fmt.Errorf("zoom: %w: got [%v, %v]", camera.ErrInvalidZoom, c.Zoom.Min, c.Zoom.Max)
	}
	if !(c.Framing.TimeConstant > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeConstant, c.Framing.TimeConstant)
	}
	if _, ok := weights.ParseSmoothingMode(c.Framing.Smoothing); !ok {
		return fmt.Errorf("%w: got %q", ErrInvalidSmoothing, c.Framing.Smoothing)
	}
	if !(c.Physics.DT > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidDT, c.Physics.DT)
	}
	for i, t := range c.Targets {
		if t.Weight < 0 || t.SpawnAt < 0 || t.Lifetime < 0 {
			return fmt.Errorf("%w: targets[%d] (%s): weight, spawn_at and lifetime must be non-negative", ErrInvalidTarget, i, t.Name)
		}
	}
	return nil
}

// NewLens builds a validated lens from the lens section.
func (c *Config) NewLens() (*camera.Lens, error) {
	lens, err := camera.NewLens(c.Lens.FOV, c.Derived.Aspect, c.Lens.NearClip)
	if err != nil {
		return nil, err
	}
	lens.Viewport = r2.Vec{X: c.Lens.ViewportWidth, Y: c.Lens.ViewportHeight}
	if err := lens.Validate(); err != nil {
		return nil, err
	}
	return lens, nil
}

// Bounds returns the level rectangle.
func (c *Config) Bounds() camera.Bounds {
	return camera.NewBounds(c.Level.CenterX, c.Level.CenterY, c.Level.Width, c.Level.Height)
}

// SafeArea returns the safe-area screen region.
func (c *Config) SafeArea() camera.ScreenRegion {
	s := c.Framing.SafeArea
	return camera.ScreenRegion{
		Width:        s.Width,
		Height:       s.Height,
		WidthOffset:  s.WidthOffset,
		HeightOffset: s.HeightOffset,
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
