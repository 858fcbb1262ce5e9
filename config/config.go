// Package config provides configuration loading and access for the particle engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Particles ParticlesConfig `yaml:"particles"`
	Sampler   SamplerConfig   `yaml:"sampler"`
	Motion    MotionConfig    `yaml:"motion"`
	Decor     DecorConfig     `yaml:"decor"`
	Feed      FeedConfig      `yaml:"feed"`
	Director  DirectorConfig  `yaml:"director"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	TargetFPS  int     `yaml:"target_fps"`
	Resizable  bool    `yaml:"resizable"`
	FovY       float64 `yaml:"fov_y"`    // Vertical field of view in degrees
	CameraZ    float64 `yaml:"camera_z"` // Camera distance from origin
	Near       float64 `yaml:"near"`
	Far        float64 `yaml:"far"`
	Background string  `yaml:"background"` // Hex clear colour
}

// ParticlesConfig holds particle set parameters. Capacity is fixed for the process lifetime.
type ParticlesConfig struct {
	Capacity     int     `yaml:"capacity"`
	SphereRadius float64 `yaml:"sphere_radius"`
	PointSize    float64 `yaml:"point_size"`
	AccentChance float64 `yaml:"accent_chance"` // Probability of the accent colour per point
	BaseColor    string  `yaml:"base_color"`
	AccentColor  string  `yaml:"accent_color"`
}

// SamplerConfig holds image-to-point-cloud parameters.
type SamplerConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Spacing         float64 `yaml:"spacing"`          // World units per pixel
	AlphaThreshold  int     `yaml:"alpha_threshold"`  // Pixels with alpha <= this are background (0-255)
	BrightnessFloor float64 `yaml:"brightness_floor"` // Mean RGB below this is background
	LowVisibility   float64 `yaml:"low_visibility"`   // Below this, brightness is lifted additively
	LowLift         float64 `yaml:"low_lift"`         // Additive lift for dim pixels
	Gamma           float64 `yaml:"gamma"`            // c' = min(1, c^gamma * gain)
	Gain            float64 `yaml:"gain"`
	HiddenRing      float64 `yaml:"hidden_ring"`  // Ring radius for unused particles, as a fraction of sphere radius
	HiddenDepth     float64 `yaml:"hidden_depth"` // Z of the hidden ring
	HiddenColor     float64 `yaml:"hidden_color"` // Grey level of unused particles
}

// MotionConfig holds per-status animation coefficients.
// Blend coefficients are per reference frame and rescaled by dt at runtime.
type MotionConfig struct {
	ReferenceFPS float64 `yaml:"reference_fps"`

	IdleBlend      float64 `yaml:"idle_blend"`
	IdleColorBlend float64 `yaml:"idle_color_blend"`
	IdleSpin       float64 `yaml:"idle_spin"`      // rad/s
	BreathPeriod   float64 `yaml:"breath_period"`  // seconds
	BreathAmp      float64 `yaml:"breath_amp"`     // scale amplitude
	WobbleDecay    float64 `yaml:"wobble_decay"`   // Z roll multiplier per reference frame outside Rolling
	WobbleAmp      float64 `yaml:"wobble_amp"`     // Z roll amplitude while Rolling
	WobbleSpeed    float64 `yaml:"wobble_speed"`   // rad/s of the Z roll oscillation
	RollingJitter  float64 `yaml:"rolling_jitter"` // Random per-particle target jitter in spin-up
	RollPhase      float64 `yaml:"roll_phase"`     // seconds of implosion before spin-up
	ImplodeScale   float64 `yaml:"implode_scale"`  // Group scale at the end of implosion
	ImplodeSpin    float64 `yaml:"implode_spin"`   // rad/s while imploding
	ImplodeBlend   float64 `yaml:"implode_blend"`
	SpinUpScale    float64 `yaml:"spin_up_scale"` // Group scale target during spin-up
	SpinUpRate     float64 `yaml:"spin_up_rate"`  // Sustained rad/s during spin-up
	SpinUpAccel    float64 `yaml:"spin_up_accel"` // Seconds to reach the sustained rate
	SpinUpBlend    float64 `yaml:"spin_up_blend"` // Low k: viscous lag behind the field
	SpinColorBlend float64 `yaml:"spin_color_blend"`
	WarpAmp        float64 `yaml:"warp_amp"`
	WarpFreq       float64 `yaml:"warp_freq"` // Spatial frequency (1/world units)
	WarpSpeed      float64 `yaml:"warp_speed"`
	PulseSpeed     float64 `yaml:"pulse_speed"`
	HotColor       string  `yaml:"hot_color"`
	CoolColor      string  `yaml:"cool_color"`

	ExplodeFactor     float64 `yaml:"explode_factor"`
	ExplodeBlend      float64 `yaml:"explode_blend"`
	ExplodeColorBlend float64 `yaml:"explode_color_blend"`
	ExplodeDim        float64 `yaml:"explode_dim"` // Grey level the field dims toward
	ExplodeSpin       float64 `yaml:"explode_spin"`

	ConvergeBlend      float64 `yaml:"converge_blend"`
	ConvergeColorBlend float64 `yaml:"converge_color_blend"`
	SettleRate         float64 `yaml:"settle_rate"` // Per reference frame ease for rotation and scale
}

// DecorConfig holds ambient decoration parameters.
type DecorConfig struct {
	AvatarCap        int     `yaml:"avatar_cap"`
	AvatarSkipChance float64 `yaml:"avatar_skip_chance"` // Chance to ignore a roster change
	AvatarVolume     float64 `yaml:"avatar_volume"`      // Fraction of sphere radius avatars are placed within
	AvatarSize       float64 `yaml:"avatar_size"`
	BobAmp           float64 `yaml:"bob_amp"`
	BobSpeedMin      float64 `yaml:"bob_speed_min"`
	BobSpeedMax      float64 `yaml:"bob_speed_max"`
	AppearDuration   float64 `yaml:"appear_duration"` // seconds of elastic pop-in
	MessageTTL       float64 `yaml:"message_ttl"`     // seconds
	MessageShellMin  float64 `yaml:"message_shell_min"`
	MessageShellMax  float64 `yaml:"message_shell_max"`
	MessageOrbit     float64 `yaml:"message_orbit"` // rad/s
	SeenCap          int     `yaml:"seen_cap"`
	CardInterval     float64 `yaml:"card_interval"` // seconds between shuffle redraws
	CardFrequency    float64 `yaml:"card_frequency"`
	CardDamping      float64 `yaml:"card_damping"`
	CardWidth        int     `yaml:"card_width"`
	CardHeight       int     `yaml:"card_height"`
	CardBobAmp       float64 `yaml:"card_bob_amp"`
	CardBobSpeed     float64 `yaml:"card_bob_speed"`
	CardZ            float64 `yaml:"card_z"`
}

// FeedConfig holds external data source settings.
type FeedConfig struct {
	ParticipantsURL   string  `yaml:"participants_url"`
	MessagesURL       string  `yaml:"messages_url"`
	RosterPath        string  `yaml:"roster_path"`
	ParticipantsEvery float64 `yaml:"participants_every"` // seconds
	MessagesEvery     float64 `yaml:"messages_every"`     // seconds
	FetchTimeout      float64 `yaml:"fetch_timeout"`      // seconds
	AvatarCacheSize   int     `yaml:"avatar_cache_size"`
	AvatarThumb       int     `yaml:"avatar_thumb"` // Thumbnail edge in pixels
}

// DirectorConfig holds dwell times for the scripted status controller.
type DirectorConfig struct {
	Idle        float64 `yaml:"idle"`
	Rolling     float64 `yaml:"rolling"`
	Shuffling   float64 `yaml:"shuffling"`
	RevealDelay float64 `yaml:"reveal_delay"` // Converging -> Revealed
	Revealed    float64 `yaml:"revealed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`
	LogInterval float64 `yaml:"log_interval"` // seconds between perf log lines
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Radius32    float32
	PointSize32 float32
	BaseRGB     [3]float32
	AccentRGB   [3]float32
	HotRGB      [3]float32
	CoolRGB     [3]float32
	Background  [3]uint8
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
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	if c.Particles.Capacity <= 0 {
		return fmt.Errorf("particles.capacity must be positive, got %d", c.Particles.Capacity)
	}
	if c.Sampler.Width <= 0 || c.Sampler.Height <= 0 {
		return fmt.Errorf("sampler size must be positive, got %dx%d", c.Sampler.Width, c.Sampler.Height)
	}
	if c.Sampler.Width*c.Sampler.Height > c.Particles.Capacity {
		return fmt.Errorf("sampler grid %dx%d exceeds particle capacity %d",
			c.Sampler.Width, c.Sampler.Height, c.Particles.Capacity)
	}
	if c.Motion.ReferenceFPS <= 0 {
		return fmt.Errorf("motion.reference_fps must be positive")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.Radius32 = float32(c.Particles.SphereRadius)
	c.Derived.PointSize32 = float32(c.Particles.PointSize)

	colors := []struct {
		name string
		hex  string
		dst  *[3]float32
	}{
		{"particles.base_color", c.Particles.BaseColor, &c.Derived.BaseRGB},
		{"particles.accent_color", c.Particles.AccentColor, &c.Derived.AccentRGB},
		{"motion.hot_color", c.Motion.HotColor, &c.Derived.HotRGB},
		{"motion.cool_color", c.Motion.CoolColor, &c.Derived.CoolRGB},
	}
	for _, col := range colors {
		parsed, err := colorful.Hex(col.hex)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", col.name, err)
		}
		*col.dst = [3]float32{float32(parsed.R), float32(parsed.G), float32(parsed.B)}
	}

	bg, err := colorful.Hex(c.Screen.Background)
	if err != nil {
		return fmt.Errorf("parsing screen.background: %w", err)
	}
	r, g, b := bg.RGB255()
	c.Derived.Background = [3]uint8{r, g, b}
	return nil
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
