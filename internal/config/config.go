// Package config loads sentry scenarios and tooling settings through viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Garsondee/Sentry-Sense/internal/agent"
	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/perception"
	"github.com/Garsondee/Sentry-Sense/internal/zone"
)

// EnvPrefix namespaces environment overrides, e.g. SENTRY_AGENT_VIEW_RANGE.
const EnvPrefix = "SENTRY"

// Target script kinds.
const (
	TargetNone   = "none"
	TargetStatic = "static"
	TargetRoute  = "route"
	TargetWander = "wander"
)

// LoggerConfig controls the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // console or json
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// TargetConfig scripts the intruder the sentry watches for.
type TargetConfig struct {
	Kind   string      `mapstructure:"kind" yaml:"kind"`
	Points []geom.Vec2 `mapstructure:"points" yaml:"points"`
	Speed  float64     `mapstructure:"speed" yaml:"speed"`
	Loop   bool        `mapstructure:"loop" yaml:"loop"`
	// Wander only.
	NoiseSeed  int64     `mapstructure:"noise_seed" yaml:"noise_seed"`
	NoiseScale float64   `mapstructure:"noise_scale" yaml:"noise_scale"`
	Bounds     geom.Rect `mapstructure:"bounds" yaml:"bounds"`
}

// SimConfig drives the headless harness and the viewer.
type SimConfig struct {
	TickRate      float64   `mapstructure:"tick_rate" yaml:"tick_rate"`
	Ticks         int       `mapstructure:"ticks" yaml:"ticks"`
	Seed          int64     `mapstructure:"seed" yaml:"seed"`
	SpawnPosition geom.Vec2 `mapstructure:"spawn_position" yaml:"spawn_position"`
	SpawnHeading  float64   `mapstructure:"spawn_heading" yaml:"spawn_heading"` // degrees
	PawnRadius    float64   `mapstructure:"pawn_radius" yaml:"pawn_radius"`
	Verbose       bool      `mapstructure:"verbose" yaml:"verbose"`
}

// StoreConfig points at the SQLite run store. An empty path disables it.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Config is the whole scenario.
type Config struct {
	Logger    LoggerConfig          `mapstructure:"logger" yaml:"logger"`
	Agent     agent.Config          `mapstructure:"agent" yaml:"agent"`
	Zones     []zone.Region         `mapstructure:"zones" yaml:"zones"`
	Waypoints []geom.Vec2           `mapstructure:"waypoints" yaml:"waypoints"`
	Obstacles []perception.Obstacle `mapstructure:"obstacles" yaml:"obstacles"`
	Target    TargetConfig          `mapstructure:"target" yaml:"target"`
	Sim       SimConfig             `mapstructure:"sim" yaml:"sim"`
	Store     StoreConfig           `mapstructure:"store" yaml:"store"`
}

// SetDefaults registers every default so env overrides resolve.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "sentry")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Agent --
	d := agent.DefaultConfig()
	v.SetDefault("agent.walk_speed", d.WalkSpeed)
	v.SetDefault("agent.chase_speed", d.ChaseSpeed)
	v.SetDefault("agent.accel_time", d.AccelTime)
	v.SetDefault("agent.decel_time", d.DecelTime)
	v.SetDefault("agent.turn_rate", d.TurnRate)
	v.SetDefault("agent.curve_offset", d.CurveOffset)
	v.SetDefault("agent.arrive_dist", d.ArriveDist)
	v.SetDefault("agent.breath_range.min", d.BreathRange.Min)
	v.SetDefault("agent.breath_range.max", d.BreathRange.Max)
	v.SetDefault("agent.look_range.min", d.LookRange.Min)
	v.SetDefault("agent.look_range.max", d.LookRange.Max)
	v.SetDefault("agent.fov", d.FOV)
	v.SetDefault("agent.view_range", d.ViewRange)
	v.SetDefault("agent.allow_cornering", d.AllowCornering)
	v.SetDefault("agent.eye_height", d.EyeHeight)
	v.SetDefault("agent.los_mask", d.LOSMask)

	// -- Target --
	v.SetDefault("target.kind", TargetNone)
	v.SetDefault("target.speed", 1.5)
	v.SetDefault("target.loop", true)
	v.SetDefault("target.noise_seed", 7)
	v.SetDefault("target.noise_scale", 0.25)

	// -- Sim --
	v.SetDefault("sim.tick_rate", 30.0)
	v.SetDefault("sim.ticks", 3600)
	v.SetDefault("sim.seed", 1)
	v.SetDefault("sim.spawn_heading", 0.0)
	v.SetDefault("sim.pawn_radius", 0.25)
	v.SetDefault("sim.verbose", false)

	// -- Store --
	v.SetDefault("store.path", "")
}

// NewDefaultConfig returns the defaults with no zones, waypoints or target.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// New returns a viper instance with defaults and SENTRY_ env overrides wired.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (any format viper understands) over the defaults. An empty
// path yields defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return NewFromViper(v)
}

// NewFromViper unmarshals and validates.
func NewFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the scenario for values the sentry cannot run with.
func (c *Config) Validate() error {
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	for i, r := range c.Zones {
		if err := validateRegion(r); err != nil {
			return fmt.Errorf("zones[%d]: %w", i, err)
		}
	}
	for i, o := range c.Obstacles {
		if o.Bounds.Empty() {
			return fmt.Errorf("obstacles[%d] %q: bounds must have area", i, o.Name)
		}
	}
	if c.Sim.TickRate <= 0 {
		return errors.New("sim.tick_rate must be positive")
	}
	if c.Sim.PawnRadius < 0 {
		return errors.New("sim.pawn_radius must not be negative")
	}
	return c.Target.Validate()
}

// Validate checks the target script.
func (t TargetConfig) Validate() error {
	switch t.Kind {
	case "", TargetNone, TargetWander:
	case TargetStatic:
		if len(t.Points) == 0 {
			return errors.New("target: static target needs one point")
		}
	case TargetRoute:
		if len(t.Points) < 2 {
			return errors.New("target: route needs at least two points")
		}
	default:
		return fmt.Errorf("target: unknown kind %q (supported: none, static, route, wander)", t.Kind)
	}
	if t.Speed < 0 {
		return errors.New("target: speed must not be negative")
	}
	return nil
}

func validateRegion(r zone.Region) error {
	zero := r.Bounds == geom.Rect{}
	if !zero && r.Bounds.Empty() {
		return fmt.Errorf("region %q: bounds min must be below max", r.Name)
	}
	if zero && len(r.Children) == 0 {
		return fmt.Errorf("region %q: needs bounds or children", r.Name)
	}
	for i, c := range r.Children {
		if err := validateRegion(c); err != nil {
			return fmt.Errorf("children[%d]: %w", i, err)
		}
	}
	return nil
}

// ZoneSet flattens the configured regions.
func (c *Config) ZoneSet() *zone.Set { return zone.NewSet(c.Zones...) }

// Occluder builds the sight blockers, or nil when there are none.
func (c *Config) Occluder() perception.Occluder {
	if len(c.Obstacles) == 0 {
		return nil
	}
	return perception.NewBoxOccluder(c.Obstacles...)
}
