package agent

import (
	"errors"
	"fmt"

	"github.com/Garsondee/Sentry-Sense/internal/perception"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid agent config")

// Range is a closed interval of seconds.
type Range struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// Config is the per-agent tuning. It is fixed once the agent is built.
type Config struct {
	WalkSpeed   float64 `mapstructure:"walk_speed"`
	ChaseSpeed  float64 `mapstructure:"chase_speed"`
	AccelTime   float64 `mapstructure:"accel_time"` // seconds from rest to full speed
	DecelTime   float64 `mapstructure:"decel_time"` // seconds from full speed to rest
	TurnRate    float64 `mapstructure:"turn_rate"`  // degrees per second
	CurveOffset float64 `mapstructure:"curve_offset"`
	ArriveDist  float64 `mapstructure:"arrive_dist"`

	BreathRange Range `mapstructure:"breath_range"`
	LookRange   Range `mapstructure:"look_range"`

	FOV            float64 `mapstructure:"fov"` // degrees, full cone
	ViewRange      float64 `mapstructure:"view_range"`
	AllowCornering bool    `mapstructure:"allow_cornering"`
	EyeHeight      float64 `mapstructure:"eye_height"`
	// LOSMask selects which occluder layers block sight. Zero means all layers.
	LOSMask uint32 `mapstructure:"los_mask"`
}

// DefaultConfig returns the stock sentry tuning.
func DefaultConfig() Config {
	return Config{
		WalkSpeed:      2,
		ChaseSpeed:     3.5,
		AccelTime:      0.4,
		DecelTime:      0.5,
		TurnRate:       720,
		CurveOffset:    0.8,
		ArriveDist:     0.3,
		BreathRange:    Range{Min: 1, Max: 1.5},
		LookRange:      Range{Min: 2, Max: 3},
		FOV:            perception.DefaultFOVDeg,
		ViewRange:      perception.DefaultViewRange,
		AllowCornering: true,
		EyeHeight:      perception.DefaultEyeHeight,
		LOSMask:        perception.AllLayers,
	}
}

// Validate rejects tuning the state machine cannot run with.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"walk_speed", c.WalkSpeed},
		{"chase_speed", c.ChaseSpeed},
		{"accel_time", c.AccelTime},
		{"decel_time", c.DecelTime},
		{"turn_rate", c.TurnRate},
		{"view_range", c.ViewRange},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidConfig, p.name, p.v)
		}
	}
	if c.FOV <= 0 || c.FOV > 360 {
		return fmt.Errorf("%w: fov must be in (0, 360], got %g", ErrInvalidConfig, c.FOV)
	}
	if c.CurveOffset < 0 {
		return fmt.Errorf("%w: curve_offset must not be negative", ErrInvalidConfig)
	}
	if c.ArriveDist < 0 {
		return fmt.Errorf("%w: arrive_dist must not be negative", ErrInvalidConfig)
	}
	if c.EyeHeight < 0 {
		return fmt.Errorf("%w: eye_height must not be negative", ErrInvalidConfig)
	}
	if err := c.BreathRange.validate("breath_range"); err != nil {
		return err
	}
	return c.LookRange.validate("look_range")
}

func (r Range) validate(name string) error {
	if r.Min < 0 || r.Max < r.Min {
		return fmt.Errorf("%w: %s must satisfy 0 <= min <= max, got [%g, %g]", ErrInvalidConfig, name, r.Min, r.Max)
	}
	return nil
}

// sample draws a uniform value from the interval.
func (r Range) sample(u float64) float64 {
	return r.Min + u*(r.Max-r.Min)
}
