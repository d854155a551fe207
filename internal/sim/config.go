package sim

import (
	"errors"
	"fmt"

	"github.com/Garsondee/Sentry-Sense/internal/config"
	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/zone"
)

// NewTarget builds the scripted intruder described by tc. It returns nil for
// kind none. Wander targets default to the zone bounds and mix seed into
// their noise seed so batch runs see different intruders.
func NewTarget(tc config.TargetConfig, zs *zone.Set, seed int64) (Target, error) {
	switch tc.Kind {
	case "", config.TargetNone:
		return nil, nil
	case config.TargetStatic:
		if len(tc.Points) == 0 {
			return nil, errors.New("sim: static target needs a point")
		}
		return &StaticTarget{Pos: tc.Points[0]}, nil
	case config.TargetRoute:
		if len(tc.Points) < 2 {
			return nil, errors.New("sim: route target needs two points")
		}
		return NewRouteTarget(tc.Points, tc.Speed, tc.Loop), nil
	case config.TargetWander:
		bounds := tc.Bounds
		if bounds.Empty() && zs != nil {
			bounds = zs.Bounds()
		}
		start := bounds.Center()
		if len(tc.Points) > 0 {
			start = tc.Points[0]
		}
		return NewWanderTarget(tc.NoiseSeed+seed, start, tc.Speed, tc.NoiseScale, bounds), nil
	default:
		return nil, fmt.Errorf("sim: unknown target kind %q", tc.Kind)
	}
}

// FromConfig translates a loaded scenario into options. seed replaces
// cfg.Sim.Seed so batch runs can sweep it.
func FromConfig(cfg *config.Config, seed int64) ([]SimOption, error) {
	zs := cfg.ZoneSet()
	opts := []SimOption{
		WithZones(zs),
		WithObstacles(cfg.Obstacles...),
		WithAgentConfig(cfg.Agent),
		WithTickRate(cfg.Sim.TickRate),
		WithSeed(seed),
		WithVerbose(cfg.Sim.Verbose),
		WithPawnRadius(cfg.Sim.PawnRadius),
		WithSpawn(cfg.Sim.SpawnPosition, geom.Deg2Rad(cfg.Sim.SpawnHeading)),
		WithWaypoints(cfg.Waypoints...),
	}
	t, err := NewTarget(cfg.Target, zs, seed)
	if err != nil {
		return nil, err
	}
	if t != nil {
		opts = append(opts, WithTarget(t))
	}
	return opts, nil
}
