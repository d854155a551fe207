// Package sim is a headless harness around one sentry agent. It owns the
// pawn the agent drives, the scripted target, and a structured SimLog of
// everything that happened, so scenarios can be run from tests, the batch
// reporter and the viewer alike.
package sim

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/Garsondee/Sentry-Sense/internal/agent"
	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/perception"
	"github.com/Garsondee/Sentry-Sense/internal/zone"
)

// DefaultTickRate is the fixed update rate in ticks per second.
const DefaultTickRate = 30.0

// Sim drives one agent at a fixed timestep.
type Sim struct {
	Agent     *agent.Agent
	Pawn      *Pawn
	Target    Target
	Zones     *zone.Set
	Obstacles []perception.Obstacle
	Occluder  perception.Occluder
	SimLog    *SimLog
	Label     string
	Seed      int64
	Dt        float64

	// Run counters, updated every tick.
	Violations       int
	Chases           int
	GiveUps          int
	PatrolLegs       int
	CornerRoutes     int
	FirstContactTick int
	StateTicks       map[agent.State]int

	cfg        agent.Config
	log        *zap.Logger
	rng        *rand.Rand
	spawn      geom.Vec2
	heading    float64
	radius     float64
	waypoints  []geom.Vec2
	zoneRects  []geom.Rect
	events     []string
	tick       int
	seen       bool
	prevCorner int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptWorld simOptionKind = iota // zones, obstacles, seed, tuning; applied first
	simOptActor                      // spawn, waypoints, target; applied once the world exists
)

// SimOption is a builder function applied to a Sim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Sim)
}

// WithZones sets the allowed area.
func WithZones(zs *zone.Set) SimOption {
	return SimOption{simOptWorld, func(s *Sim) { s.Zones = zs }}
}

// WithZoneRects adds allowed rectangles.
func WithZoneRects(rects ...geom.Rect) SimOption {
	return SimOption{simOptWorld, func(s *Sim) {
		s.zoneRects = append(s.zoneRects, rects...)
	}}
}

// WithObstacle adds a sight blocker that also stops the pawn.
func WithObstacle(name string, bounds geom.Rect) SimOption {
	return WithObstacles(perception.Obstacle{Name: name, Bounds: bounds})
}

// WithObstacles adds configured obstacles.
func WithObstacles(obs ...perception.Obstacle) SimOption {
	return SimOption{simOptWorld, func(s *Sim) {
		s.Obstacles = append(s.Obstacles, obs...)
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptWorld, func(s *Sim) {
		s.Seed = seed
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- reproducible simulation
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptWorld, func(s *Sim) { s.SimLog = NewSimLog(v) }}
}

// WithTickRate sets the fixed update rate in ticks per second.
func WithTickRate(hz float64) SimOption {
	return SimOption{simOptWorld, func(s *Sim) {
		if hz > 0 {
			s.Dt = 1 / hz
		}
	}}
}

// WithAgentConfig overrides the agent tuning.
func WithAgentConfig(cfg agent.Config) SimOption {
	return SimOption{simOptWorld, func(s *Sim) { s.cfg = cfg }}
}

// WithLogger routes agent diagnostics to l.
func WithLogger(l *zap.Logger) SimOption {
	return SimOption{simOptWorld, func(s *Sim) {
		if l != nil {
			s.log = l
		}
	}}
}

// WithLabel names the agent in log lines.
func WithLabel(label string) SimOption {
	return SimOption{simOptWorld, func(s *Sim) { s.Label = label }}
}

// WithPawnRadius sets the pawn's collision radius.
func WithPawnRadius(r float64) SimOption {
	return SimOption{simOptWorld, func(s *Sim) { s.radius = r }}
}

// WithSpawn places the sentry. Spawns outside the zones are clamped in.
func WithSpawn(pos geom.Vec2, headingRad float64) SimOption {
	return SimOption{simOptActor, func(s *Sim) {
		s.spawn = pos
		s.heading = headingRad
	}}
}

// WithWaypoints sets the patrol route.
func WithWaypoints(wps ...geom.Vec2) SimOption {
	return SimOption{simOptActor, func(s *Sim) {
		s.waypoints = append(s.waypoints, wps...)
	}}
}

// WithTarget adds a scripted intruder.
func WithTarget(t Target) SimOption {
	return SimOption{simOptActor, func(s *Sim) { s.Target = t }}
}

// NewSim constructs a Sim from the given options in ordered passes:
//  1. World (zones, obstacles, seed, tuning)
//  2. Build the zone set and occluder
//  3. Actors (spawn, waypoints, target)
//  4. Pawn and agent
func NewSim(opts ...SimOption) (*Sim, error) {
	s := &Sim{
		Label:            "S0",
		Seed:             1,
		Dt:               1 / DefaultTickRate,
		SimLog:           NewSimLog(false),
		FirstContactTick: -1,
		StateTicks:       make(map[agent.State]int),
		cfg:              agent.DefaultConfig(),
		log:              zap.NewNop(),
		rng:              rand.New(rand.NewSource(1)), // #nosec G404 -- reproducible simulation
		radius:           0.25,
	}
	for _, o := range opts {
		if o.kind == simOptWorld {
			o.fn(s)
		}
	}
	s.buildWorld()
	for _, o := range opts {
		if o.kind == simOptActor {
			o.fn(s)
		}
	}

	if !s.Zones.Empty() && !s.Zones.IsInside(s.spawn) {
		s.spawn = s.Zones.ClampSequential(s.spawn)
	}
	s.Pawn = NewPawn(s.spawn, s.heading, s.radius, s.Obstacles)

	var target agent.TargetSource
	if s.Target != nil {
		target = s.Target
	}
	ag, err := agent.New(s.cfg, s.Zones, s.Pawn, target,
		agent.WithRand(s.rng),
		agent.WithLogger(s.log.With(zap.String("agent", s.Label))),
		agent.WithWaypoints(s.waypoints),
		agent.WithOccluder(s.Occluder),
	)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	s.Agent = ag
	ag.Subscribe(func(ev string) { s.events = append(s.events, ev) })
	ag.Start()
	s.flushEvents()
	s.logPathBuild()
	return s, nil
}

// buildWorld merges rectangle zones into the zone set and builds the occluder
// from the current obstacles.
func (s *Sim) buildWorld() {
	if len(s.zoneRects) > 0 {
		s.Zones = zone.FromRects(append(s.Zones.Rects(), s.zoneRects...)...)
	}
	if s.Zones == nil {
		s.Zones = zone.NewSet()
	}
	if len(s.Obstacles) > 0 {
		s.Occluder = perception.NewBoxOccluder(s.Obstacles...)
	}
}

// RunTicks advances the simulation n ticks, logging events to SimLog.
func (s *Sim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.tick++
		s.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (s *Sim) RunUntil(predicate func(*Sim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		s.tick++
		s.runOneTick()
		if predicate(s) {
			return s.tick
		}
	}
	return -1
}

// Step advances exactly one tick. The viewer calls it from its update loop.
func (s *Sim) Step() {
	s.tick++
	s.runOneTick()
}

func (s *Sim) runOneTick() {
	tick := s.tick
	prevState := s.Agent.State()
	prevPos := s.Pawn.Position()

	// 1. WORLD
	if s.Target != nil {
		s.Target.Update(s.Dt)
	}

	// 2. AGENT
	s.Agent.Tick(s.Dt)
	state := s.Agent.State()
	s.StateTicks[state]++

	// --- Post-tick logging ---

	if state != prevState {
		s.SimLog.Add(tick, s.Label, "state", "change",
			fmt.Sprintf("%s → %s", prevState, state), 0)
		if prevState == agent.StateChase && state == agent.StateReturn {
			s.GiveUps++
		}
	}
	s.flushEvents()
	if state != prevState {
		s.logPathBuild()
	}

	seen := s.Agent.CanSeeTarget()
	if seen && !s.seen {
		tp, _ := s.Target.TargetPosition()
		s.SimLog.Add(tick, s.Label, "vision", "contact_new",
			fmt.Sprintf("spotted target at (%.2f,%.2f)", tp.X, tp.Y),
			tp.Dist(s.Pawn.Position()))
		if s.FirstContactTick < 0 {
			s.FirstContactTick = tick
		}
	} else if !seen && s.seen {
		s.SimLog.Add(tick, s.Label, "vision", "contact_lost", "target out of sight", 0)
	}
	s.seen = seen

	pos := s.Pawn.Position()
	if !s.Zones.IsInside(pos) {
		s.Violations++
		s.SimLog.Add(tick, s.Label, "audit", "outside_zone",
			fmt.Sprintf("(%.3f,%.3f) in %s", pos.X, pos.Y, state), 0)
	}

	// Verbose: position and speed.
	s.SimLog.AddVerbose(tick, s.Label, "move", "position",
		fmt.Sprintf("(%.2f,%.2f)", pos.X, pos.Y), pos.Dist(prevPos))
	rt := s.Agent.Runtime()
	s.SimLog.AddVerbose(tick, s.Label, "move", "speed",
		fmt.Sprintf("%.2f", rt.Follower.Speed), rt.Follower.Speed)
}

// flushEvents moves queued agent notifications into the log.
func (s *Sim) flushEvents() {
	for _, ev := range s.events {
		s.SimLog.Add(s.tick, s.Label, "signal", ev, "", 0)
		if ev == agent.EventChase {
			s.Chases++
		}
	}
	s.events = s.events[:0]
}

// logPathBuild records a freshly planned patrol or return curve.
func (s *Sim) logPathBuild() {
	state := s.Agent.State()
	if state != agent.StatePatrolMove && state != agent.StateReturn {
		return
	}
	if state == agent.StateReturn && !s.Agent.Runtime().HasPath {
		return
	}
	c := s.Agent.Curve()
	if c.Length <= 0 {
		return
	}
	if state == agent.StatePatrolMove {
		s.PatrolLegs++
	}
	s.SimLog.Add(s.tick, s.Label, "path", "build",
		fmt.Sprintf("(%.2f,%.2f) → (%.2f,%.2f)", c.P0.X, c.P0.Y, c.P2.X, c.P2.Y), c.Length)

	corners := len(s.Agent.Corners())
	if corners > s.prevCorner {
		s.CornerRoutes++
		cp := s.Agent.Corners()[corners-1]
		s.SimLog.Add(s.tick, s.Label, "path", "corner_queued",
			fmt.Sprintf("then (%.2f,%.2f)", cp.X, cp.Y), float64(corners))
	}
	s.prevCorner = corners
}

// CurrentTick returns the current simulation tick.
func (s *Sim) CurrentTick() int {
	return s.tick
}

// Elapsed returns simulated seconds.
func (s *Sim) Elapsed() float64 { return float64(s.tick) * s.Dt }

// SimSnapshot is a lightweight copy of the run state at a tick.
type SimSnapshot struct {
	Tick          int
	Label         string
	Position      geom.Vec2
	Heading       float64
	State         agent.State
	Speed         float64
	LoseTimer     float64
	Target        geom.Vec2
	TargetPresent bool
	Seen          bool
	Corners       int
}

// Snapshot returns the current state of the sentry and its target.
func (s *Sim) Snapshot() SimSnapshot {
	rt := s.Agent.Runtime()
	snap := SimSnapshot{
		Tick:      s.tick,
		Label:     s.Label,
		Position:  s.Pawn.Position(),
		Heading:   s.Pawn.Heading(),
		State:     s.Agent.State(),
		Speed:     rt.Follower.Speed,
		LoseTimer: rt.LoseTimer,
		Seen:      s.seen,
		Corners:   len(s.Agent.Corners()),
	}
	if s.Target != nil {
		snap.Target, snap.TargetPresent = s.Target.TargetPosition()
	}
	return snap
}
