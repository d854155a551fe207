// Package agent is the sentry's behaviour state machine. It cycles between
// Idle, PatrolMove, Chase and Return, driving path planning, locomotion and
// perception once per Tick.
//
// An Agent is not safe for concurrent use. Tick one agent from one goroutine.
package agent

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/locomotion"
	"github.com/Garsondee/Sentry-Sense/internal/path"
	"github.com/Garsondee/Sentry-Sense/internal/perception"
	"github.com/Garsondee/Sentry-Sense/internal/zone"
	"go.uber.org/zap"
)

// ErrNoBody is returned by New when no Body is supplied.
var ErrNoBody = errors.New("agent: body is required")

// DefaultSeed seeds the agent's generator when no WithRand or WithSeed is given.
const DefaultSeed = 1

// Agent is one sentry.
type Agent struct {
	cfg       Config
	zones     *zone.Set
	body      Body
	target    TargetSource
	occluder  perception.Occluder
	waypoints []geom.Vec2

	vision   *perception.Vision
	planner  *path.Planner
	walk     locomotion.Profile
	chase    locomotion.Profile
	turnRate float64 // rad/s

	rng    *rand.Rand
	log    *zap.Logger
	signal Signal

	started bool
	state   State
	rt      Runtime
}

// Option customises an Agent in New.
type Option func(*Agent)

// WithRand hands the agent its own random source.
func WithRand(rng *rand.Rand) Option {
	return func(a *Agent) { a.rng = rng }
}

// WithSeed seeds a fresh random source.
func WithSeed(seed int64) Option {
	return func(a *Agent) {
		a.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- reproducible simulation, not security
	}
}

// WithLogger sets the logger for transition and planning diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.log = l
		}
	}
}

// WithWaypoints sets the ordered patrol waypoints.
func WithWaypoints(wps []geom.Vec2) Option {
	return func(a *Agent) {
		a.waypoints = append([]geom.Vec2(nil), wps...)
	}
}

// WithOccluder sets the line-of-sight query.
func WithOccluder(occ perception.Occluder) Option {
	return func(a *Agent) { a.occluder = occ }
}

// New validates cfg and wires an agent. zs may be nil for an unconstrained
// area and target may be nil, in which case the agent never sees anything.
func New(cfg Config, zs *zone.Set, body Body, target TargetSource, opts ...Option) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}
	if body == nil {
		return nil, ErrNoBody
	}
	if zs == nil {
		zs = zone.NewSet()
	}

	a := &Agent{
		cfg:    cfg,
		zones:  zs,
		body:   body,
		target: target,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(DefaultSeed)) // #nosec G404 -- reproducible simulation, not security
	}

	a.vision = perception.NewVision(cfg.FOV, cfg.ViewRange, a.occluder)
	a.vision.EyeHeight = cfg.EyeHeight
	if cfg.LOSMask != 0 {
		a.vision.Mask = cfg.LOSMask
	}
	a.planner = path.NewPlanner(zs, a.waypoints, cfg.CurveOffset, cfg.AllowCornering, a.rng)
	a.walk = locomotion.NewProfile(cfg.WalkSpeed, cfg.AccelTime, cfg.DecelTime)
	a.chase = locomotion.NewProfile(cfg.ChaseSpeed, cfg.AccelTime, cfg.DecelTime)
	a.turnRate = geom.Deg2Rad(cfg.TurnRate)
	return a, nil
}

// Start enters Idle. Calling it again is a no-op.
func (a *Agent) Start() {
	if a.started {
		return
	}
	a.started = true
	a.log.Debug("agent started",
		zap.Int("waypoints", len(a.waypoints)),
		zap.Int("zones", len(a.zones.Rects())))
	a.state = StateIdle
	enterFns[StateIdle](a)
}

// Tick advances the agent by dt seconds. Non-positive dt is ignored.
// It panics if Start has not been called.
func (a *Agent) Tick(dt float64) {
	if !a.started {
		panic("agent: Tick before Start")
	}
	if dt <= 0 {
		return
	}
	a.rt.Ticks++
	a.rt.StateTime += dt
	tickFns[a.state](a, dt)
}

// Subscribe registers an observer for state and sub-behaviour events.
func (a *Agent) Subscribe(fn func(string)) { a.signal.Subscribe(fn) }

// State returns the active state.
func (a *Agent) State() State { return a.state }

// Runtime returns a copy of the state machine's bookkeeping.
func (a *Agent) Runtime() Runtime { return a.rt }

// Curve returns the curve the agent is currently following.
func (a *Agent) Curve() path.Curve { return a.rt.Follower.Curve }

// Corners returns the pending corner-routing hops.
func (a *Agent) Corners() []geom.Vec2 { return a.planner.Corners() }

// Waypoints returns a copy of the patrol waypoints.
func (a *Agent) Waypoints() []geom.Vec2 { return a.planner.Waypoints() }

// Config returns the agent's tuning.
func (a *Agent) Config() Config { return a.cfg }

// Zones returns the allowed area.
func (a *Agent) Zones() *zone.Set { return a.zones }

// Vision returns the sight predicate, for drawing the view cone.
func (a *Agent) Vision() *perception.Vision { return a.vision }

// Pose returns the body's current pose.
func (a *Agent) Pose() perception.Pose {
	return perception.Pose{Position: a.body.Position(), Heading: a.body.Heading()}
}

// CanSeeTarget evaluates perception for the current pose.
func (a *Agent) CanSeeTarget() bool { return a.canSeeTarget() }

func (a *Agent) canSeeTarget() bool {
	tp, ok := a.targetPosition()
	if !ok {
		return false
	}
	return a.vision.CanSeeTarget(a.Pose(), &tp)
}

func (a *Agent) targetPosition() (geom.Vec2, bool) {
	if a.target == nil {
		return geom.Vec2{}, false
	}
	return a.target.TargetPosition()
}
