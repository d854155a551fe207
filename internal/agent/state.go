package agent

import (
	"math"

	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/path"
	"go.uber.org/zap"
)

// State is the active behaviour.
type State uint8

const (
	StateIdle State = iota
	StatePatrolMove
	StateChase
	StateReturn
	numStates
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePatrolMove:
		return "PatrolMove"
	case StateChase:
		return "Chase"
	case StateReturn:
		return "Return"
	default:
		return "Unknown"
	}
}

// Behaviour timings, in seconds unless noted.
const (
	LookChance    = 0.35
	IdleRetry     = 0.8
	LoseThreshold = 3.0
	ReturnWait    = 3.0
	// LagRate is the per-second relaxation of the chase lag target.
	LagRate = 0.6
)

// Dispatch tables, indexed by State. Filled in init so the entry functions
// may call switchTo without an initialization cycle.
var (
	enterFns [numStates]func(*Agent)
	tickFns  [numStates]func(*Agent, float64)
)

func init() {
	enterFns = [numStates]func(*Agent){
		StateIdle:       enterIdle,
		StatePatrolMove: enterPatrolMove,
		StateChase:      enterChase,
		StateReturn:     enterReturn,
	}
	tickFns = [numStates]func(*Agent, float64){
		StateIdle:       tickIdle,
		StatePatrolMove: tickPatrolMove,
		StateChase:      tickChase,
		StateReturn:     tickReturn,
	}
}

// switchTo is the only place the active state changes.
func (a *Agent) switchTo(s State) {
	from := a.state
	a.state = s
	a.rt.StateTime = 0
	a.log.Debug("state transition",
		zap.Stringer("from", from),
		zap.Stringer("to", s),
		zap.Uint64("tick", a.rt.Ticks))
	enterFns[s](a)
}

// --- Idle ---

func enterIdle(a *Agent) {
	a.rt.IdleLook = a.rng.Float64() < LookChance
	r := a.cfg.BreathRange
	ev := EventIdleBreath
	if a.rt.IdleLook {
		r = a.cfg.LookRange
		ev = EventIdleLook
	}
	a.rt.IdleTimer = r.sample(a.rng.Float64())
	a.signal.Emit(ev)
}

func tickIdle(a *Agent, dt float64) {
	if a.canSeeTarget() {
		a.switchTo(StateChase)
		return
	}
	a.rt.IdleTimer -= dt
	if a.rt.IdleTimer > 0 {
		return
	}
	if !a.planner.BuildNextPatrolPath(a.body.Position()) {
		a.log.Debug("no patrol path, holding", zap.Float64("retry_in", IdleRetry))
		a.rt.IdleTimer = IdleRetry
		return
	}
	a.switchTo(StatePatrolMove)
}

// --- PatrolMove ---

func enterPatrolMove(a *Agent) {
	a.rt.Follower.Reset(a.body.Position(), a.planner.Curve())
	a.signal.Emit(EventPatrol)
}

func tickPatrolMove(a *Agent, dt float64) {
	if a.canSeeTarget() {
		a.switchTo(StateChase)
		return
	}
	if a.rt.Follower.Advance(dt, a.walk, a.zones, a.body, a.turnRate, a.cfg.ArriveDist) {
		a.switchTo(StateIdle)
	}
}

// --- Chase ---

func enterChase(a *Agent) {
	pos := a.body.Position()
	a.rt.Follower.Reset(pos, path.Curve{})
	a.rt.LagTarget = pos
	if tp, ok := a.targetPosition(); ok {
		a.rt.LagTarget = tp
	}
	a.rt.LoseTimer = 0
	a.signal.Emit(EventChase)
}

func tickChase(a *Agent, dt float64) {
	if a.canSeeTarget() {
		a.rt.LoseTimer = 0
	} else {
		a.rt.LoseTimer += dt
	}

	tp, ok := a.targetPosition()
	giveUp := a.rt.LoseTimer > LoseThreshold || !ok || !a.zones.IsInside(tp)
	if ok {
		a.rt.LagTarget = geom.Lerp(a.rt.LagTarget, tp, math.Min(1, LagRate*dt))
	}
	a.rt.Follower.Chase(dt, a.chase, a.zones, a.body, a.rt.LagTarget, a.turnRate)

	if giveUp {
		a.log.Debug("chase abandoned",
			zap.Float64("lose_timer", a.rt.LoseTimer),
			zap.Bool("target_present", ok))
		a.switchTo(StateReturn)
	}
}

// --- Return ---

func enterReturn(a *Agent) {
	pos := a.body.Position()
	a.rt.ReturnWait = ReturnWait
	a.planner.ClearCorners()
	if len(a.planner.Waypoints()) > 0 {
		a.rt.HasPath = a.planner.AimAtNearestWaypoint(pos)
	} else {
		a.rt.HasPath = a.planner.BuildNextPatrolPath(pos)
	}
	a.rt.Follower.Reset(pos, a.planner.Curve())
	a.signal.Emit(EventReturn)
}

func tickReturn(a *Agent, dt float64) {
	a.rt.ReturnWait -= dt
	if a.rt.ReturnWait > 0 {
		return
	}
	if a.canSeeTarget() {
		a.switchTo(StateChase)
		return
	}
	if !a.rt.HasPath {
		a.switchTo(StateIdle)
		return
	}
	if a.rt.Follower.Advance(dt, a.walk, a.zones, a.body, a.turnRate, a.cfg.ArriveDist) {
		a.switchTo(StateIdle)
	}
}
