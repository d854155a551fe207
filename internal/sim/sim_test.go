package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Garsondee/Sentry-Sense/internal/agent"
	"github.com/Garsondee/Sentry-Sense/internal/config"
	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/zone"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// lShape is two overlapping corridors meeting at the origin corner.
func lShape() SimOption {
	return WithZoneRects(geom.R(0, 0, 10, 4), geom.R(0, 0, 4, 10))
}

func newSim(t *testing.T, opts ...SimOption) *Sim {
	t.Helper()
	s, err := NewSim(opts...)
	require.NoError(t, err)
	return s
}

func TestSim_PatrolsLShapeWithoutLeavingZones(t *testing.T) {
	s := newSim(t,
		lShape(),
		WithSeed(3),
		WithSpawn(geom.V(2, 2), 0),
		WithWaypoints(geom.V(8, 2), geom.V(2, 8)),
	)
	s.RunTicks(3000)

	if s.Violations != 0 {
		t.Log(s.SimLog.Format())
	}
	assert.Zero(t, s.Violations)
	assert.Greater(t, s.PatrolLegs, 2)
	assert.Positive(t, s.CornerRoutes, "diagonal leg should route via the corner")
	assert.True(t, s.SimLog.HasEntry("path", "corner_queued", ""))
	assert.True(t, s.SimLog.HasEntry("state", "change", "Idle → PatrolMove"))
	assert.Zero(t, s.Chases)
}

func TestSim_SpawnIsClampedIntoZones(t *testing.T) {
	s := newSim(t, WithZoneRects(geom.R(0, 0, 10, 4)), WithSpawn(geom.V(20, 20), 0))
	assert.True(t, s.Zones.IsInside(s.Pawn.Position()))
}

func TestSim_StartEmitsIdleEvent(t *testing.T) {
	s := newSim(t, WithZoneRects(geom.R(0, 0, 10, 4)), WithSpawn(geom.V(2, 2), 0))
	entries := s.SimLog.Filter("signal", "")
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Tick)
	assert.Contains(t, []string{agent.EventIdleLook, agent.EventIdleBreath}, entries[0].Key)
}

func TestSim_SpotsTargetAndChases(t *testing.T) {
	s := newSim(t,
		WithZoneRects(geom.R(0, 0, 10, 4)),
		WithSpawn(geom.V(2, 2), 0),
		WithTarget(&StaticTarget{Pos: geom.V(5, 2)}),
	)
	tick := s.RunUntil(func(s *Sim) bool { return s.Agent.State() == agent.StateChase }, 10)

	assert.Equal(t, 1, tick)
	assert.Equal(t, 1, s.FirstContactTick)
	assert.Equal(t, 1, s.Chases)
	assert.True(t, s.SimLog.HasEntry("vision", "contact_new", "(5.00,2.00)"))
	assert.True(t, s.SimLog.HasEntry("signal", agent.EventChase, ""))
	assert.True(t, s.SimLog.HasEntry("state", "change", "Idle → Chase"))

	s.RunTicks(60)
	assert.Less(t, s.Pawn.Position().Dist(geom.V(5, 2)), 3.0, "sentry closes in")
}

func TestSim_GivesUpWhenTargetVanishes(t *testing.T) {
	target := &StaticTarget{Pos: geom.V(5, 2)}
	s := newSim(t,
		WithZoneRects(geom.R(0, 0, 10, 4)),
		WithSpawn(geom.V(2, 2), 0),
		WithTarget(target),
	)
	s.RunTicks(5)
	require.Equal(t, agent.StateChase, s.Agent.State())

	target.Hidden = true
	s.RunTicks(1)

	assert.Equal(t, agent.StateReturn, s.Agent.State())
	assert.Equal(t, 1, s.GiveUps)
	assert.True(t, s.SimLog.HasEntry("state", "change", "Chase → Return"))
	assert.True(t, s.SimLog.HasEntry("vision", "contact_lost", ""))
}

func TestSim_WallBlocksSight(t *testing.T) {
	s := newSim(t,
		WithZoneRects(geom.R(0, 0, 10, 4)),
		WithObstacle("wall", geom.R(3, 0, 4, 4)),
		WithSpawn(geom.V(1, 2), 0),
		WithTarget(&StaticTarget{Pos: geom.V(6, 2)}),
	)
	s.RunTicks(1)
	assert.Equal(t, agent.StateIdle, s.Agent.State())
	assert.Equal(t, -1, s.FirstContactTick)
}

func TestSim_RunUntilTimesOut(t *testing.T) {
	s := newSim(t, WithZoneRects(geom.R(0, 0, 10, 4)), WithSpawn(geom.V(2, 2), 0))
	got := s.RunUntil(func(s *Sim) bool { return s.Agent.State() == agent.StateChase }, 50)
	assert.Equal(t, -1, got)
	assert.Equal(t, 50, s.CurrentTick())
	assert.InDelta(t, 50.0/DefaultTickRate, s.Elapsed(), 1e-9)
}

func TestSim_SameSeedSameLog(t *testing.T) {
	run := func() string {
		s := newSim(t,
			lShape(),
			WithSeed(11),
			WithVerbose(true),
			WithSpawn(geom.V(2, 2), 0),
			WithTarget(NewWanderTarget(5, geom.V(2, 8), 1, 0.3, geom.R(0, 0, 10, 10))),
		)
		s.RunTicks(600)
		return s.SimLog.Format()
	}
	assert.Equal(t, run(), run())
}

func TestSim_Snapshot(t *testing.T) {
	s := newSim(t,
		WithLabel("N1"),
		WithZoneRects(geom.R(0, 0, 10, 4)),
		WithSpawn(geom.V(2, 2), math.Pi/2),
		WithTarget(&StaticTarget{Pos: geom.V(9, 1)}),
	)
	s.RunTicks(2)
	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Tick)
	assert.Equal(t, "N1", snap.Label)
	assert.Equal(t, agent.StateIdle, snap.State)
	assert.Equal(t, geom.V(2, 2), snap.Position)
	assert.True(t, snap.TargetPresent)
	assert.Equal(t, geom.V(9, 1), snap.Target)
	assert.False(t, snap.Seen)
}

func TestSim_InvalidAgentConfig(t *testing.T) {
	cfg := agent.DefaultConfig()
	cfg.WalkSpeed = 0
	_, err := NewSim(WithAgentConfig(cfg))
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrInvalidConfig)
}

func TestSim_StateTicksSumToRun(t *testing.T) {
	s := newSim(t, lShape(), WithSpawn(geom.V(2, 2), 0), WithWaypoints(geom.V(8, 2)))
	s.RunTicks(400)
	total := 0
	for _, n := range s.StateTicks {
		total += n
	}
	assert.Equal(t, 400, total)
}

// --- Pawn ---

func TestPawn_BlockedAxisSlides(t *testing.T) {
	p := NewPawn(geom.V(1, 0), 0, 0.25, nil)
	p.obstacles = append(p.obstacles, geom.R(2, -1, 3, 1).Inflate(0.25))

	p.Move(geom.V(2, 0.5))
	assert.Equal(t, geom.V(1, 0.5), p.Position())
	assert.Equal(t, 1, p.Collisions)
	assert.InDelta(t, 0.5, p.Travelled, 1e-9)
}

func TestPawn_FreeMove(t *testing.T) {
	p := NewPawn(geom.V(0, 0), 0, 0.25, nil)
	p.Move(geom.V(3, 4))
	assert.Equal(t, geom.V(3, 4), p.Position())
	assert.Zero(t, p.Collisions)
	assert.InDelta(t, 5, p.Travelled, 1e-9)
}

// --- Targets ---

func TestRouteTarget_Loops(t *testing.T) {
	r := NewRouteTarget([]geom.Vec2{geom.V(0, 0), geom.V(1, 0)}, 1, true)
	r.Update(0.5)
	pos, ok := r.TargetPosition()
	require.True(t, ok)
	assert.InDelta(t, 0.5, pos.X, 1e-9)

	r.Update(1.0)
	pos, _ = r.TargetPosition()
	assert.InDelta(t, 0.5, pos.X, 1e-9, "wrapped back toward the start")
	assert.False(t, r.Done())
}

func TestRouteTarget_StopsAtEnd(t *testing.T) {
	r := NewRouteTarget([]geom.Vec2{geom.V(0, 0), geom.V(1, 0), geom.V(1, 1)}, 2, false)
	r.Update(5)
	pos, _ := r.TargetPosition()
	assert.Equal(t, geom.V(1, 1), pos)
	assert.True(t, r.Done())
}

func TestRouteTarget_CoincidentPointsTerminate(t *testing.T) {
	r := NewRouteTarget([]geom.Vec2{geom.V(1, 1), geom.V(1, 1)}, 1, true)
	r.Update(1)
	pos, _ := r.TargetPosition()
	assert.Equal(t, geom.V(1, 1), pos)
}

func TestWanderTarget_StaysInBoundsAndIsReproducible(t *testing.T) {
	bounds := geom.R(0, 0, 6, 3)
	a := NewWanderTarget(9, geom.V(3, 1.5), 2, 0.4, bounds)
	b := NewWanderTarget(9, geom.V(3, 1.5), 2, 0.4, bounds)
	for i := 0; i < 1000; i++ {
		a.Update(1.0 / 30)
		b.Update(1.0 / 30)
		pa, _ := a.TargetPosition()
		pb, _ := b.TargetPosition()
		require.Equal(t, pa, pb)
		require.True(t, pa.X >= 0 && pa.X <= 6 && pa.Y >= 0 && pa.Y <= 3, "left bounds at %v", pa)
	}
}

func TestStaticTarget_Hidden(t *testing.T) {
	st := &StaticTarget{Pos: geom.V(1, 2), Hidden: true}
	_, ok := st.TargetPosition()
	assert.False(t, ok)
}

// --- Config wiring ---

func TestNewTarget_Kinds(t *testing.T) {
	zs := zone.FromRects(geom.R(0, 0, 10, 4))

	got, err := NewTarget(config.TargetConfig{Kind: config.TargetNone}, zs, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = NewTarget(config.TargetConfig{Kind: config.TargetStatic, Points: []geom.Vec2{{X: 3, Y: 1}}}, zs, 1)
	require.NoError(t, err)
	assert.IsType(t, &StaticTarget{}, got)

	got, err = NewTarget(config.TargetConfig{Kind: config.TargetRoute, Points: []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}, Speed: 1}, zs, 1)
	require.NoError(t, err)
	assert.IsType(t, &RouteTarget{}, got)

	got, err = NewTarget(config.TargetConfig{Kind: config.TargetWander, Speed: 1, NoiseScale: 0.2}, zs, 1)
	require.NoError(t, err)
	w, ok := got.(*WanderTarget)
	require.True(t, ok)
	assert.Equal(t, geom.R(0, 0, 10, 4), w.bounds, "defaults to zone bounds")
	assert.Equal(t, geom.V(5, 2), w.pos)

	_, err = NewTarget(config.TargetConfig{Kind: "ghost"}, zs, 1)
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Zones = []zone.Region{{Name: "yard", Bounds: geom.R(0, 0, 10, 4)}}
	cfg.Waypoints = []geom.Vec2{{X: 8, Y: 2}, {X: 2, Y: 2}}
	cfg.Sim.SpawnPosition = geom.V(1, 2)
	cfg.Sim.TickRate = 60
	cfg.Target = config.TargetConfig{Kind: config.TargetStatic, Points: []geom.Vec2{{X: 4, Y: 2}}}

	opts, err := FromConfig(cfg, 99)
	require.NoError(t, err)
	s := newSim(t, opts...)

	assert.Equal(t, int64(99), s.Seed)
	assert.InDelta(t, 1.0/60, s.Dt, 1e-12)
	assert.Equal(t, []geom.Vec2{{X: 8, Y: 2}, {X: 2, Y: 2}}, s.Agent.Waypoints())
	require.NotNil(t, s.Target)

	s.RunTicks(1)
	assert.Equal(t, agent.StateChase, s.Agent.State())
}

func TestFromConfig_BadTarget(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Target.Kind = "ghost"
	_, err := FromConfig(cfg, 1)
	assert.Error(t, err)
}
