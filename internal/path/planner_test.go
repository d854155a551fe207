package path

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/zone"
)

func lZone() *zone.Set {
	return zone.FromRects(
		geom.R(0, 0, 10, 4),
		geom.R(0, 0, 4, 10),
	)
}

func newRng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- deterministic test
}

func near(a, b geom.Vec2) bool { return a.Dist(b) < 1e-9 }

func TestArcLength_Straight(t *testing.T) {
	a, c := geom.V(0, 0), geom.V(10, 0)
	if l := ArcLength(a, geom.Midpoint(a, c), c); math.Abs(l-10) > 1e-9 {
		t.Fatalf("straight curve length should be 10, got %.6f", l)
	}
}

func TestArcLength_BentIsLonger(t *testing.T) {
	a, c := geom.V(0, 0), geom.V(10, 0)
	if l := ArcLength(a, geom.V(5, 3), c); l <= 10 {
		t.Fatalf("bent curve should be longer than its chord, got %.6f", l)
	}
}

func TestCurve_Endpoints(t *testing.T) {
	c := NewCurve(geom.V(1, 2), geom.V(3, 7), geom.V(5, 2))
	if !near(c.At(0), c.P0) || !near(c.At(1), c.P2) {
		t.Fatal("curve should start at P0 and end at P2")
	}
	if n := len(c.Samples(8)); n != 9 {
		t.Fatalf("expected 9 samples, got %d", n)
	}
}

func TestMakeBezier_RejectsDegenerate(t *testing.T) {
	p := NewPlanner(zone.NewSet(), nil, 0.8, true, newRng(1))
	if p.MakeBezier(geom.V(1, 1), geom.V(1, 1)) {
		t.Fatal("a zero-length curve should be rejected")
	}
	// The 0.8 bend makes the arc long enough; the chord alone must reject it.
	if p.MakeBezier(geom.V(1, 1), geom.V(1.05, 1)) {
		t.Fatalf("a chord shorter than the minimum length should be rejected, got length %.3f", p.Curve().Length)
	}
}

func TestBuildNextPatrolPath_SkipsWaypointUnderfoot(t *testing.T) {
	zs := zone.FromRects(geom.R(-10, -10, 10, 10))
	p := NewPlanner(zs, []geom.Vec2{geom.V(0, 0), geom.V(5, 0)}, 0.8, true, newRng(1))
	if !p.BuildNextPatrolPath(geom.V(0.05, 0)) {
		t.Fatal("expected a path to the second waypoint")
	}
	if p.WaypointIndex() != 1 {
		t.Fatalf("waypoint underfoot should be skipped, cursor at %d", p.WaypointIndex())
	}
	if !near(p.Curve().P2, geom.V(5, 0)) {
		t.Fatalf("expected leg to end at (5,0), got %+v", p.Curve().P2)
	}
}

func TestMakeBezier_BendsInOpenZone(t *testing.T) {
	p := NewPlanner(zone.FromRects(geom.R(-50, -50, 50, 50)), nil, 0.8, true, newRng(1))
	if !p.MakeBezier(geom.V(0, 0), geom.V(10, 0)) {
		t.Fatal("expected curve to build")
	}
	c := p.Curve()
	off := c.P1.Dist(geom.V(5, 0))
	if math.Abs(off-0.8) > 1e-9 {
		t.Fatalf("control point should sit 0.8 off the midpoint, got %.6f", off)
	}
	if math.Abs(c.P1.X-5) > 1e-9 {
		t.Fatalf("offset should be perpendicular to travel, got control %+v", c.P1)
	}
}

func TestMakeBezier_StraightensInNarrowCorridor(t *testing.T) {
	p := NewPlanner(zone.FromRects(geom.R(0, 0, 10, 0.5)), nil, 0.8, true, newRng(1))
	if !p.MakeBezier(geom.V(1, 0.25), geom.V(9, 0.25)) {
		t.Fatal("expected curve to build")
	}
	c := p.Curve()
	if !near(c.P1, geom.V(5, 0.25)) {
		t.Fatalf("bend leaving the corridor should collapse to the midpoint, got %+v", c.P1)
	}
	if !c.Inside(p.zones) {
		t.Fatal("straightened curve should be inside")
	}
}

func TestMakeBezier_ClampsDestination(t *testing.T) {
	p := NewPlanner(zone.FromRects(geom.R(0, 0, 10, 10)), nil, 0, true, newRng(1))
	p.MakeBezier(geom.V(5, 5), geom.V(20, 5))
	if got := p.Curve().P2; math.Abs(got.X-9.95) > 1e-9 || got.Y != 5 {
		t.Fatalf("destination should be clamped to (9.95, 5), got %+v", got)
	}
}

func TestTryPathTo_CornerRoutesAroundL(t *testing.T) {
	zs := lZone()
	p := NewPlanner(zs, nil, 0.8, true, newRng(3))
	from, dest := geom.V(8, 2), geom.V(2, 8)

	if !p.TryPathTo(from, dest) {
		t.Fatal("expected a corner-routed path")
	}
	corners := p.Corners()
	if len(corners) != 1 || !near(corners[0], dest) {
		t.Fatalf("expected the true destination queued, got %+v", corners)
	}
	first := p.Curve()
	if !near(first.P2, geom.V(2, 3.95)) {
		t.Fatalf("first hop should end at the clamped corner (2, 3.95), got %+v", first.P2)
	}
	if !first.Inside(zs) {
		t.Fatal("first hop left the zone")
	}
	if !zs.SegmentInside(from, first.P2) || !zs.SegmentInside(first.P2, dest) {
		t.Fatal("both sub-segments should stay inside")
	}

	if !p.BuildNextPatrolPath(first.P2) {
		t.Fatal("dequeuing the corner hop should succeed")
	}
	second := p.Curve()
	if !near(second.P2, dest) {
		t.Fatalf("second hop should end at the destination, got %+v", second.P2)
	}
	if !second.Inside(zs) {
		t.Fatal("second hop left the zone")
	}
	if len(p.Corners()) != 0 {
		t.Fatal("corner queue should be empty after the final hop")
	}
}

func TestTryPathTo_CorneringDisabledGoesDirect(t *testing.T) {
	p := NewPlanner(lZone(), nil, 0.8, false, newRng(3))
	if !p.TryPathTo(geom.V(8, 2), geom.V(2, 8)) {
		t.Fatal("direct build should succeed with cornering off")
	}
	if len(p.Corners()) != 0 {
		t.Fatal("no corner should be queued with cornering off")
	}
	if !near(p.Curve().P2, geom.V(2, 8)) {
		t.Fatalf("expected direct curve to the destination, got %+v", p.Curve().P2)
	}
}

func TestTryPathTo_FailsAcrossDisjointRegions(t *testing.T) {
	zs := zone.FromRects(geom.R(0, 0, 2, 2), geom.R(10, 0, 12, 2))
	p := NewPlanner(zs, nil, 0.8, true, newRng(3))
	if p.TryPathTo(geom.V(1, 1), geom.V(11, 1)) {
		t.Fatal("no route exists across the gap")
	}
	if len(p.Corners()) != 0 {
		t.Fatal("a failed attempt must not leave a queued corner")
	}
}

func TestBuildNextPatrolPath_CyclesWaypoints(t *testing.T) {
	a, b, c := geom.V(2, 2), geom.V(15, 2), geom.V(15, 15)
	p := NewPlanner(zone.FromRects(geom.R(0, 0, 20, 20)), []geom.Vec2{a, b, c}, 0.8, true, newRng(5))

	from := a
	// Starting on A, the build to A is degenerate and skipped.
	want := []geom.Vec2{b, c, a, b}
	for i, w := range want {
		if !p.BuildNextPatrolPath(from) {
			t.Fatalf("leg %d failed", i)
		}
		got := p.Curve().P2
		if !near(got, w) {
			t.Fatalf("leg %d: expected %+v, got %+v", i, w, got)
		}
		from = got
	}
}

func TestBuildNextPatrolPath_SkipsUnreachableWaypoint(t *testing.T) {
	zs := zone.FromRects(geom.R(0, 0, 10, 10), geom.R(30, 0, 40, 10))
	a, island, c := geom.V(2, 2), geom.V(35, 5), geom.V(8, 8)
	p := NewPlanner(zs, []geom.Vec2{a, island, c}, 0.8, true, newRng(5))

	if !p.BuildNextPatrolPath(a) {
		t.Fatal("expected a leg")
	}
	if got := p.Curve().P2; !near(got, c) {
		t.Fatalf("unreachable waypoint should be skipped, expected %+v got %+v", c, got)
	}
}

func TestBuildNextPatrolPath_RandomFallback(t *testing.T) {
	zs := zone.FromRects(geom.R(0, 0, 10, 10))
	p := NewPlanner(zs, nil, 0.8, true, newRng(9))
	if !p.BuildNextPatrolPath(geom.V(5, 5)) {
		t.Fatal("random roaming should find a destination")
	}
	if !zs.IsInside(p.Curve().P2) {
		t.Fatal("random destination should be inside")
	}
}

func TestBuildNextPatrolPath_AllFail(t *testing.T) {
	// A zone too thin to hold a curve longer than the minimum.
	zs := zone.FromRects(geom.R(0, 0, 0.08, 0.08))
	p := NewPlanner(zs, nil, 0.8, true, newRng(9))
	if p.BuildNextPatrolPath(geom.V(0.04, 0.04)) {
		t.Fatal("expected every attempt to fail")
	}
}

func TestAimAtNearestWaypoint(t *testing.T) {
	a, b, c := geom.V(2, 2), geom.V(15, 2), geom.V(15, 15)
	p := NewPlanner(zone.FromRects(geom.R(0, 0, 20, 20)), []geom.Vec2{a, b, c}, 0.8, true, newRng(5))
	if !p.AimAtNearestWaypoint(geom.V(14, 13)) {
		t.Fatal("expected a path to the nearest waypoint")
	}
	if got := p.Curve().P2; !near(got, c) {
		t.Fatalf("expected nearest waypoint %+v, got %+v", c, got)
	}
	if p.WaypointIndex() != 2 {
		t.Fatalf("cursor should rest on the nearest waypoint, got %d", p.WaypointIndex())
	}
}

func TestAimAtNearestWaypoint_None(t *testing.T) {
	p := NewPlanner(zone.NewSet(), nil, 0.8, true, newRng(5))
	if p.AimAtNearestWaypoint(geom.V(0, 0)) {
		t.Fatal("no waypoints should report false")
	}
}

// Every accepted leg, corner hops included, keeps all validation samples inside.
func TestBuildNextPatrolPath_ContainmentProperty(t *testing.T) {
	zs := lZone()
	wps := []geom.Vec2{geom.V(9, 1), geom.V(2, 9), geom.V(1, 1), geom.V(3, 7)}
	for seed := int64(1); seed <= 40; seed++ {
		p := NewPlanner(zs, wps, 0.8, true, newRng(seed))
		from := geom.V(8, 2)
		for leg := 0; leg < 25; leg++ {
			if !p.BuildNextPatrolPath(from) {
				continue
			}
			c := p.Curve()
			if c.Length <= MinLength {
				continue
			}
			for i := 0; i <= ArcSegments; i++ {
				pt := c.At(float64(i) / ArcSegments)
				if !zs.IsInside(pt) {
					t.Fatalf("seed %d leg %d sample %d at %+v left the zone", seed, leg, i, pt)
				}
			}
			from = c.P2
		}
	}
}
