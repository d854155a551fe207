package path

import (
	"math"
	"math/rand"

	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/zone"
)

const (
	// MinLength rejects degenerate curves.
	MinLength = 0.1
	// RandomAttempts bounds the random-destination fallback in BuildNextPatrolPath.
	RandomAttempts = 30
)

// Planner picks patrol destinations and builds the curve to reach them.
// It owns the corner queue; a single agent owns a single Planner.
type Planner struct {
	zones       *zone.Set
	waypoints   []geom.Vec2
	curveOffset float64
	cornering   bool
	rng         *rand.Rand

	wpIdx   int
	corners []geom.Vec2
	curve   Curve
}

// NewPlanner creates a planner. waypoints may be empty, in which case the
// planner roams random points inside zs.
func NewPlanner(zs *zone.Set, waypoints []geom.Vec2, curveOffset float64, cornering bool, rng *rand.Rand) *Planner {
	wps := make([]geom.Vec2, len(waypoints))
	copy(wps, waypoints)
	return &Planner{
		zones:       zs,
		waypoints:   wps,
		curveOffset: curveOffset,
		cornering:   cornering,
		rng:         rng,
		wpIdx:       -1,
	}
}

// Curve returns the most recently built curve.
func (p *Planner) Curve() Curve { return p.curve }

// Waypoints returns a copy of the patrol waypoints.
func (p *Planner) Waypoints() []geom.Vec2 {
	out := make([]geom.Vec2, len(p.waypoints))
	copy(out, p.waypoints)
	return out
}

// WaypointIndex returns the index of the last waypoint tried, or -1.
func (p *Planner) WaypointIndex() int { return p.wpIdx }

// Corners returns a copy of the pending corner-queue destinations, oldest first.
func (p *Planner) Corners() []geom.Vec2 {
	out := make([]geom.Vec2, len(p.corners))
	copy(out, p.corners)
	return out
}

// ClearCorners abandons any multi-hop route in progress.
func (p *Planner) ClearCorners() { p.corners = p.corners[:0] }

// BuildNextPatrolPath builds the next patrol leg from `from`. Pending corner
// hops come first, then waypoints in cyclic order, then random points.
func (p *Planner) BuildNextPatrolPath(from geom.Vec2) bool {
	if len(p.corners) > 0 {
		dest := p.corners[0]
		p.corners = p.corners[1:]
		// A hop that collapses to nothing still counts; the follower arrives at once.
		p.MakeBezier(from, dest)
		return true
	}

	for i := 0; i < len(p.waypoints); i++ {
		p.wpIdx = (p.wpIdx + 1) % len(p.waypoints)
		if p.TryPathTo(from, p.waypoints[p.wpIdx]) {
			return true
		}
	}

	for t := 0; t < RandomAttempts; t++ {
		if p.TryPathTo(from, p.zones.RandomInside(p.rng, from)) {
			return true
		}
	}
	return false
}

// AimAtNearestWaypoint rewinds the waypoint cursor so the nearest waypoint is
// tried next, then builds a patrol path. It returns false without building
// anything when there are no waypoints.
func (p *Planner) AimAtNearestWaypoint(from geom.Vec2) bool {
	if len(p.waypoints) == 0 {
		return false
	}
	best := math.MaxFloat64
	bestIdx := 0
	for i, wp := range p.waypoints {
		if d := wp.DistSq(from); d < best {
			best = d
			bestIdx = i
		}
	}
	p.wpIdx = bestIdx - 1
	return p.BuildNextPatrolPath(from)
}

// TryPathTo builds a path to dest. When the straight line leaves the zone and
// cornering is on, it routes through the clamped destination and queues dest
// as the following hop. It fails when neither route stays inside.
func (p *Planner) TryPathTo(from, dest geom.Vec2) bool {
	if !p.cornering || p.zones.SegmentInside(from, dest) {
		return p.MakeBezier(from, dest)
	}

	mid := p.zones.ClampSequential(dest)
	if !p.zones.SegmentInside(from, mid) || !p.zones.SegmentInside(mid, dest) {
		return false
	}
	p.corners = append(p.corners, dest)
	if !p.MakeBezier(from, mid) {
		p.corners = p.corners[:len(p.corners)-1]
		return false
	}
	return true
}

// MakeBezier bends a curve from `from` to the clamped dest by CurveOffset on
// a random side, straightening it when the bend would leave the zone. It
// fails when either the chord or the curve is no longer than MinLength, so a
// destination underfoot is skipped rather than looped around.
func (p *Planner) MakeBezier(from, dest geom.Vec2) bool {
	p0 := from
	p2 := p.zones.Clamp(dest)
	mid := geom.Midpoint(p0, p2)
	perp := p2.Sub(p0).Normalize().Perp()

	side := -1.0
	if p.rng.Float64() > 0.5 {
		side = 1.0
	}
	c := NewCurve(p0, mid.Add(perp.Mul(p.curveOffset*side)), p2)
	if !c.Inside(p.zones) {
		c = NewCurve(p0, mid, p2)
	}
	p.curve = c
	return p0.Dist(p2) > MinLength && c.Length > MinLength
}
