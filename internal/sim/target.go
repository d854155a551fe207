package sim

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Garsondee/Sentry-Sense/internal/agent"
	"github.com/Garsondee/Sentry-Sense/internal/geom"
)

// Target is a scripted intruder. Update advances it by dt seconds before the
// agent ticks.
type Target interface {
	agent.TargetSource
	Update(dt float64)
}

// StaticTarget stands still. Hidden removes it from the world.
type StaticTarget struct {
	Pos    geom.Vec2
	Hidden bool
}

// TargetPosition implements agent.TargetSource.
func (s *StaticTarget) TargetPosition() (geom.Vec2, bool) { return s.Pos, !s.Hidden }

// Update implements Target.
func (s *StaticTarget) Update(float64) {}

// RouteTarget walks a polyline at constant speed. A looping route returns to
// the first point after the last; otherwise it stops at the end.
type RouteTarget struct {
	points []geom.Vec2
	speed  float64
	loop   bool
	pos    geom.Vec2
	next   int
	done   bool
}

// NewRouteTarget starts at points[0]. points must not be empty.
func NewRouteTarget(points []geom.Vec2, speed float64, loop bool) *RouteTarget {
	pts := append([]geom.Vec2(nil), points...)
	rt := &RouteTarget{points: pts, speed: speed, loop: loop, pos: pts[0]}
	if len(pts) > 1 {
		rt.next = 1
	} else {
		rt.done = true
	}
	return rt
}

// TargetPosition implements agent.TargetSource.
func (r *RouteTarget) TargetPosition() (geom.Vec2, bool) { return r.pos, true }

// Done reports whether a non-looping route reached its last point.
func (r *RouteTarget) Done() bool { return r.done }

// Update implements Target.
func (r *RouteTarget) Update(dt float64) {
	remaining := r.speed * dt
	// Bounded so a route of coincident points cannot spin forever.
	for i := 0; remaining > 0 && !r.done && i <= 2*len(r.points); i++ {
		to := r.points[r.next]
		d := r.pos.Dist(to)
		if d > remaining {
			r.pos = r.pos.Add(to.Sub(r.pos).Mul(remaining / d))
			return
		}
		r.pos = to
		remaining -= d
		r.next++
		if r.next == len(r.points) {
			if !r.loop {
				r.done = true
				return
			}
			r.next = 0
		}
	}
}

// WanderTarget drifts through bounds with a heading steered by simplex noise,
// so its path is smooth but unpredictable and reproducible per seed.
type WanderTarget struct {
	noise   opensimplex.Noise
	pos     geom.Vec2
	heading float64
	speed   float64
	scale   float64 // noise frequency in 1/s
	bounds  geom.Rect
	t       float64
}

// NewWanderTarget creates a wanderer. An empty bounds leaves it unconstrained.
func NewWanderTarget(seed int64, start geom.Vec2, speed, scale float64, bounds geom.Rect) *WanderTarget {
	return &WanderTarget{
		noise:  opensimplex.NewNormalized(seed),
		pos:    start,
		speed:  speed,
		scale:  scale,
		bounds: bounds,
	}
}

// TargetPosition implements agent.TargetSource.
func (w *WanderTarget) TargetPosition() (geom.Vec2, bool) { return w.pos, true }

// Heading returns the current drift direction in radians.
func (w *WanderTarget) Heading() float64 { return w.heading }

// Update implements Target.
func (w *WanderTarget) Update(dt float64) {
	w.t += dt
	// Two octaves: a slow sweep plus a faster wobble, both in [0,1].
	n := 0.7*w.noise.Eval2(w.t*w.scale, 0) + 0.3*w.noise.Eval2(w.t*w.scale*3, 17)
	w.heading = geom.NormalizeAngle(n * 4 * math.Pi)

	next := w.pos.Add(geom.FromHeading(w.heading).Mul(w.speed * dt))
	if !w.bounds.Empty() {
		next = w.bounds.Clamp(next, 0)
	}
	w.pos = next
}
