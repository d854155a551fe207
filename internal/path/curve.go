// Package path builds the curved routes a sentry patrols along and picks
// where it patrols to next.
package path

import (
	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/zone"
)

// ArcSegments is the number of chords used to approximate arc length and the
// number of intervals sampled when validating containment (11 points).
const ArcSegments = 10

// Curve is a quadratic Bezier from P0 through control P1 to P2.
type Curve struct {
	P0, P1, P2 geom.Vec2
	Length     float64
}

// NewCurve builds a curve and measures its length.
func NewCurve(p0, p1, p2 geom.Vec2) Curve {
	return Curve{P0: p0, P1: p1, P2: p2, Length: ArcLength(p0, p1, p2)}
}

// Bezier evaluates the quadratic curve a, b, c at t.
func Bezier(a, b, c geom.Vec2, t float64) geom.Vec2 {
	u := 1 - t
	return a.Mul(u * u).Add(b.Mul(2 * u * t)).Add(c.Mul(t * t))
}

// At evaluates the curve at parameter t.
func (c Curve) At(t float64) geom.Vec2 { return Bezier(c.P0, c.P1, c.P2, t) }

// ArcLength sums chord lengths over ArcSegments equal parameter steps.
func ArcLength(a, b, c geom.Vec2) float64 {
	l := 0.0
	prev := a
	for i := 1; i <= ArcSegments; i++ {
		p := Bezier(a, b, c, float64(i)/ArcSegments)
		l += prev.Dist(p)
		prev = p
	}
	return l
}

// Inside reports whether all 11 validation samples lie in the zone set.
func (c Curve) Inside(zs *zone.Set) bool {
	for i := 0; i <= ArcSegments; i++ {
		if !zs.IsInside(c.At(float64(i) / ArcSegments)) {
			return false
		}
	}
	return true
}

// Samples returns n+1 evenly spaced points for drawing.
func (c Curve) Samples(n int) []geom.Vec2 {
	if n < 1 {
		n = 1
	}
	out := make([]geom.Vec2, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, c.At(float64(i)/float64(n)))
	}
	return out
}
