// Package geom holds the horizontal-plane math shared by the sentry core.
// X and Y span the ground plane; height only appears where a query needs it.
package geom

import "math"

// Vec2 is a point or direction on the ground plane.
type Vec2 struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Mul(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }
func (v Vec2) DistSq(o Vec2) float64 { return v.Sub(o).LenSq() }

// Normalize returns a unit vector, or the zero vector for degenerate input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < 1e-9 {
		return Vec2{}
	}
	return v.Mul(1.0 / l)
}

// Perp returns v rotated a quarter turn clockwise (x, y) -> (y, -x).
func (v Vec2) Perp() Vec2 { return Vec2{X: v.Y, Y: -v.X} }

// Angle returns the heading of v in radians, 0 = +X.
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Lerp interpolates a→b. t is not clamped.
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Midpoint returns (a+b)/2.
func Midpoint(a, b Vec2) Vec2 { return Lerp(a, b, 0.5) }

// FromHeading returns the unit forward vector for a heading in radians.
func FromHeading(h float64) Vec2 { return Vec2{X: math.Cos(h), Y: math.Sin(h)} }
