package geom

import "math"

// Rect is an axis-aligned box on the ground plane.
type Rect struct {
	Min Vec2 `mapstructure:"min"`
	Max Vec2 `mapstructure:"max"`
}

// R builds a Rect from two corners in any order.
func R(x0, y0, x1, y1 float64) Rect {
	return Rect{
		Min: Vec2{X: math.Min(x0, x1), Y: math.Min(y0, y1)},
		Max: Vec2{X: math.Max(x0, x1), Y: math.Max(y0, y1)},
	}
}

// Empty reports whether the box has no area.
func (r Rect) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// ContainsOpen reports whether p lies strictly inside r. Boundary points are outside.
func (r Rect) ContainsOpen(p Vec2) bool {
	return p.X > r.Min.X && p.X < r.Max.X &&
		p.Y > r.Min.Y && p.Y < r.Max.Y
}

// Clamp pulls p into [min+margin, max-margin] on both axes.
func (r Rect) Clamp(p Vec2, margin float64) Vec2 {
	return Vec2{
		X: clamp(p.X, r.Min.X+margin, r.Max.X-margin),
		Y: clamp(p.Y, r.Min.Y+margin, r.Max.Y-margin),
	}
}

func (r Rect) Center() Vec2 { return Midpoint(r.Min, r.Max) }
func (r Rect) Size() Vec2 { return r.Max.Sub(r.Min) }

// Inflate grows r by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{
		Min: Vec2{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Vec2{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// SegmentHitT returns the first parameter t in [0,1] where the segment a->b
// enters r. The bool is false when no hit exists.
func (r Rect) SegmentHitT(a, b Vec2) (float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	tMin := 0.0
	tMax := 1.0

	// X slab
	if math.Abs(dx) < 1e-12 {
		if a.X < r.Min.X || a.X > r.Max.X {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (r.Min.X - a.X) * invD
		t2 := (r.Max.X - a.X) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Y slab
	if math.Abs(dy) < 1e-12 {
		if a.Y < r.Min.Y || a.Y > r.Max.Y {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (r.Min.Y - a.Y) * invD
		t2 := (r.Max.Y - a.Y) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return tMin, true
}

func clamp(v, lo, hi float64) float64 {
	// An inverted range (box thinner than twice the margin) collapses to its centre.
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
