// Package zone answers containment questions for the area a sentry may occupy.
// The allowed area is the union of axis-aligned regions; an empty set is
// unconstrained.
package zone

import (
	"math"
	"math/rand"

	"github.com/Garsondee/Sentry-Sense/internal/geom"
)

const (
	// ClampMargin keeps clamped points off region boundaries, where IsInside is false.
	ClampMargin = 0.05
	// RandomAttempts bounds RandomInside before it falls back to a region centre.
	RandomAttempts = 30
	// SegmentSamples is the number of intervals checked along a straight segment (11 points).
	SegmentSamples = 10
)

// Region is one authored area. Children are flattened into the owning Set.
type Region struct {
	Name     string    `mapstructure:"name"`
	Bounds   geom.Rect `mapstructure:"bounds"`
	Children []Region  `mapstructure:"children"`
}

// Set is the flattened, read-only union of regions. Safe to share between agents.
type Set struct {
	rects []geom.Rect
}

// NewSet flattens regions depth-first, parent before children. Regions with
// empty bounds act as grouping nodes and contribute only their children.
func NewSet(regions ...Region) *Set {
	s := &Set{}
	for _, r := range regions {
		s.flatten(r)
	}
	return s
}

// FromRects builds a Set directly from boxes.
func FromRects(rects ...geom.Rect) *Set {
	s := &Set{}
	for _, r := range rects {
		if !r.Empty() {
			s.rects = append(s.rects, r)
		}
	}
	return s
}

func (s *Set) flatten(r Region) {
	if !r.Bounds.Empty() {
		s.rects = append(s.rects, r.Bounds)
	}
	for _, c := range r.Children {
		s.flatten(c)
	}
}

// Empty reports whether the set is unconstrained.
func (s *Set) Empty() bool { return s == nil || len(s.rects) == 0 }

// Rects returns a copy of the flattened regions in order.
func (s *Set) Rects() []geom.Rect {
	if s == nil {
		return nil
	}
	out := make([]geom.Rect, len(s.rects))
	copy(out, s.rects)
	return out
}

// Bounds returns the box enclosing every region, or the zero Rect when empty.
func (s *Set) Bounds() geom.Rect {
	if s.Empty() {
		return geom.Rect{}
	}
	b := s.rects[0]
	for _, r := range s.rects[1:] {
		b.Min.X = math.Min(b.Min.X, r.Min.X)
		b.Min.Y = math.Min(b.Min.Y, r.Min.Y)
		b.Max.X = math.Max(b.Max.X, r.Max.X)
		b.Max.Y = math.Max(b.Max.Y, r.Max.Y)
	}
	return b
}

// IsInside reports whether p lies strictly inside at least one region.
func (s *Set) IsInside(p geom.Vec2) bool {
	if s.Empty() {
		return true
	}
	for _, r := range s.rects {
		if r.ContainsOpen(p) {
			return true
		}
	}
	return false
}

// Clamp pulls an outside point into the allowed area. Points already inside
// are returned as-is; everything else goes through ClampSequential, which is
// the literal region-by-region clamp.
func (s *Set) Clamp(p geom.Vec2) geom.Vec2 {
	if s.Empty() || s.IsInside(p) {
		return p
	}
	return s.ClampSequential(p)
}

// ClampSequential clamps p into every region in order, inside points
// included. The result is only guaranteed valid for the last region; with
// disjoint regions callers must re-check IsInside. With overlapping regions it
// tends to land in the overlap, which is what corner routing wants.
func (s *Set) ClampSequential(p geom.Vec2) geom.Vec2 {
	if s.Empty() {
		return p
	}
	for _, r := range s.rects {
		p = r.Clamp(p, ClampMargin)
	}
	return p
}

// RandomInside samples a uniformly random region, then a uniform point in it.
// It returns origin when the set is empty and the first region's centre when
// every attempt misses.
func (s *Set) RandomInside(rng *rand.Rand, origin geom.Vec2) geom.Vec2 {
	if s.Empty() {
		return origin
	}
	for t := 0; t < RandomAttempts; t++ {
		r := s.rects[rng.Intn(len(s.rects))]
		p := geom.Vec2{
			X: r.Min.X + rng.Float64()*(r.Max.X-r.Min.X),
			Y: r.Min.Y + rng.Float64()*(r.Max.Y-r.Min.Y),
		}
		if s.IsInside(p) {
			return p
		}
	}
	return s.rects[0].Center()
}

// SegmentInside samples the straight segment a->b at 11 evenly spaced points.
func (s *Set) SegmentInside(a, b geom.Vec2) bool {
	if s.Empty() {
		return true
	}
	for i := 0; i <= SegmentSamples; i++ {
		if !s.IsInside(geom.Lerp(a, b, float64(i)/SegmentSamples)) {
			return false
		}
	}
	return true
}
