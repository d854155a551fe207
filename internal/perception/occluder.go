package perception

import (
	"math"

	"github.com/Garsondee/Sentry-Sense/internal/geom"
)

// Ray is a sight-line query. Dir must be a unit vector.
type Ray struct {
	Origin  geom.Vec2
	Height  float64
	Dir     geom.Vec2
	MaxDist float64
	Mask    uint32
}

// Hit describes the first thing a Ray touched.
type Hit struct {
	Distance float64
	// Target is true when the hit object is the target itself, which never
	// counts as occlusion.
	Target bool
}

// Occluder answers line-of-sight queries. Implementations must be synchronous
// and free of side effects.
type Occluder interface {
	Raycast(r Ray) (Hit, bool)
}

// Obstacle is a sight blocker. Height 0 means infinitely tall; anything at or
// below eye height does not block (chest-high cover).
type Obstacle struct {
	Name   string    `mapstructure:"name"`
	Bounds geom.Rect `mapstructure:"bounds"`
	Height float64   `mapstructure:"height"`
	Layer  uint32    `mapstructure:"layer"`
}

// BlocksAt reports whether the obstacle stops a ray cast from the given eye height.
func (o Obstacle) BlocksAt(eye float64) bool {
	return o.Height <= 0 || o.Height > eye
}

// BoxOccluder tests rays against a fixed list of axis-aligned obstacles.
type BoxOccluder struct {
	Obstacles []Obstacle
}

// NewBoxOccluder creates an occluder. Obstacles with Layer 0 are placed on layer 1.
func NewBoxOccluder(obstacles ...Obstacle) *BoxOccluder {
	bo := &BoxOccluder{Obstacles: make([]Obstacle, 0, len(obstacles))}
	for _, o := range obstacles {
		if o.Layer == 0 {
			o.Layer = 1
		}
		bo.Obstacles = append(bo.Obstacles, o)
	}
	return bo
}

// Raycast returns the nearest obstacle entry along the ray.
func (bo *BoxOccluder) Raycast(r Ray) (Hit, bool) {
	end := r.Origin.Add(r.Dir.Mul(r.MaxDist))
	bestT := math.Inf(1)
	for _, o := range bo.Obstacles {
		if o.Layer&r.Mask == 0 || !o.BlocksAt(r.Height) {
			continue
		}
		t, hit := o.Bounds.SegmentHitT(r.Origin, end)
		if hit && t < bestT {
			bestT = t
		}
	}
	if math.IsInf(bestT, 1) {
		return Hit{}, false
	}
	return Hit{Distance: bestT * r.MaxDist}, true
}

// HasLineOfSight reports whether the straight line a->b crosses no obstacle
// that blocks at eye height.
func (bo *BoxOccluder) HasLineOfSight(a, b geom.Vec2, eye float64) bool {
	for _, o := range bo.Obstacles {
		if !o.BlocksAt(eye) {
			continue
		}
		if _, hit := o.Bounds.SegmentHitT(a, b); hit {
			return false
		}
	}
	return true
}
