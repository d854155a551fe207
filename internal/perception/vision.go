// Package perception decides whether a sentry can currently see its target.
package perception

import (
	"math"

	"github.com/Garsondee/Sentry-Sense/internal/geom"
)

const (
	// Default vision parameters.
	DefaultFOVDeg    = 60.0
	DefaultViewRange = 8.0
	DefaultEyeHeight = 0.1
)

// AllLayers is a mask that matches every occluder layer.
const AllLayers uint32 = ^uint32(0)

// Pose is an observer's position and facing.
type Pose struct {
	Position geom.Vec2
	Heading  float64 // radians, 0 = +X
}

// Forward returns the unit facing vector.
func (p Pose) Forward() geom.Vec2 { return geom.FromHeading(p.Heading) }

// Vision is a stateless sight predicate: range, cone, then occlusion.
type Vision struct {
	FOV       float64 // radians, total arc width
	Range     float64
	EyeHeight float64
	Mask      uint32

	occluder Occluder
}

// NewVision creates a vision predicate. fovDeg is the full cone width in degrees.
// A nil occluder means nothing ever blocks sight.
func NewVision(fovDeg, viewRange float64, occ Occluder) *Vision {
	return &Vision{
		FOV:       geom.Deg2Rad(fovDeg),
		Range:     viewRange,
		EyeHeight: DefaultEyeHeight,
		Mask:      AllLayers,
		occluder:  occ,
	}
}

// SetOccluder swaps the occlusion query.
func (v *Vision) SetOccluder(occ Occluder) { v.occluder = occ }

// InCone reports whether target is within range and inside the view cone.
// Range is exclusive: a target exactly at Range is not seen.
func (v *Vision) InCone(agent Pose, target geom.Vec2) bool {
	to := target.Sub(agent.Position)
	if to.LenSq() >= v.Range*v.Range {
		return false
	}
	if to.LenSq() < 1e-12 {
		return true
	}
	return geom.AngleBetween(agent.Forward(), to) <= v.FOV/2.0
}

// CanSeeTarget reports whether the target is visible this tick. A nil target
// fails closed.
func (v *Vision) CanSeeTarget(agent Pose, target *geom.Vec2) bool {
	if target == nil {
		return false
	}
	if !v.InCone(agent, *target) {
		return false
	}
	if v.occluder == nil {
		return true
	}

	to := target.Sub(agent.Position)
	dist := to.Len()
	if dist < 1e-6 {
		return true
	}
	hit, ok := v.occluder.Raycast(Ray{
		Origin:  agent.Position,
		Height:  v.EyeHeight,
		Dir:     to.Mul(1 / dist),
		MaxDist: v.Range,
		Mask:    v.Mask,
	})
	if !ok || hit.Target {
		return true
	}
	return hit.Distance >= dist
}

// Cone returns the two edge directions of the view fan, scaled to Range.
func (v *Vision) Cone(agent Pose) (left, right geom.Vec2) {
	half := v.FOV / 2.0
	left = geom.FromHeading(agent.Heading - half).Mul(v.Range)
	right = geom.FromHeading(agent.Heading + half).Mul(v.Range)
	return left, right
}

// ClipRay returns how far along heading a sight line travels before the
// occluder stops it, capped at Range. Used for drawing.
func (v *Vision) ClipRay(origin geom.Vec2, heading float64) float64 {
	if v.occluder == nil {
		return v.Range
	}
	hit, ok := v.occluder.Raycast(Ray{
		Origin:  origin,
		Height:  v.EyeHeight,
		Dir:     geom.FromHeading(heading),
		MaxDist: v.Range,
		Mask:    v.Mask,
	})
	if !ok {
		return v.Range
	}
	return math.Min(hit.Distance, v.Range)
}
