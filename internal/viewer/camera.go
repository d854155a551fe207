package viewer

import (
	"math"

	"github.com/Garsondee/Sentry-Sense/internal/geom"
)

// Camera maps world metres onto screen pixels. World +Y points down the
// screen, matching ebiten.
type Camera struct {
	Scale float64 // pixels per metre
	OffX  float64
	OffY  float64
}

// FitCamera centres bounds in a w×h viewport with pad pixels on every side.
// Empty bounds get a 20 m square around the origin.
func FitCamera(bounds geom.Rect, w, h, pad float64) Camera {
	if bounds.Empty() {
		bounds = geom.R(-10, -10, 10, 10)
	}
	size := bounds.Size()
	scale := math.Min((w-2*pad)/size.X, (h-2*pad)/size.Y)
	if scale <= 0 {
		scale = 1
	}
	c := bounds.Center()
	return Camera{
		Scale: scale,
		OffX:  w/2 - c.X*scale,
		OffY:  h/2 - c.Y*scale,
	}
}

// ToScreen converts a world point to pixel coordinates.
func (c Camera) ToScreen(p geom.Vec2) (float32, float32) {
	return float32(p.X*c.Scale + c.OffX), float32(p.Y*c.Scale + c.OffY)
}

// ToWorld converts pixel coordinates back to a world point.
func (c Camera) ToWorld(x, y float64) geom.Vec2 {
	return geom.V((x-c.OffX)/c.Scale, (y-c.OffY)/c.Scale)
}

// Len converts a world distance to pixels.
func (c Camera) Len(d float64) float32 { return float32(d * c.Scale) }
