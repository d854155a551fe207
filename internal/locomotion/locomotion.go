// Package locomotion integrates speed along a path and turns the body toward
// its direction of travel.
package locomotion

import (
	"math"

	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/path"
	"github.com/Garsondee/Sentry-Sense/internal/zone"
)

const (
	// MinDivisor floors the arc length when converting speed into parameter steps.
	MinDivisor = 0.01
	// LookAhead is the parameter offset sampled to derive the facing direction.
	LookAhead = 0.02
	// minFacingSq ignores facing directions shorter than 1e-2.
	minFacingSq = 1e-4
)

// Body is the pose provider and motion executor a Follower drives.
type Body interface {
	Position() geom.Vec2
	Heading() float64
	Move(delta geom.Vec2)
	SetHeading(rad float64)
}

// Profile bounds how quickly speed may change.
type Profile struct {
	MaxSpeed float64
	Accel    float64 // units/s²
	Decel    float64 // units/s²
}

// NewProfile derives acceleration and deceleration from the time taken to
// reach or leave maxSpeed.
func NewProfile(maxSpeed, accelTime, decelTime float64) Profile {
	return Profile{
		MaxSpeed: maxSpeed,
		Accel:    maxSpeed / math.Max(accelTime, 1e-6),
		Decel:    maxSpeed / math.Max(decelTime, 1e-6),
	}
}

// StoppingDistance is the distance needed to brake from v to rest at decel.
func StoppingDistance(v, decel float64) float64 {
	if decel <= 0 {
		return math.Inf(1)
	}
	return v * v / (2 * decel)
}

// Step returns the speed for the next tick. It brakes whenever the stopping
// distance covers what is left, and otherwise accelerates up to MaxSpeed.
func (p Profile) Step(v, remaining, dt float64) float64 {
	if StoppingDistance(v, p.Decel) >= remaining {
		return math.Max(0, v-p.Decel*dt)
	}
	return math.Min(p.MaxSpeed, v+p.Accel*dt)
}

// Follower tracks progress along one curve.
type Follower struct {
	Curve path.Curve
	Param float64   // progress in [0,1]
	Prev  geom.Vec2 // last sample handed to the body
	Speed float64
}

// Reset starts following c from pos at rest.
func (f *Follower) Reset(pos geom.Vec2, c path.Curve) {
	f.Curve = c
	f.Param = 0
	f.Prev = pos
	f.Speed = 0
}

// Advance moves body one tick along the curve and reports arrival.
func (f *Follower) Advance(dt float64, p Profile, zs *zone.Set, body Body, turnRate, arriveDist float64) bool {
	remaining := f.Curve.Length * (1 - f.Param)
	f.Speed = p.Step(f.Speed, remaining, dt)

	f.Param += f.Speed * dt / math.Max(MinDivisor, f.Curve.Length)
	f.Param = clamp01(f.Param)

	next := zs.Clamp(f.Curve.At(f.Param))
	body.Move(next.Sub(f.Prev))
	f.Prev = next

	ahead := f.Curve.At(math.Min(f.Param+LookAhead, 1))
	Face(body, ahead.Sub(next), turnRate*dt)

	return f.Param >= 1 || next.Dist(f.Curve.P2) < arriveDist
}

// Chase moves body one tick toward dest along a straight curve rebuilt from
// the current position. Progress restarts every tick so a moving dest never
// drags the body along a stale line.
func (f *Follower) Chase(dt float64, p Profile, zs *zone.Set, body Body, dest geom.Vec2, turnRate float64) {
	pos := body.Position()
	dest = zs.Clamp(dest)
	f.Curve = path.NewCurve(pos, geom.Midpoint(pos, dest), dest)
	f.Prev = pos

	dist := f.Curve.Length
	f.Speed = p.Step(f.Speed, dist, dt)
	step := math.Min(f.Speed*dt, dist)
	f.Param = clamp01(step / math.Max(MinDivisor, dist))

	next := zs.Clamp(geom.Lerp(pos, dest, f.Param))
	body.Move(next.Sub(f.Prev))
	f.Prev = next

	Face(body, dest.Sub(next), turnRate*dt)
}

// Face rotates body toward dir by at most maxStep radians. Very short
// directions are ignored so the body never spins on the spot.
func Face(body Body, dir geom.Vec2, maxStep float64) {
	if dir.LenSq() <= minFacingSq {
		return
	}
	body.SetHeading(geom.TurnToward(body.Heading(), dir.Angle(), maxStep))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
