package geom

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 { return d * math.Pi / 180.0 }

// HeadingTo returns the angle in radians from a toward b.
func HeadingTo(a, b Vec2) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// NormalizeAngle wraps an angle to [-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleBetween returns the unsigned angle between two directions in radians.
// Either vector being zero yields 0.
func AngleBetween(a, b Vec2) float64 {
	if a.LenSq() < 1e-18 || b.LenSq() < 1e-18 {
		return 0
	}
	return math.Abs(NormalizeAngle(b.Angle() - a.Angle()))
}

// TurnToward rotates heading toward target by at most maxStep radians.
func TurnToward(heading, target, maxStep float64) float64 {
	diff := NormalizeAngle(target - heading)
	if math.Abs(diff) <= maxStep {
		return NormalizeAngle(target)
	} else if diff > 0 {
		return NormalizeAngle(heading + maxStep)
	}
	return NormalizeAngle(heading - maxStep)
}
