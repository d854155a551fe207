package geom

import (
	"math"
	"testing"
)

func TestNormalizeAngle_Positive(t *testing.T) {
	a := NormalizeAngle(3 * math.Pi)
	if math.Abs(math.Abs(a)-math.Pi) > 1e-9 {
		t.Fatalf("3π should normalize to ±π, got %.4f", a)
	}
}

func TestNormalizeAngle_Zero(t *testing.T) {
	if NormalizeAngle(0) != 0 {
		t.Fatal("0 should normalize to 0")
	}
}

func TestHeadingTo(t *testing.T) {
	if h := HeadingTo(V(0, 0), V(1, 0)); h != 0 {
		t.Fatalf("heading to +X should be 0, got %.4f", h)
	}
	if h := HeadingTo(V(0, 0), V(0, 1)); math.Abs(h-math.Pi/2) > 1e-9 {
		t.Fatalf("heading to +Y should be π/2, got %.4f", h)
	}
}

func TestTurnToward_SmallDiffSnaps(t *testing.T) {
	if h := TurnToward(0, 0.05, 0.12); h != 0.05 {
		t.Fatalf("expected heading to snap to 0.05, got %.4f", h)
	}
}

func TestTurnToward_LargeDiffSteps(t *testing.T) {
	rate := 0.12
	if h := TurnToward(0, math.Pi-0.01, rate); math.Abs(h-rate) > 1e-9 {
		t.Fatalf("expected heading %.4f got %.4f", rate, h)
	}
	if h := TurnToward(0, -math.Pi+0.01, rate); math.Abs(h+rate) > 1e-9 {
		t.Fatalf("expected heading %.4f got %.4f", -rate, h)
	}
}

func TestTurnToward_WrapsShortWay(t *testing.T) {
	// From just below +π to just above -π is a short step across the seam.
	h := TurnToward(math.Pi-0.05, -math.Pi+0.05, 0.2)
	if math.Abs(NormalizeAngle(h-(-math.Pi+0.05))) > 1e-9 {
		t.Fatalf("expected to reach target across the seam, got %.4f", h)
	}
}

func TestAngleBetween(t *testing.T) {
	if a := AngleBetween(V(1, 0), V(0, 1)); math.Abs(a-math.Pi/2) > 1e-9 {
		t.Fatalf("expected π/2, got %.4f", a)
	}
	if a := AngleBetween(V(1, 0), V(0, 0)); a != 0 {
		t.Fatalf("zero vector should give 0, got %.4f", a)
	}
}

func TestPerp_IsOrthogonal(t *testing.T) {
	v := V(3, 4)
	if d := v.Dot(v.Perp()); math.Abs(d) > 1e-12 {
		t.Fatalf("perp should be orthogonal, dot=%.6f", d)
	}
}

func TestRect_ContainsOpenExcludesBoundary(t *testing.T) {
	r := R(0, 0, 10, 10)
	if !r.ContainsOpen(V(5, 5)) {
		t.Fatal("centre should be inside")
	}
	if r.ContainsOpen(V(0, 5)) || r.ContainsOpen(V(10, 5)) {
		t.Fatal("boundary should be outside")
	}
}

func TestRect_ClampMargin(t *testing.T) {
	r := R(0, 0, 10, 10)
	p := r.Clamp(V(-5, 20), 0.05)
	if p.X != 0.05 || p.Y != 9.95 {
		t.Fatalf("expected (0.05, 9.95), got (%.3f, %.3f)", p.X, p.Y)
	}
}

func TestRect_SegmentHit(t *testing.T) {
	r := R(40, 0, 60, 200)
	if _, hit := r.SegmentHitT(V(0, 100), V(200, 100)); !hit {
		t.Fatal("expected segment through box to hit")
	}
	if _, hit := r.SegmentHitT(V(0, 100), V(30, 100)); hit {
		t.Fatal("segment ending before box should not hit")
	}
	tHit, _ := r.SegmentHitT(V(0, 100), V(100, 100))
	if math.Abs(tHit-0.4) > 1e-9 {
		t.Fatalf("expected entry at t=0.4, got %.4f", tHit)
	}
}

func TestRect_SegmentHit_ZeroLength(t *testing.T) {
	r := R(0, 0, 100, 100)
	// A point segment must not panic.
	_, _ = r.SegmentHitT(V(50, 50), V(50, 50))
}
