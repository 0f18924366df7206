package vmath

import (
	"testing"

	"pgregory.net/rapid"
)

func TestEmptyBoundsIsUnionIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := V3{
			X: float32(rapid.Float64Range(-1e3, 1e3).Draw(t, "x")),
			Y: float32(rapid.Float64Range(-1e3, 1e3).Draw(t, "y")),
			Z: float32(rapid.Float64Range(-1e3, 1e3).Draw(t, "z")),
		}
		b := EmptyBounds3().Union(p)
		if !b.Lo.Aeq(p) || !b.Hi.Aeq(p) {
			t.Fatalf("union of empty bound with %v gave %v..%v", p, b.Lo, b.Hi)
		}
	})
}

func TestUnionContainsBothOperands(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		randPoint := func(label string) V3 {
			return V3{
				X: float32(rapid.Float64Range(-1e3, 1e3).Draw(t, label+"x")),
				Y: float32(rapid.Float64Range(-1e3, 1e3).Draw(t, label+"y")),
				Z: float32(rapid.Float64Range(-1e3, 1e3).Draw(t, label+"z")),
			}
		}
		lo, hi := randPoint("a_lo"), randPoint("a_hi")
		a := BoundsFromPoints(lo, hi)
		p := randPoint("p")
		u := a.Union(p)
		if !contains(u, lo) || !contains(u, hi) || !contains(u, p) {
			t.Fatalf("union %v..%v does not contain all inputs", u.Lo, u.Hi)
		}
	})
}

func contains(b Bounds3, p V3) bool {
	return p.X >= b.Lo.X-Epsilon && p.X <= b.Hi.X+Epsilon &&
		p.Y >= b.Lo.Y-Epsilon && p.Y <= b.Hi.Y+Epsilon &&
		p.Z >= b.Lo.Z-Epsilon && p.Z <= b.Hi.Z+Epsilon
}

func TestBoundsIntersectPHitsSlab(t *testing.T) {
	b := Bounds3{Lo: V3{-1, -1, -1}, Hi: V3{1, 1, 1}}
	origin := V3{0, 0, -5}
	dir := V3{0, 0, 1}
	invDir := V3{1 / dir.X, 1 / dir.Y, 1 / dir.Z}
	hit, tmin, tmax := b.IntersectP(origin, invDir, [3]bool{false, false, false}, 1e30)
	if !hit {
		t.Fatalf("expected ray through origin to hit the box")
	}
	if tmin != 4 || tmax != 6 {
		t.Fatalf("expected tmin=4 tmax=6, got %v %v", tmin, tmax)
	}
}

func TestBoundsIntersectPMisses(t *testing.T) {
	b := Bounds3{Lo: V3{-1, -1, -1}, Hi: V3{1, 1, 1}}
	origin := V3{5, 5, -5}
	dir := V3{0, 0, 1}
	invDir := V3{1 / dir.X, 1 / dir.Y, 1 / dir.Z}
	hit, _, _ := b.IntersectP(origin, invDir, [3]bool{false, false, false}, 1e30)
	if hit {
		t.Fatalf("expected ray to miss the box")
	}
}
