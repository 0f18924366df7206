package vmath

import (
	"testing"

	"pgregory.net/rapid"
)

func genUnitV2(t *rapid.T, label string) V2 {
	return V2{
		X: float32(rapid.Float64Range(0, 1).Draw(t, label+"_x")),
		Y: float32(rapid.Float64Range(0, 1).Draw(t, label+"_y")),
	}
}

func TestConcentricSampleDiskBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := genUnitV2(t, "u")
		p := ConcentricSampleDisk(u)
		if lenSq := p.X*p.X + p.Y*p.Y; lenSq > 1+1e-4 {
			t.Fatalf("disk sample %v has |p|^2=%v > 1", p, lenSq)
		}
	})
}

func TestUniformSampleSphereIsUnit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := genUnitV2(t, "u")
		p := UniformSampleSphere(u)
		if lenSq := p.LenSq(); !Aeq(lenSq, 1) {
			t.Fatalf("sphere sample %v has |p|^2=%v != 1", p, lenSq)
		}
	})
}

func TestUniformSampleTriangleWeights(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := genUnitV2(t, "u")
		b0, b1 := UniformSampleTriangle(u)
		b2 := 1 - b0 - b1
		if b0 < -1e-4 || b1 < -1e-4 || b2 < -1e-4 {
			t.Fatalf("negative barycentric weight: %v %v %v", b0, b1, b2)
		}
		if sum := b0 + b1 + b2; !Aeq(sum, 1) {
			t.Fatalf("barycentric weights sum to %v, want 1", sum)
		}
	})
}

func TestCosineSampleHemisphereIsUpperHalf(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := genUnitV2(t, "u")
		p := CosineSampleHemisphere(u)
		if p.Z < 0 {
			t.Fatalf("cosine hemisphere sample %v has z<0", p)
		}
		if !Aeq(p.LenSq(), 1) {
			t.Fatalf("cosine hemisphere sample %v not unit length", p)
		}
	})
}

func TestPowerHeuristicSymmetry(t *testing.T) {
	w := PowerHeuristic(1, 2, 1, 2)
	if !Aeq(w, 0.5) {
		t.Fatalf("equal pdfs should weight 0.5, got %v", w)
	}
}
