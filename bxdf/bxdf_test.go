package bxdf

import (
	"testing"

	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
	"pgregory.net/rapid"
)

func TestLambertianFConstantOverHemisphere(t *testing.T) {
	l := &LambertianReflection{R: spectrum.RGB(0.5, 0.5, 0.5)}
	wo := vmath.V3{X: 0, Y: 0, Z: 1}
	wi := vmath.V3{X: 0.3, Y: 0.1, Z: 0.9}.Unit()
	f := l.F(wo, wi)
	if f.C[0] <= 0 {
		t.Fatalf("expected positive reflectance, got %v", f)
	}
}

func TestLambertianSampleStaysInWoHemisphere(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := &LambertianReflection{R: spectrum.New(1)}
		woZ := rapid.Float32Range(-1, 1).Draw(rt, "woZ")
		if woZ == 0 {
			return
		}
		wo := vmath.V3{X: 0, Y: 0, Z: woZ}
		u := vmath.V2{
			X: rapid.Float32Range(0, 0.999).Draw(rt, "ux"),
			Y: rapid.Float32Range(0, 0.999).Draw(rt, "uy"),
		}
		wi, _, pdf, _ := l.Sample_f(wo, u)
		if pdf <= 0 {
			rt.Fatalf("expected positive pdf")
		}
		if wi.Z*wo.Z < 0 {
			rt.Fatalf("sampled wi %v not in wo's hemisphere (wo=%v)", wi, wo)
		}
	})
}

func TestSpecularReflectionMirrorsAcrossNormal(t *testing.T) {
	s := &SpecularReflection{R: spectrum.New(1), Fresnel: FresnelNoOp{}}
	wo := vmath.V3{X: 0.4, Y: 0.2, Z: 0.9}.Unit()
	wi, f, pdf, _ := s.Sample_f(wo, vmath.V2{})
	if !vmath.Aeq(wi.X, -wo.X) || !vmath.Aeq(wi.Y, -wo.Y) || !vmath.Aeq(wi.Z, wo.Z) {
		t.Fatalf("expected mirrored direction, got wi=%v from wo=%v", wi, wo)
	}
	if pdf != 1 {
		t.Fatalf("expected delta pdf of 1, got %v", pdf)
	}
	if f.IsBlack() {
		t.Fatalf("expected non-black weight for full reflectance Fresnel")
	}
}

func TestFresnelDielectricTotalInternalReflection(t *testing.T) {
	f := FresnelDielectric{EtaI: 1.5, EtaT: 1.0}
	r := f.Evaluate(0.1) // near-grazing while exiting a denser medium.
	if r.C[0] < 0.99 {
		t.Fatalf("expected near-total reflectance under TIR, got %v", r.C[0])
	}
}

func TestFresnelConductorReflectanceInRange(t *testing.T) {
	f := FresnelConductor{
		EtaI: spectrum.New(1),
		EtaT: spectrum.RGB(0.2, 0.9, 1.3),
		K:    spectrum.RGB(3.9, 2.5, 2.1),
	}
	r := f.Evaluate(0.6)
	for i := 0; i < spectrum.N; i++ {
		if r.C[i] < 0 || r.C[i] > 1 {
			t.Fatalf("conductor reflectance out of [0,1]: %v", r)
		}
	}
}

func TestSin2ThetaNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		z := rapid.Float32Range(-1.2, 1.2).Draw(rt, "z")
		w := vmath.V3{X: 0, Y: 0, Z: z}
		if Sin2Theta(w) < 0 {
			rt.Fatalf("Sin2Theta went negative for z=%v", z)
		}
	})
}
