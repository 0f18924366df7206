// Package bxdf implements the renderer's local-frame scattering model:
// individual BxDF lobes (Lambertian diffuse, specular reflection and
// transmission with Fresnel weighting) and Fresnel dielectric/conductor
// terms, composed by BSDF into the multi-lobe, MIS-ready sampler the
// integrators drive. Every direction here is in "local" shading space,
// where the surface normal is +Z; BSDF (bsdf.go) owns the world<->local
// change of basis.
package bxdf

import (
	"math"

	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Type is a bitmask over {Reflection,Transmission} x {Diffuse,Glossy,Specular}.
type Type int

const (
	Reflection Type = 1 << iota
	Transmission
	Diffuse
	Glossy
	Specular

	All = Reflection | Transmission | Diffuse | Glossy | Specular
)

// BxDF is a single scattering lobe evaluated in local shading space
// (Z = shading normal).
type BxDF interface {
	Type() Type
	MatchesFlags(flags Type) bool

	// F evaluates the lobe for a given pair of directions. Zero for
	// delta (Specular) lobes, which only contribute through Sample_f.
	F(wo, wi vmath.V3) spectrum.Spectrum

	// Sample_f draws a wi from u, returning the lobe value, the sampled
	// direction, its pdf, and the sampled lobe's Type.
	Sample_f(wo vmath.V3, u vmath.V2) (wi vmath.V3, f spectrum.Spectrum, pdf float32, sampled Type)

	// Pdf returns the solid-angle pdf of sampling wi via Sample_f given
	// wo. Zero for delta lobes.
	Pdf(wo, wi vmath.V3) float32
}

// ---------------------------------------------------------------------
// local-frame geometry helpers (Z = shading normal)

func CosTheta(w vmath.V3) float32    { return w.Z }
func AbsCosTheta(w vmath.V3) float32 { return vmath.Abs(w.Z) }

// Sin2Theta is clamped to be non-negative: per the spec's corrected
// semantics (§9 open question 2), a naive 1-cos^2 can go slightly
// negative from floating point error for near-grazing directions, which
// would poison a downstream Sqrt.
func Sin2Theta(w vmath.V3) float32 {
	return vmath.Max(0, 1-CosTheta(w)*CosTheta(w))
}

func SinTheta(w vmath.V3) float32 { return vmath.Sqrt(Sin2Theta(w)) }

func CosPhi(w vmath.V3) float32 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 1
	}
	return vmath.Clamp(w.X/sinTheta, -1, 1)
}

func SinPhi(w vmath.V3) float32 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 0
	}
	return vmath.Clamp(w.Y/sinTheta, -1, 1)
}

// SameHemisphere reports whether a and b lie in the same local (Z>0 or
// Z<0) hemisphere; a direction with Z=0 lies in neither.
func SameHemisphere(a, b vmath.V3) bool { return a.Z*b.Z > 0 }

func reflect(wo, n vmath.V3) vmath.V3 {
	return n.Scale(2 * wo.Dot(n)).Sub(wo)
}

// refract computes the refracted direction of wi through a surface with
// local normal n (on wi's side) and relative index eta = etaI/etaT,
// returning false on total internal reflection.
func refract(wi, n vmath.V3, eta float32) (wt vmath.V3, ok bool) {
	cosThetaI := n.Dot(wi)
	sin2ThetaI := vmath.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		return vmath.V3{}, false
	}
	cosThetaT := vmath.Sqrt(1 - sin2ThetaT)
	wt = wi.Neg().Scale(eta).Add(n.Scale(eta*cosThetaI - cosThetaT))
	return wt, true
}

// ---------------------------------------------------------------------
// Lambertian reflection

// LambertianReflection is a perfectly diffuse reflective lobe.
type LambertianReflection struct {
	R spectrum.Spectrum
}

func (l *LambertianReflection) Type() Type { return Reflection | Diffuse }
func (l *LambertianReflection) MatchesFlags(flags Type) bool {
	return l.Type()&flags == l.Type()
}

func (l *LambertianReflection) F(wo, wi vmath.V3) spectrum.Spectrum {
	return l.R.Scale(1 / math.Pi)
}

func (l *LambertianReflection) Sample_f(wo vmath.V3, u vmath.V2) (vmath.V3, spectrum.Spectrum, float32, Type) {
	wi := vmath.CosineSampleHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := l.Pdf(wo, wi)
	return wi, l.F(wo, wi), pdf, l.Type()
}

func (l *LambertianReflection) Pdf(wo, wi vmath.V3) float32 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	return vmath.CosineHemispherePdf(AbsCosTheta(wi))
}

// ---------------------------------------------------------------------
// Specular reflection

// SpecularReflection is a delta reflective lobe weighted by a Fresnel term.
type SpecularReflection struct {
	R       spectrum.Spectrum
	Fresnel Fresnel
}

func (s *SpecularReflection) Type() Type { return Reflection | Specular }
func (s *SpecularReflection) MatchesFlags(flags Type) bool {
	return s.Type()&flags == s.Type()
}

func (s *SpecularReflection) F(wo, wi vmath.V3) spectrum.Spectrum { return spectrum.Black() }
func (s *SpecularReflection) Pdf(wo, wi vmath.V3) float32         { return 0 }

func (s *SpecularReflection) Sample_f(wo vmath.V3, u vmath.V2) (vmath.V3, spectrum.Spectrum, float32, Type) {
	wi := vmath.V3{X: -wo.X, Y: -wo.Y, Z: wo.Z}
	f := s.Fresnel.Evaluate(CosTheta(wi)).Mul(s.R)
	pdf := float32(1)
	if AbsCosTheta(wi) > 0 {
		f = f.ScaleInv(AbsCosTheta(wi))
	} else {
		f = spectrum.Black()
	}
	return wi, f, pdf, s.Type()
}

// ---------------------------------------------------------------------
// Specular transmission

// SpecularTransmission is a delta transmissive lobe through a dielectric
// interface with indices EtaA (outside) / EtaB (inside).
type SpecularTransmission struct {
	T          spectrum.Spectrum
	EtaA, EtaB float32
	fresnel    FresnelDielectric
}

// NewSpecularTransmission builds a SpecularTransmission lobe.
func NewSpecularTransmission(t spectrum.Spectrum, etaA, etaB float32) *SpecularTransmission {
	return &SpecularTransmission{T: t, EtaA: etaA, EtaB: etaB, fresnel: FresnelDielectric{EtaI: etaA, EtaT: etaB}}
}

func (s *SpecularTransmission) Type() Type { return Transmission | Specular }
func (s *SpecularTransmission) MatchesFlags(flags Type) bool {
	return s.Type()&flags == s.Type()
}

func (s *SpecularTransmission) F(wo, wi vmath.V3) spectrum.Spectrum { return spectrum.Black() }
func (s *SpecularTransmission) Pdf(wo, wi vmath.V3) float32         { return 0 }

func (s *SpecularTransmission) Sample_f(wo vmath.V3, u vmath.V2) (vmath.V3, spectrum.Spectrum, float32, Type) {
	entering := CosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	n := vmath.V3{X: 0, Y: 0, Z: 1}
	if !entering {
		etaI, etaT = s.EtaB, s.EtaA
		n = n.Neg()
	}
	wt, ok := refract(wo, n.FaceForward(wo), etaI/etaT)
	if !ok {
		return vmath.V3{}, spectrum.Black(), 0, s.Type()
	}
	ft := s.T.Mul(spectrum.New(1).Sub(s.fresnel.Evaluate(CosTheta(wt))))
	if AbsCosTheta(wt) > 0 {
		ft = ft.ScaleInv(AbsCosTheta(wt))
	}
	return wt, ft, 1, s.Type()
}

// ---------------------------------------------------------------------
// FresnelSpecular: combined reflection + transmission, stochastically
// chosen per §4.9.

// FresnelSpecular combines a reflective and a transmissive delta lobe,
// choosing between them per-sample with probability proportional to
// the Fresnel reflectance.
type FresnelSpecular struct {
	R, T       spectrum.Spectrum
	EtaA, EtaB float32
	fresnel    FresnelDielectric
}

// NewFresnelSpecular builds a combined specular reflect/refract lobe.
func NewFresnelSpecular(r, t spectrum.Spectrum, etaA, etaB float32) *FresnelSpecular {
	return &FresnelSpecular{R: r, T: t, EtaA: etaA, EtaB: etaB, fresnel: FresnelDielectric{EtaI: etaA, EtaT: etaB}}
}

func (s *FresnelSpecular) Type() Type { return Reflection | Transmission | Specular }
func (s *FresnelSpecular) MatchesFlags(flags Type) bool {
	return s.Type()&flags == s.Type()
}
func (s *FresnelSpecular) F(wo, wi vmath.V3) spectrum.Spectrum { return spectrum.Black() }
func (s *FresnelSpecular) Pdf(wo, wi vmath.V3) float32         { return 0 }

func (s *FresnelSpecular) Sample_f(wo vmath.V3, u vmath.V2) (vmath.V3, spectrum.Spectrum, float32, Type) {
	fr := s.fresnel.Evaluate(CosTheta(wo)).C[0]
	if u.X < fr {
		wi := vmath.V3{X: -wo.X, Y: -wo.Y, Z: wo.Z}
		pdf := fr
		f := s.R.Scale(fr)
		if AbsCosTheta(wi) > 0 {
			f = f.ScaleInv(AbsCosTheta(wi))
		}
		return wi, f, pdf, Reflection | Specular
	}
	entering := CosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	n := vmath.V3{X: 0, Y: 0, Z: 1}
	if !entering {
		etaI, etaT = s.EtaB, s.EtaA
		n = n.Neg()
	}
	wt, ok := refract(wo, n.FaceForward(wo), etaI/etaT)
	if !ok {
		return vmath.V3{}, spectrum.Black(), 0, Transmission | Specular
	}
	ft := s.T.Scale(1 - fr)
	if AbsCosTheta(wt) > 0 {
		ft = ft.ScaleInv(AbsCosTheta(wt))
	}
	return wt, ft, 1 - fr, Transmission | Specular
}
