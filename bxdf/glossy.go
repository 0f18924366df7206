package bxdf

import (
	"math"

	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// GlossyReflection is a Phong-lobe glossy reflective lobe: it samples a
// direction clustered around the perfect mirror reflection of wo with a
// cosine-power falloff controlled by Exponent, giving materials like
// fuzzed metal a continuous roughness knob instead of a pure delta
// lobe.
type GlossyReflection struct {
	R        spectrum.Spectrum
	Fresnel  Fresnel
	Exponent float32
}

func (g *GlossyReflection) Type() Type { return Reflection | Glossy }
func (g *GlossyReflection) MatchesFlags(flags Type) bool {
	return g.Type()&flags == g.Type()
}

func (g *GlossyReflection) F(wo, wi vmath.V3) spectrum.Spectrum {
	if !SameHemisphere(wo, wi) {
		return spectrum.Black()
	}
	r := reflect(wo, vmath.V3{X: 0, Y: 0, Z: 1})
	cosAlpha := vmath.Max(0, r.Dot(wi))
	norm := (g.Exponent + 2) / (2 * math.Pi)
	falloff := float32(math.Pow(float64(cosAlpha), float64(g.Exponent)))
	fr := g.Fresnel.Evaluate(CosTheta(wo))
	return g.R.Mul(fr).Scale(norm * falloff)
}

func (g *GlossyReflection) Sample_f(wo vmath.V3, u vmath.V2) (vmath.V3, spectrum.Spectrum, float32, Type) {
	r := reflect(wo, vmath.V3{X: 0, Y: 0, Z: 1})
	if r.Z < 0 {
		r = vmath.V3{X: r.X, Y: r.Y, Z: -r.Z}
	}
	cosTheta := float32(math.Pow(float64(1-u.X), float64(1/(g.Exponent+1))))
	sinTheta := vmath.Sqrt(vmath.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	local := vmath.V3{
		X: sinTheta * float32(math.Cos(float64(phi))),
		Y: sinTheta * float32(math.Sin(float64(phi))),
		Z: cosTheta,
	}
	t, b := vmath.CoordinateSystem(r)
	wi := t.Scale(local.X).Add(b.Scale(local.Y)).Add(r.Scale(local.Z))
	if !SameHemisphere(wo, wi) {
		return vmath.V3{}, spectrum.Black(), 0, g.Type()
	}
	pdf := g.Pdf(wo, wi)
	return wi, g.F(wo, wi), pdf, g.Type()
}

func (g *GlossyReflection) Pdf(wo, wi vmath.V3) float32 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	r := reflect(wo, vmath.V3{X: 0, Y: 0, Z: 1})
	cosAlpha := vmath.Max(0, r.Dot(wi))
	norm := (g.Exponent + 1) / (2 * math.Pi)
	return norm * float32(math.Pow(float64(cosAlpha), float64(g.Exponent)))
}
