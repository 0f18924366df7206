// Package material implements the renderer's material catalog: the
// user-facing vocabulary a JSON scene document names (matte, mirror,
// glass, metal, light) over the lower-level bxdf lobe composition.
// Every material exposes two interfaces per spec §4.9/§4.11: ComputeBSDF
// for the Monte-Carlo path integrator's MIS-ready sampling, and the
// legacy single-sample Scatter used by the Whitted integrator.
package material

import (
	"github.com/guerarda/rt1w-sub000/bxdf"
	"github.com/guerarda/rt1w-sub000/rng"
	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Material is the closed set of surface scattering behaviors the
// renderer supports, dispatched by kind rather than an open interface
// hierarchy (spec §9 Design Notes).
type Material interface {
	// ComputeBSDF builds the local-frame BSDF for hit it.
	ComputeBSDF(it shape.Interaction) *bxdf.BSDF

	// Scatter implements the legacy Whitted-style single-sample
	// scattering step: given the incoming ray and the hit, returns the
	// attenuation and the one ray to continue tracing, or ok=false if
	// the path terminates here.
	Scatter(rIn vmath.Ray, it shape.Interaction, r *rng.RNG) (attenuation spectrum.Spectrum, scattered vmath.Ray, ok bool)
}

func shadingFrame(it shape.Interaction) (n, dpdu vmath.V3) {
	n, dpdu, _ = it.ShadingFrame()
	return n, dpdu
}

// ---------------------------------------------------------------------
// Matte: pure Lambertian diffuse reflection.

// Matte is a perfectly diffuse material with reflectance R.
type Matte struct {
	R spectrum.Spectrum
}

// NewMatte builds a Matte material with albedo r.
func NewMatte(r spectrum.Spectrum) *Matte { return &Matte{R: r} }

func (m *Matte) ComputeBSDF(it shape.Interaction) *bxdf.BSDF {
	n, dpdu := shadingFrame(it)
	b := bxdf.NewBSDF(it.N, n, dpdu)
	b.Add(&bxdf.LambertianReflection{R: m.R})
	return b
}

func (m *Matte) Scatter(rIn vmath.Ray, it shape.Interaction, r *rng.RNG) (spectrum.Spectrum, vmath.Ray, bool) {
	n, _ := shadingFrame(it)
	target := n.Add(cosineDirection(n, r))
	if target.LenSq() < 1e-12 {
		target = n
	}
	scattered := it.SpawnRay(target.Unit())
	return m.R, scattered, true
}

func cosineDirection(n vmath.V3, r *rng.RNG) vmath.V3 {
	u := vmath.V2{X: r.Float32(), Y: r.Float32()}
	local := vmath.CosineSampleHemisphere(u)
	t, b := vmath.CoordinateSystem(n)
	return t.Scale(local.X).Add(b.Scale(local.Y)).Add(n.Scale(local.Z))
}

// ---------------------------------------------------------------------
// Mirror: perfect specular reflection, no Fresnel tint.

// Mirror is a perfectly specular reflective material.
type Mirror struct {
	R spectrum.Spectrum
}

// NewMirror builds a Mirror material with reflectance tint r.
func NewMirror(r spectrum.Spectrum) *Mirror { return &Mirror{R: r} }

func (m *Mirror) ComputeBSDF(it shape.Interaction) *bxdf.BSDF {
	n, dpdu := shadingFrame(it)
	b := bxdf.NewBSDF(it.N, n, dpdu)
	b.Add(&bxdf.SpecularReflection{R: m.R, Fresnel: bxdf.FresnelNoOp{}})
	return b
}

func (m *Mirror) Scatter(rIn vmath.Ray, it shape.Interaction, r *rng.RNG) (spectrum.Spectrum, vmath.Ray, bool) {
	n, _ := shadingFrame(it)
	dir := rIn.Dir.Unit()
	reflected := dir.Sub(n.Scale(2 * dir.Dot(n)))
	if reflected.Dot(n) <= 0 {
		return spectrum.Black(), vmath.Ray{}, false
	}
	return m.R, it.SpawnRay(reflected), true
}

// ---------------------------------------------------------------------
// Metal: Fresnel-conductor specular reflection, optionally fuzzed.

// Metal is a specular reflective material with a conductor Fresnel
// term and an optional roughness ("fuzz") that randomly perturbs the
// reflected direction, following the original ray-tracer's fuzzed-metal
// model (see SPEC_FULL.md §3).
type Metal struct {
	R      spectrum.Spectrum
	Eta, K spectrum.Spectrum
	Fuzz   float32
}

// NewMetal builds a Metal material. eta/k are the conductor's complex
// index of refraction; fuzz in [0,1] blends in a random reflection
// perturbation (0 = perfect mirror-like reflectance with Fresnel tint).
func NewMetal(r, eta, k spectrum.Spectrum, fuzz float32) *Metal {
	return &Metal{R: r, Eta: eta, K: k, Fuzz: vmath.Clamp(fuzz, 0, 1)}
}

func (m *Metal) ComputeBSDF(it shape.Interaction) *bxdf.BSDF {
	n, dpdu := shadingFrame(it)
	b := bxdf.NewBSDF(it.N, n, dpdu)
	fr := bxdf.FresnelConductor{EtaI: spectrum.New(1), EtaT: m.Eta, K: m.K}
	if m.Fuzz > 0 {
		b.Add(&bxdf.GlossyReflection{R: m.R, Fresnel: fr, Exponent: fuzzToExponent(m.Fuzz)})
	} else {
		b.Add(&bxdf.SpecularReflection{R: m.R, Fresnel: fr})
	}
	return b
}

func (m *Metal) Scatter(rIn vmath.Ray, it shape.Interaction, r *rng.RNG) (spectrum.Spectrum, vmath.Ray, bool) {
	n, _ := shadingFrame(it)
	dir := rIn.Dir.Unit()
	reflected := dir.Sub(n.Scale(2 * dir.Dot(n)))
	if m.Fuzz > 0 {
		reflected = reflected.Add(randomInUnitSphere(r).Scale(m.Fuzz)).Unit()
	}
	if reflected.Dot(n) <= 0 {
		return spectrum.Black(), vmath.Ray{}, false
	}
	return m.R, it.SpawnRay(reflected), true
}

func randomInUnitSphere(r *rng.RNG) vmath.V3 {
	for {
		p := vmath.V3{X: r.Float32Range(-1, 1), Y: r.Float32Range(-1, 1), Z: r.Float32Range(-1, 1)}
		if p.LenSq() < 1 {
			return p
		}
	}
}

// fuzzToExponent maps a [0,1] roughness knob to a Phong-style exponent:
// fuzz=0 is near-mirror (large exponent), fuzz=1 is near-diffuse.
func fuzzToExponent(fuzz float32) float32 {
	return 2/(fuzz*fuzz+1e-3) - 2
}

// ---------------------------------------------------------------------
// Glass: Fresnel dielectric reflection + transmission.

// Glass is a dielectric material transmitting light with relative
// index of refraction Eta (inside index / outside index, i.e. outside
// is assumed vacuum/air at 1.0).
type Glass struct {
	R, T spectrum.Spectrum
	Eta  float32
}

// NewGlass builds a Glass material with reflect/transmit tints r, t and
// relative index of refraction eta.
func NewGlass(r, t spectrum.Spectrum, eta float32) *Glass { return &Glass{R: r, T: t, Eta: eta} }

func (g *Glass) ComputeBSDF(it shape.Interaction) *bxdf.BSDF {
	n, dpdu := shadingFrame(it)
	b := bxdf.NewBSDF(it.N, n, dpdu)
	b.Add(bxdf.NewFresnelSpecular(g.R, g.T, 1, g.Eta))
	return b
}

func (g *Glass) Scatter(rIn vmath.Ray, it shape.Interaction, r *rng.RNG) (spectrum.Spectrum, vmath.Ray, bool) {
	n, _ := shadingFrame(it)
	dir := rIn.Dir.Unit()
	outward := n
	etaIOverT := float32(1) / g.Eta
	cosine := -dir.Dot(n)
	if cosine < 0 {
		outward = n.Neg()
		etaIOverT = g.Eta
		cosine = -cosine
	}
	reflectProb := float32(1)
	refracted, ok := refractVec(dir, outward, etaIOverT)
	if ok {
		reflectProb = bxdf.SchlickReflectance(cosine, 1, g.Eta)
	}
	if r.Float32() < reflectProb {
		reflected := dir.Sub(n.Scale(2 * dir.Dot(n)))
		return g.R, it.SpawnRay(reflected), true
	}
	return g.T, it.SpawnRay(refracted), true
}

func refractVec(v, n vmath.V3, niOverNt float32) (vmath.V3, bool) {
	uv := v.Unit()
	dt := uv.Dot(n)
	discriminant := 1 - niOverNt*niOverNt*(1-dt*dt)
	if discriminant <= 0 {
		return vmath.V3{}, false
	}
	refracted := uv.Sub(n.Scale(dt)).Scale(niOverNt).Sub(n.Scale(vmath.Sqrt(discriminant)))
	return refracted, true
}

// ---------------------------------------------------------------------
// Light: a non-reflective material bound alongside a light.AreaLight by
// the scene factory; it absorbs every incident ray under both the path
// and Whitted integrators, since emission is the light's responsibility
// (spec §4.10), not the material's.
type Light struct{}

// NewLight returns the absorbing material paired with an emissive
// primitive.
func NewLight() *Light { return &Light{} }

func (l *Light) ComputeBSDF(it shape.Interaction) *bxdf.BSDF {
	n, dpdu := shadingFrame(it)
	return bxdf.NewBSDF(it.N, n, dpdu)
}

func (l *Light) Scatter(rIn vmath.Ray, it shape.Interaction, r *rng.RNG) (spectrum.Spectrum, vmath.Ray, bool) {
	return spectrum.Black(), vmath.Ray{}, false
}
