// Package light implements the renderer's light sources — point, area,
// and environment — and the shadow-ray visibility test that gates their
// contribution, per spec §4.10.
package light

import (
	"math"

	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Scene is the subset of scene behavior a VisibilityTester needs: a
// shadow-ray predicate. Satisfied by primitive.Aggregate and by the
// accelerators built on top of it.
type Scene interface {
	QIntersect(r vmath.Ray) bool
}

// VisibilityTester reports whether two interactions can see each other.
type VisibilityTester struct {
	P0, P1 shape.Interaction
}

// Unoccluded traces a shadow ray from P0 toward P1 and returns true iff
// no occluder lies strictly between them.
func (v VisibilityTester) Unoccluded(scene Scene) bool {
	r := v.P0.SpawnRayTo(v.P1.P)
	return !scene.QIntersect(r)
}

func visibilityTo(ref, target shape.Interaction) VisibilityTester {
	return VisibilityTester{P0: ref, P1: target}
}

// Light is the closed set of emitters an integrator can sample.
type Light interface {
	// SampleLi draws an incident direction wi toward the light from
	// ref, returning the radiance arriving along wi, its pdf with
	// respect to solid angle at ref, and a tester for occlusion.
	SampleLi(ref shape.Interaction, u vmath.V2) (wi vmath.V3, li spectrum.Spectrum, pdf float32, vis VisibilityTester)

	// PdfLi returns the solid-angle pdf of sampling direction wi from
	// ref via SampleLi, used by BSDF-sampling MIS weights. Zero for
	// delta lights.
	PdfLi(ref shape.Interaction, wi vmath.V3) float32

	// Le returns the radiance carried by a ray that leaves the scene
	// without hitting geometry (zero for non-infinite lights).
	Le(r vmath.Ray) spectrum.Spectrum

	// IsDeltaLight reports whether the light has zero measure (point or
	// directional), which excludes it from BSDF-sampling MIS.
	IsDeltaLight() bool
}

// ---------------------------------------------------------------------
// Point light

// PointLight is a delta light emitting isotropically from P with
// intensity I (radiant intensity, W/sr).
type PointLight struct {
	P vmath.V3
	I spectrum.Spectrum
}

// NewPointLight builds a point light at p with intensity i.
func NewPointLight(p vmath.V3, i spectrum.Spectrum) *PointLight { return &PointLight{P: p, I: i} }

func (p *PointLight) SampleLi(ref shape.Interaction, u vmath.V2) (vmath.V3, spectrum.Spectrum, float32, VisibilityTester) {
	d := p.P.Sub(ref.P)
	dist2 := d.LenSq()
	if dist2 == 0 {
		return vmath.V3{}, spectrum.Black(), 0, VisibilityTester{}
	}
	wi := d.Unit()
	li := p.I.ScaleInv(dist2)
	target := shape.Interaction{P: p.P, N: wi.Neg(), PError: vmath.V3{}}
	return wi, li, 1, visibilityTo(ref, target)
}

func (p *PointLight) PdfLi(ref shape.Interaction, wi vmath.V3) float32 { return 0 }
func (p *PointLight) Le(r vmath.Ray) spectrum.Spectrum                { return spectrum.Black() }
func (p *PointLight) IsDeltaLight() bool                              { return true }

// ---------------------------------------------------------------------
// Area light

// AreaLight is a non-delta light emitting from the surface of shape Shp
// with uniform emitted radiance Lemit. Emission is one-sided: a point
// on the shape emits only in the direction its geometric normal faces.
type AreaLight struct {
	Shp   shape.Shape
	Lemit spectrum.Spectrum
}

// NewAreaLight binds a shape to an emitted radiance.
func NewAreaLight(s shape.Shape, lemit spectrum.Spectrum) *AreaLight {
	return &AreaLight{Shp: s, Lemit: lemit}
}

// LightEmitted returns the light's radiance leaving it toward w, zero
// if w is on the back side of the surface.
func (a *AreaLight) LightEmitted(it shape.Interaction, w vmath.V3) spectrum.Spectrum {
	if it.N.Dot(w) > 0 {
		return a.Lemit
	}
	return spectrum.Black()
}

func (a *AreaLight) SampleLi(ref shape.Interaction, u vmath.V2) (vmath.V3, spectrum.Spectrum, float32, VisibilityTester) {
	pShape, pdf := a.Shp.SampleFrom(ref, u)
	if pdf == 0 {
		return vmath.V3{}, spectrum.Black(), 0, VisibilityTester{}
	}
	d := pShape.P.Sub(ref.P)
	if d.LenSq() == 0 {
		return vmath.V3{}, spectrum.Black(), 0, VisibilityTester{}
	}
	wi := d.Unit()
	li := a.LightEmitted(pShape, wi.Neg())
	return wi, li, pdf, visibilityTo(ref, pShape)
}

func (a *AreaLight) PdfLi(ref shape.Interaction, wi vmath.V3) float32 {
	return a.Shp.PdfFrom(ref, wi)
}

func (a *AreaLight) Le(r vmath.Ray) spectrum.Spectrum { return spectrum.Black() }
func (a *AreaLight) IsDeltaLight() bool               { return false }

// ---------------------------------------------------------------------
// Environment light

// EnvironmentMap evaluates radiance at an equirectangular (u,v)
// coordinate, as decoded by the load package from a scene texture.
type EnvironmentMap interface {
	Eval(u, v float32) spectrum.Spectrum
}

// ConstantMap is the trivial EnvironmentMap: uniform radiance in every
// direction, used when a scene names no environment texture.
type ConstantMap struct{ C spectrum.Spectrum }

func (m ConstantMap) Eval(u, v float32) spectrum.Spectrum { return m.C }

// EnvironmentLight models the scene's surrounding sphere of radius R
// centered at Center, carrying radiance from Map scaled by Lemit.
type EnvironmentLight struct {
	LightToWorld vmath.Transform
	Center       vmath.V3
	R            float32
	Map          EnvironmentMap
	Lemit        spectrum.Spectrum
}

// NewEnvironmentLight builds an environment light with the given
// light-to-world transform, bounding sphere, and radiance map.
func NewEnvironmentLight(lightToWorld vmath.Transform, center vmath.V3, radius float32, m EnvironmentMap, lemit spectrum.Spectrum) *EnvironmentLight {
	if m == nil {
		m = ConstantMap{C: spectrum.New(1)}
	}
	return &EnvironmentLight{LightToWorld: lightToWorld, Center: center, R: radius, Map: m, Lemit: lemit}
}

func (e *EnvironmentLight) SampleLi(ref shape.Interaction, u vmath.V2) (vmath.V3, spectrum.Spectrum, float32, VisibilityTester) {
	theta := math.Pi * u.X
	phi := 2 * math.Pi * u.Y
	wiLocal := vmath.UniformSphereDirection(float32(theta), float32(phi))
	wi := e.LightToWorld.ApplyVector(wiLocal).Unit()
	pdf := float32(1 / (2 * math.Pi * math.Pi))
	far := ref.P.Add(wi.Scale(2 * e.R))
	target := shape.Interaction{P: far, N: wi.Neg()}
	li := e.radianceAlong(wi)
	return wi, li, pdf, visibilityTo(ref, target)
}

func (e *EnvironmentLight) PdfLi(ref shape.Interaction, wi vmath.V3) float32 {
	return float32(1 / (2 * math.Pi * math.Pi))
}

// Le returns the radiance of a miss ray mapped through the light's
// inverse transform into (u,v) equirectangular coordinates.
func (e *EnvironmentLight) Le(r vmath.Ray) spectrum.Spectrum {
	return e.radianceAlong(r.Dir)
}

func (e *EnvironmentLight) radianceAlong(wWorld vmath.V3) spectrum.Spectrum {
	w := e.LightToWorld.Inverse().ApplyVector(wWorld).Unit()
	theta := float32(math.Acos(float64(vmath.Clamp(w.Y, -1, 1))))
	phi := float32(math.Atan2(float64(w.X), float64(w.Z)))
	if phi < 0 {
		phi += 2 * math.Pi
	}
	v := theta / math.Pi
	u := phi / (2 * math.Pi)
	return e.Map.Eval(u, v).Mul(e.Lemit)
}

func (e *EnvironmentLight) IsDeltaLight() bool { return false }
