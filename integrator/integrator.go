// Package integrator implements the renderer's light-transport
// estimators (spec §4.11): a depth-limited Whitted integrator and a
// Monte-Carlo path integrator with multiple importance sampling over
// BSDFs and lights, built on the shared EstimateDirect/
// UniformSampleOneLight direct-lighting estimator.
package integrator

import (
	"github.com/guerarda/rt1w-sub000/bxdf"
	"github.com/guerarda/rt1w-sub000/light"
	"github.com/guerarda/rt1w-sub000/material"
	"github.com/guerarda/rt1w-sub000/primitive"
	"github.com/guerarda/rt1w-sub000/rng"
	"github.com/guerarda/rt1w-sub000/sampler"
	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Scene is the subset of scene behavior an integrator needs: nearest-hit
// and shadow-ray queries plus the light list. Satisfied by
// primitive.Aggregate, bvh.BVH and bvh.QBVH wrapped with their lights.
type Scene interface {
	Intersect(r vmath.Ray) (shape.Interaction, bool)
	QIntersect(r vmath.Ray) bool
	Lights() []light.Light
}

// Integrator is the closed set of radiance estimators: Whitted and Path.
type Integrator interface {
	// Li estimates the radiance arriving along r. n receives the
	// first-hit shading normal and a receives the first-hit albedo
	// estimate; both are left unset on a miss.
	Li(r vmath.Ray, scene Scene, smp *sampler.Sampler, rn *rng.RNG, n *vmath.V3, a *spectrum.Spectrum) spectrum.Spectrum
}

// materialOf returns the material bound to it's hit primitive, or nil
// if the primitive exposes none (shouldn't happen for a well-formed
// scene, but the integrator degrades to a miss rather than panicking).
func materialOf(it shape.Interaction) material.Material {
	g, ok := it.Prim.(*primitive.Geometric)
	if !ok {
		return nil
	}
	return g.Material()
}

// lightOf returns the area light bound to it's hit primitive, or nil.
func lightOf(it shape.Interaction) light.Light {
	g, ok := it.Prim.(*primitive.Geometric)
	if !ok {
		return nil
	}
	return g.LightSource()
}

// lightEmitted returns the radiance leaving a hit surface toward w: the
// area light's emission if the hit primitive is an emitter, black
// otherwise.
func lightEmitted(it shape.Interaction, w vmath.V3) spectrum.Spectrum {
	l := lightOf(it)
	if al, ok := l.(*light.AreaLight); ok {
		return al.LightEmitted(it, w)
	}
	return spectrum.Black()
}

// EstimateDirect implements spec §4.11's single-light MIS estimator:
// one light-sampling term and, for non-delta lights, one BSDF-sampling
// term combined with the power heuristic.
func EstimateDirect(it shape.Interaction, bsdf *bxdf.BSDF, l light.Light, uLight, uScattering vmath.V2, scene Scene) spectrum.Spectrum {
	ld := spectrum.Black()

	wi, li, lightPdf, vis := l.SampleLi(it, uLight)
	if lightPdf > 0 && !li.IsBlack() {
		f := bsdf.F(it.Wo, wi, bxdf.All).Scale(vmath.Abs(wi.Dot(shadingNormal(it))))
		scatteringPdf := bsdf.Pdf(it.Wo, wi, bxdf.All)
		if !f.IsBlack() {
			if !vis.Unoccluded(scene) {
				li = spectrum.Black()
			}
			if !li.IsBlack() {
				if l.IsDeltaLight() {
					ld = ld.Add(f.Mul(li).ScaleInv(lightPdf))
				} else {
					w := vmath.PowerHeuristic(1, lightPdf, 1, scatteringPdf)
					ld = ld.Add(f.Mul(li).Scale(w).ScaleInv(lightPdf))
				}
			}
		}
	}

	if l.IsDeltaLight() {
		return ld
	}

	wiS, f, scatteringPdf, sampledType := bsdf.Sample_f(it.Wo, uScattering, bxdf.All)
	f = f.Scale(vmath.Abs(wiS.Dot(shadingNormal(it))))
	specular := sampledType&bxdf.Specular != 0
	if !f.IsBlack() && scatteringPdf > 0 {
		weight := float32(1)
		if !specular {
			lightPdf2 := l.PdfLi(it, wiS)
			if lightPdf2 == 0 {
				return ld
			}
			weight = vmath.PowerHeuristic(1, scatteringPdf, 1, lightPdf2)
		}
		ray := it.SpawnRay(wiS)
		var li2 spectrum.Spectrum
		if hit, ok := scene.Intersect(ray); ok {
			if lightOf(hit) == l {
				li2 = lightEmitted(hit, wiS.Neg())
			}
		} else {
			li2 = l.Le(ray)
		}
		if !li2.IsBlack() {
			ld = ld.Add(f.Mul(li2).Scale(weight).ScaleInv(scatteringPdf))
		}
	}
	return ld
}

// UniformSampleOneLight picks a light uniformly at random from the
// scene and calls EstimateDirect against it, scaling the result by the
// number of lights so the estimator remains unbiased.
func UniformSampleOneLight(it shape.Interaction, bsdf *bxdf.BSDF, scene Scene, smp *sampler.Sampler) spectrum.Spectrum {
	lights := scene.Lights()
	n := len(lights)
	if n == 0 {
		return spectrum.Black()
	}
	ix := int(smp.Sample1D() * float32(n))
	if ix >= n {
		ix = n - 1
	}
	l := lights[ix]
	uLight := smp.Sample2D()
	uScattering := smp.Sample2D()
	ld := EstimateDirect(it, bsdf, l, uLight, uScattering, scene)
	return ld.Scale(float32(n))
}

func shadingNormal(it shape.Interaction) vmath.V3 {
	n, _, _ := it.ShadingFrame()
	return n
}
