package integrator

import (
	"github.com/guerarda/rt1w-sub000/bxdf"
	"github.com/guerarda/rt1w-sub000/rng"
	"github.com/guerarda/rt1w-sub000/sampler"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Path is the Monte-Carlo path integrator of spec §4.11: iterative
// bounces accumulating radiance L and throughput beta, direct lighting
// via UniformSampleOneLight at every hit that has a BSDF, and Russian
// roulette termination for bounces past rouletteStart (3).
type Path struct {
	MaxDepth int

	// Background and BackgroundFn mirror Whitted's miss color: a fixed
	// spectrum, or a direction-dependent override (the gradient-sky
	// fallback of SPEC_FULL.md §3) wired in by the scene package.
	Background   spectrum.Spectrum
	BackgroundFn func(r vmath.Ray) spectrum.Spectrum
}

// NewPath builds a path integrator with the given maximum bounce depth.
func NewPath(maxDepth int) *Path {
	return &Path{MaxDepth: maxDepth}
}

func (p *Path) background(r vmath.Ray) spectrum.Spectrum {
	if p.BackgroundFn != nil {
		return p.BackgroundFn(r)
	}
	return p.Background
}

// rouletteStart is the bounce index after which Russian roulette
// termination kicks in (spec §4.11 step 8: "for k > 3").
const rouletteStart = 3

func (p *Path) Li(r vmath.Ray, scene Scene, smp *sampler.Sampler, rn *rng.RNG, n *vmath.V3, a *spectrum.Spectrum) spectrum.Spectrum {
	l := spectrum.Black()
	beta := spectrum.New(1)
	ray := r
	specularBounce := false

	for bounce := 0; ; bounce++ {
		it, hit := scene.Intersect(ray)

		if bounce == 0 || specularBounce {
			// Spec §9 open question 3: gate the two emission additions
			// exclusively so bounce 0 never double-counts.
			if hit {
				l = l.Add(beta.Mul(lightEmitted(it, it.Wo)))
			} else {
				l = l.Add(beta.Mul(p.background(ray)))
				for _, lt := range scene.Lights() {
					l = l.Add(beta.Mul(lt.Le(ray)))
				}
			}
		}
		if bounce == 0 && hit {
			*n = shadingNormal(it)
		}

		if !hit || bounce > p.MaxDepth {
			break
		}

		mtl := materialOf(it)
		if mtl == nil {
			break
		}
		bsdf := mtl.ComputeBSDF(it)

		if bsdf != nil {
			l = l.Add(beta.Mul(UniformSampleOneLight(it, bsdf, scene, smp)))
		}

		u := smp.Sample2D()
		wi, f, pdf, sampledType := bsdf.Sample_f(it.Wo, u, bxdf.All)
		if f.IsBlack() || pdf == 0 {
			break
		}

		weight := f.Scale(vmath.Abs(wi.Dot(shadingNormal(it)))).ScaleInv(pdf)
		if bounce == 0 {
			*a = weight
		}

		beta = beta.Mul(weight)
		specularBounce = sampledType&bxdf.Specular != 0
		ray = it.SpawnRay(wi)

		if beta.IsBlack() {
			break
		}

		if bounce > rouletteStart {
			q := vmath.Max(0.5, 1-beta.MaxComponent())
			if rn.Float32() < q {
				break
			}
			beta = beta.ScaleInv(1 - q)
		}
	}
	return l
}
