package integrator

import (
	"github.com/guerarda/rt1w-sub000/bxdf"
	"github.com/guerarda/rt1w-sub000/rng"
	"github.com/guerarda/rt1w-sub000/sampler"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Whitted is the depth-limited Whitted-style integrator of spec §4.11:
// at each hit it sums every light's direct contribution gated by
// visibility, then continues along the one scattered direction the
// hit's material reports through its legacy Scatter interface.
type Whitted struct {
	MaxDepth   int
	Background spectrum.Spectrum

	// BackgroundFn, when set, overrides Background with a direction-
	// dependent miss color (the gradient-sky fallback of SPEC_FULL.md
	// §3, wired in by the scene package).
	BackgroundFn func(r vmath.Ray) spectrum.Spectrum
}

// NewWhitted builds a Whitted integrator with the given recursion depth
// and miss background color.
func NewWhitted(maxDepth int, background spectrum.Spectrum) *Whitted {
	return &Whitted{MaxDepth: maxDepth, Background: background}
}

func (w *Whitted) background(r vmath.Ray) spectrum.Spectrum {
	if w.BackgroundFn != nil {
		return w.BackgroundFn(r)
	}
	return w.Background
}

func (w *Whitted) Li(r vmath.Ray, scene Scene, smp *sampler.Sampler, rn *rng.RNG, n *vmath.V3, a *spectrum.Spectrum) spectrum.Spectrum {
	return w.li(r, scene, rn, 0, n, a)
}

func (w *Whitted) li(r vmath.Ray, scene Scene, rn *rng.RNG, depth int, n *vmath.V3, a *spectrum.Spectrum) spectrum.Spectrum {
	it, hit := scene.Intersect(r)
	if !hit {
		l := w.background(r)
		for _, lt := range scene.Lights() {
			l = l.Add(lt.Le(r))
		}
		return l
	}
	if depth == 0 {
		*n = shadingNormal(it)
	}

	mtl := materialOf(it)
	l := lightEmitted(it, it.Wo)

	if mtl != nil {
		for _, lt := range scene.Lights() {
			wi, li, pdf, vis := lt.SampleLi(it, vmath.V2{X: rn.Float32(), Y: rn.Float32()})
			if pdf == 0 || li.IsBlack() {
				continue
			}
			bsdf := mtl.ComputeBSDF(it)
			f := bsdf.F(it.Wo, wi, bxdf.All).Scale(vmath.Abs(wi.Dot(it.N)))
			if f.IsBlack() || !vis.Unoccluded(scene) {
				continue
			}
			l = l.Add(f.Mul(li).ScaleInv(pdf))
		}
	}

	if mtl == nil {
		return l
	}
	atten, scattered, ok := mtl.Scatter(r, it, rn)
	if depth == 0 {
		*a = atten
	}
	if depth >= w.MaxDepth || !ok {
		return l
	}
	var dummyN vmath.V3
	var dummyA spectrum.Spectrum
	reflected := w.li(scattered, scene, rn, depth+1, &dummyN, &dummyA)
	return l.Add(atten.Mul(reflected))
}
