package bxdf

import (
	"github.com/guerarda/rt1w-sub000/internal/trap"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// maxBxDFs bounds the number of lobes a single BSDF composes. Every
// material in this renderer's catalog adds at most one (glass uses a
// single FresnelSpecular lobe for reflection and transmission); this
// leaves headroom for a
// future layered material without dynamic allocation.
const maxBxDFs = 8

// BSDF composes one or more BxDF lobes sharing a shading frame, per
// spec §4.9: world<->local conversion is built once from the hit's
// shading normal and tangent, and every lobe is evaluated in that local
// space.
type BSDF struct {
	Ng          vmath.V3
	ns, ss, ts  vmath.V3
	bxdfs       [maxBxDFs]BxDF
	numBxDFs    int
}

// NewBSDF builds a BSDF for a hit with geometric normal ng, shading
// normal ns and shading tangent dpdu.
func NewBSDF(ng, ns, dpdu vmath.V3) *BSDF {
	ss := dpdu.Unit()
	ts := ns.Cross(ss)
	return &BSDF{Ng: ng, ns: ns, ss: ss, ts: ts}
}

// Add appends a lobe to the composition. Panics if more than maxBxDFs
// lobes are added, which would indicate a material factory bug.
func (b *BSDF) Add(x BxDF) {
	if b.numBxDFs >= maxBxDFs {
		trap.Panicf("bxdf: BSDF.Add: too many lobes")
	}
	b.bxdfs[b.numBxDFs] = x
	b.numBxDFs++
}

func (b *BSDF) WorldToLocal(v vmath.V3) vmath.V3 {
	return vmath.V3{X: v.Dot(b.ss), Y: v.Dot(b.ts), Z: v.Dot(b.ns)}
}

func (b *BSDF) LocalToWorld(v vmath.V3) vmath.V3 {
	return vmath.V3{
		X: b.ss.X*v.X + b.ts.X*v.Y + b.ns.X*v.Z,
		Y: b.ss.Y*v.X + b.ts.Y*v.Y + b.ns.Y*v.Z,
		Z: b.ss.Z*v.X + b.ts.Z*v.Y + b.ns.Z*v.Z,
	}
}

func (b *BSDF) numMatching(flags Type) int {
	n := 0
	for i := 0; i < b.numBxDFs; i++ {
		if b.bxdfs[i].MatchesFlags(flags) {
			n++
		}
	}
	return n
}

// F evaluates the composed BSDF for world-space directions woW, wiW,
// summing only the lobes matching flags whose hemisphere (reflection vs
// transmission, decided by the geometric normal) matches wi/wo.
func (b *BSDF) F(woW, wiW vmath.V3, flags Type) spectrum.Spectrum {
	wo := b.WorldToLocal(woW)
	wi := b.WorldToLocal(wiW)
	if wo.Z == 0 {
		return spectrum.Black()
	}
	reflect := wiW.Dot(b.Ng)*woW.Dot(b.Ng) > 0
	f := spectrum.Black()
	for i := 0; i < b.numBxDFs; i++ {
		x := b.bxdfs[i]
		if !x.MatchesFlags(flags) {
			continue
		}
		if (reflect && x.Type()&Reflection != 0) || (!reflect && x.Type()&Transmission != 0) {
			f = f.Add(x.F(wo, wi))
		}
	}
	return f
}

// Sample_f draws a direction from the BSDF per spec §4.9: pick a
// matching lobe uniformly (remapping u.X into that lobe's own [0,1)),
// sample it, then, if the lobe is non-specular and more than one lobe
// matches, average in the other matching lobes' f and pdf contributions
// so the result is consistent with Pdf's MIS-facing pdf.
func (b *BSDF) Sample_f(woW vmath.V3, u vmath.V2, flags Type) (wiW vmath.V3, f spectrum.Spectrum, pdf float32, sampledType Type) {
	nMatch := b.numMatching(flags)
	if nMatch == 0 {
		return vmath.V3{}, spectrum.Black(), 0, 0
	}
	ix := int(u.X * float32(nMatch))
	if ix == nMatch {
		ix = nMatch - 1
	}
	var chosen BxDF
	count := 0
	for i := 0; i < b.numBxDFs; i++ {
		if !b.bxdfs[i].MatchesFlags(flags) {
			continue
		}
		if count == ix {
			chosen = b.bxdfs[i]
			break
		}
		count++
	}
	uRemap := vmath.V2{X: u.X*float32(nMatch) - float32(ix), Y: u.Y}

	wo := b.WorldToLocal(woW)
	if wo.Z == 0 {
		return vmath.V3{}, spectrum.Black(), 0, 0
	}
	wi, fSample, pdfSample, sampledType := chosen.Sample_f(wo, uRemap)
	if pdfSample == 0 {
		return vmath.V3{}, spectrum.Black(), 0, sampledType
	}
	pdf = pdfSample
	f = fSample

	if sampledType&Specular == 0 && nMatch > 1 {
		for i := 0; i < b.numBxDFs; i++ {
			x := b.bxdfs[i]
			if x == chosen || !x.MatchesFlags(flags) {
				continue
			}
			pdf += x.Pdf(wo, wi)
		}
	}
	if nMatch > 1 {
		pdf /= float32(nMatch)
	}
	if sampledType&Specular == 0 && nMatch > 1 {
		reflect := wi.Z*wo.Z > 0
		f = spectrum.Black()
		for i := 0; i < b.numBxDFs; i++ {
			x := b.bxdfs[i]
			if !x.MatchesFlags(flags) {
				continue
			}
			if (reflect && x.Type()&Reflection != 0) || (!reflect && x.Type()&Transmission != 0) {
				f = f.Add(x.F(wo, wi))
			}
		}
	}
	wiW = b.LocalToWorld(wi)
	return wiW, f, pdf, sampledType
}

// Pdf returns the mean solid-angle pdf over lobes matching flags.
func (b *BSDF) Pdf(woW, wiW vmath.V3, flags Type) float32 {
	if b.numBxDFs == 0 {
		return 0
	}
	wo := b.WorldToLocal(woW)
	wi := b.WorldToLocal(wiW)
	if wo.Z == 0 {
		return 0
	}
	var sum float32
	n := 0
	for i := 0; i < b.numBxDFs; i++ {
		if !b.bxdfs[i].MatchesFlags(flags) {
			continue
		}
		sum += b.bxdfs[i].Pdf(wo, wi)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float32(n)
}
