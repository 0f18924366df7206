// Package shape implements the renderer's ray-primitive intersection
// tests: robust sphere and triangle intersection using EFloat error
// bounds, and the Interaction record produced by a hit. It is the
// spiritual successor of the engine's physics caster, generalized from
// float64 world-space ray casts returning a single contact point into
// float32 object-space intersection tests returning a full shading
// record (UVs, partial derivatives, conservative error bounds).
package shape

import (
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Interaction is a point-on-surface record produced by an intersection.
// It carries both the geometric frame (N, dpdu/dpdv) and, when set, a
// distinct shading frame used by bump-mapped or interpolated normals.
type Interaction struct {
	P      vmath.V3
	PError vmath.V3
	N      vmath.V3
	Wo     vmath.V3
	UV     vmath.V2
	Dpdu   vmath.V3
	Dpdv   vmath.V3

	ShadingN    vmath.V3
	ShadingDpdu vmath.V3
	ShadingDpdv vmath.V3

	T float32

	// Shape identifies the hit surface itself (sphere or triangle).
	Shape any

	// Prim identifies the hit primitive (shape+material+light binding)
	// for area-light identity checks in the integrator (does the
	// sampled light own the hit primitive?).
	Prim any
}

// SpawnRay returns a ray leaving it in direction dir, offset along the
// geometric normal by the interaction's position error so that the new
// ray cannot re-intersect the surface it left.
func (it *Interaction) SpawnRay(dir vmath.V3) vmath.Ray {
	return vmath.SpawnRay(it.P, it.PError, it.N, dir)
}

// SpawnRayTo returns a ray from it toward target, with TMax set just
// short of 1 so the ray stops before reaching it.
func (it *Interaction) SpawnRayTo(target vmath.V3) vmath.Ray {
	return vmath.SpawnRayTo(it.P, it.PError, it.N, target)
}

// ShadingFrame returns the normal to use for shading computations,
// falling back to the geometric normal when no shading normal was set.
func (it *Interaction) ShadingFrame() (n, dpdu, dpdv vmath.V3) {
	if it.ShadingN.LenSq() > 0 {
		return it.ShadingN, it.ShadingDpdu, it.ShadingDpdv
	}
	return it.N, it.Dpdu, it.Dpdv
}

// Shape is the interface of the surfaces the accelerator can intersect.
// It is an open interface: Sphere and Triangle implement it here, and
// the scene package's mesh adapter implements it as well.
type Shape interface {
	// Intersect returns the nearest hit along r within (0, r.TMax]. r is
	// passed by value, so the caller shrinks its own TMax to tHit.
	Intersect(r vmath.Ray) (it Interaction, tHit float32, hit bool)

	// QIntersect is a shadow-ray predicate: true iff any hit exists
	// along r, without computing the full Interaction.
	QIntersect(r vmath.Ray) bool

	// WorldBound returns the shape's bounding box in world space.
	WorldBound() vmath.Bounds3

	// Area returns the shape's surface area, used by area lights.
	Area() float32

	// Sample draws a point on the shape's surface with pdf = 1/Area(),
	// returning the sampled Interaction and its pdf with respect to
	// surface area.
	Sample(u vmath.V2) (it Interaction, pdf float32)

	// SampleFrom draws a direction from ref toward the shape, converting
	// the area-measure pdf into a solid-angle measure conditioned on ref.
	SampleFrom(ref Interaction, u vmath.V2) (it Interaction, pdf float32)

	// PdfFrom returns the solid-angle pdf of sampling direction wi from
	// ref via SampleFrom, used by BSDF-sampling MIS weights.
	PdfFrom(ref Interaction, wi vmath.V3) float32
}

// SolidAnglePdf converts an area-measure sample at it, reached from ref
// along direction wi, into a solid-angle measure: pdf_ω = pdf_A · d² /
// |cos θ| at the sampled point. Shared by every Shape's SampleFrom.
func SolidAnglePdf(ref, it Interaction, wi vmath.V3, area float32) float32 {
	d2 := it.P.Sub(ref.P).LenSq()
	if d2 == 0 || area == 0 {
		return 0
	}
	cosTheta := it.N.AbsDot(wi.Neg())
	if cosTheta == 0 {
		return 0
	}
	return d2 / (cosTheta * area)
}
