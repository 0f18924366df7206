package shape

import (
	"math"

	"github.com/guerarda/rt1w-sub000/vmath"
)

// Sphere is a sphere of radius R centered at the origin of its
// object-to-world transform. Intersection is carried out in object
// space with EFloat error bounds so that near-tangent and near-zero
// roots cannot leak through as false hits, the same failure mode the
// engine's float64 castRaySphere did not need to guard against.
type Sphere struct {
	ObjectToWorld vmath.Transform
	R             float32
}

// NewSphere builds a sphere of the given radius under objectToWorld.
func NewSphere(objectToWorld vmath.Transform, r float32) *Sphere {
	return &Sphere{ObjectToWorld: objectToWorld, R: r}
}

func (s *Sphere) WorldBound() vmath.Bounds3 {
	b := vmath.Bounds3{Lo: vmath.V3{X: -s.R, Y: -s.R, Z: -s.R}, Hi: vmath.V3{X: s.R, Y: s.R, Z: s.R}}
	return s.ObjectToWorld.ApplyBounds(b)
}

func (s *Sphere) Area() float32 { return 4 * math.Pi * s.R * s.R }

// Intersect implements the robust quadratic test of spec §4.5: ray to
// object space with conservative origin/direction error, EFloat
// quadratic coefficients, bounds-based root selection, then reprojection
// of the hit point onto the exact sphere.
func (s *Sphere) Intersect(r vmath.Ray) (Interaction, float32, bool) {
	worldToObject := s.ObjectToWorld.Inverse()
	oObj, oErr := worldToObject.ApplyPointErr(r.Origin)
	dObj, dErr := worldToObject.ApplyVectorErr(r.Dir)

	ox := vmath.NewEFloatErr(oObj.X, oErr.X)
	oy := vmath.NewEFloatErr(oObj.Y, oErr.Y)
	oz := vmath.NewEFloatErr(oObj.Z, oErr.Z)
	dx := vmath.NewEFloatErr(dObj.X, dErr.X)
	dy := vmath.NewEFloatErr(dObj.Y, dErr.Y)
	dz := vmath.NewEFloatErr(dObj.Z, dErr.Z)

	a := dx.Mul(dx).Add(dy.Mul(dy)).Add(dz.Mul(dz))
	b := vmath.MulF(2, ox.Mul(dx).Add(oy.Mul(dy)).Add(oz.Mul(dz)))
	rr := vmath.NewEFloat(s.R)
	c := ox.Mul(ox).Add(oy.Mul(oy)).Add(oz.Mul(oz)).Sub(rr.Mul(rr))

	t0, t1, ok := vmath.Quadratic(a, b, c)
	if !ok {
		return Interaction{}, 0, false
	}
	if t0.Hi() <= 0 || t1.Lo() >= r.TMax {
		return Interaction{}, 0, false
	}
	tShapeHit := t0
	if tShapeHit.Lo() <= 0 {
		tShapeHit = t1
		if tShapeHit.Hi() >= r.TMax {
			return Interaction{}, 0, false
		}
	}

	pHit := vmath.V3{
		X: oObj.X + tShapeHit.V()*dObj.X,
		Y: oObj.Y + tShapeHit.V()*dObj.Y,
		Z: oObj.Z + tShapeHit.V()*dObj.Z,
	}
	if pHit.LenSq() > 0 {
		pHit = pHit.Scale(s.R / pHit.Len())
	}
	if pHit.X == 0 && pHit.Y == 0 {
		pHit.X = 1e-5 * s.R
	}

	phi := float32(math.Atan2(float64(pHit.X), float64(pHit.Z)))
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := float32(math.Acos(float64(vmath.Clamp(pHit.Y/s.R, -1, 1))))

	u := phi / (2 * math.Pi)
	v := theta / math.Pi

	zRadius := float32(math.Sqrt(float64(pHit.X*pHit.X + pHit.Z*pHit.Z)))
	var dpdu, dpdv vmath.V3
	if zRadius > 0 {
		invZRadius := 1 / zRadius
		cosPhi := pHit.X * invZRadius
		sinPhi := pHit.Z * invZRadius
		dpdu = vmath.V3{X: -2 * math.Pi * pHit.Z, Y: 0, Z: 2 * math.Pi * pHit.X}
		dpdv = vmath.V3{X: pHit.Y * cosPhi, Y: -zRadius, Z: pHit.Y * sinPhi}.Scale(math.Pi)
	} else {
		dpdu = vmath.V3{X: 1, Y: 0, Z: 0}
		dpdv = vmath.V3{X: 0, Y: 0, Z: 1}
	}

	pError := pHit.Abs().Scale(vmath.Gamma(5))
	n := pHit.Unit()

	worldP, worldPErr := s.ObjectToWorld.ApplyPointErr(pHit)
	worldPErr = worldPErr.Add(s.ObjectToWorld.ApplyVector(pError))
	worldN := s.ObjectToWorld.ApplyNormal(n).Unit()
	worldDpdu := s.ObjectToWorld.ApplyVector(dpdu)
	worldDpdv := s.ObjectToWorld.ApplyVector(dpdv)

	it := Interaction{
		P:      worldP,
		PError: worldPErr,
		N:      worldN,
		Wo:     r.Dir.Neg().Unit(),
		UV:     vmath.V2{X: u, Y: v},
		Dpdu:   worldDpdu,
		Dpdv:   worldDpdv,
		T:      tShapeHit.V(),
		Shape:  s,
	}
	return it, tShapeHit.V(), true
}

// QIntersect is the shadow-ray form: identical math, no Interaction.
func (s *Sphere) QIntersect(r vmath.Ray) bool {
	_, _, hit := s.Intersect(r)
	return hit
}

func (s *Sphere) Sample(u vmath.V2) (Interaction, float32) {
	pObj := vmath.UniformSampleSphere(u).Scale(s.R)
	n := pObj.Unit()
	pError := pObj.Abs().Scale(vmath.Gamma(5))

	worldP, worldPErr := s.ObjectToWorld.ApplyPointErr(pObj)
	worldPErr = worldPErr.Add(s.ObjectToWorld.ApplyVector(pError))
	it := Interaction{
		P:      worldP,
		PError: worldPErr,
		N:      s.ObjectToWorld.ApplyNormal(n).Unit(),
		Shape:  s,
	}
	return it, 1 / s.Area()
}

func (s *Sphere) SampleFrom(ref Interaction, u vmath.V2) (Interaction, float32) {
	it, _ := s.Sample(u)
	wi := it.P.Sub(ref.P)
	if wi.LenSq() == 0 {
		return it, 0
	}
	wi = wi.Unit()
	return it, SolidAnglePdf(ref, it, wi, s.Area())
}

func (s *Sphere) PdfFrom(ref Interaction, wi vmath.V3) float32 {
	it, _, hit := s.Intersect(ref.SpawnRay(wi))
	if !hit {
		return 0
	}
	return SolidAnglePdf(ref, it, wi, s.Area())
}
