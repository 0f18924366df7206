package vmath

import "math"

// Ray is parameterized as r(t) = Origin + t*Dir. Direction is not required
// to be normalized. TMax defaults to +inf.
type Ray struct {
	Origin V3
	Dir    V3
	TMax   float32
}

// NewRay returns a ray with TMax = +inf.
func NewRay(origin, dir V3) Ray {
	return Ray{Origin: origin, Dir: dir, TMax: float32(math.Inf(1))}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) V3 { return r.Origin.Add(r.Dir.Scale(t)) }

// ApplyRay transforms a ray's origin and direction, propagating the
// origin's positional error into the result (the origin gains whatever
// error oErr already carries plus the transform's own rounding error) and
// extending TMax conservatively so a transformed ray can't prematurely
// clip a still-valid hit.
func (t Transform) ApplyRay(r Ray, oErr V3) (Ray, V3) {
	o, oErrT := t.ApplyPointErr(r.Origin)
	oErrT = oErrT.Add(V3{
		oErr.X * Abs(t.M[0][0]) + oErr.Y*Abs(t.M[0][1]) + oErr.Z*Abs(t.M[0][2]),
		oErr.X * Abs(t.M[1][0]) + oErr.Y*Abs(t.M[1][1]) + oErr.Z*Abs(t.M[1][2]),
		oErr.X * Abs(t.M[2][0]) + oErr.Y*Abs(t.M[2][1]) + oErr.Z*Abs(t.M[2][2]),
	})
	d := t.ApplyVector(r.Dir)
	tMax := r.TMax
	lengthSquared := d.LenSq()
	if lengthSquared > 0 {
		dt := d.Abs().Dot(oErrT) / lengthSquared
		o = o.Add(d.Scale(dt))
		tMax -= dt
	}
	return Ray{Origin: o, Dir: d, TMax: tMax}, oErrT
}
