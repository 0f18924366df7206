package vmath

import "math"

// OffsetRayOrigin nudges a hit point p off the surface along geometric
// normal n by the conservative error bound pError projected onto n, then
// snaps each offset component to the next representable float32 in the
// direction away from the surface. This is the self-intersection-safe
// origin construction used by every SpawnRay call.
func OffsetRayOrigin(p, pError, n, dir V3) V3 {
	d := n.Abs().Dot(pError)
	offset := n.Scale(d)
	if dir.Dot(n) < 0 {
		offset = offset.Neg()
	}
	po := p.Add(offset)
	return V3{
		nextFloatTowards(po.X, offset.X),
		nextFloatTowards(po.Y, offset.Y),
		nextFloatTowards(po.Z, offset.Z),
	}
}

func nextFloatTowards(v, dir float32) float32 {
	if dir > 0 {
		return math.Nextafter32(v, float32(math.Inf(1)))
	}
	if dir < 0 {
		return math.Nextafter32(v, float32(math.Inf(-1)))
	}
	return v
}

// SpawnRay returns an open-ended ray leaving the surface point (p, pError,
// n) in direction dir.
func SpawnRay(p, pError, n, dir V3) Ray {
	o := OffsetRayOrigin(p, pError, n, dir)
	return NewRay(o, dir)
}

// SpawnRayTo returns a ray from the surface point (p, pError, n) toward
// target, with TMax set just under 1 so the ray stops short of the target
// and never self-intersects it due to floating point error.
func SpawnRayTo(p, pError, n, target V3) Ray {
	dir := target.Sub(p)
	o := OffsetRayOrigin(p, pError, n, dir)
	d := target.Sub(o)
	return Ray{Origin: o, Dir: d, TMax: 1 - ShadowEpsilon}
}

// ShadowEpsilon keeps a shadow ray's TMax just shy of the light/reference
// point so the last step of travel never reports a self-hit.
const ShadowEpsilon = 1e-3
