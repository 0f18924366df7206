package vmath

import "math"

// Bounds3 is an axis aligned bounding box. It is the 3D analogue of the
// engine's old broad-phase Abox, generalized from a fixed-size collision
// primitive to a general-purpose spatial bound used by the BVH builder,
// shape bounds, and SAH bucketing.
//
// An empty bound has Lo = +inf, Hi = -inf so that Union with any point or
// bound returns that point or bound unchanged.
type Bounds3 struct {
	Lo, Hi V3
}

// EmptyBounds3 returns a bound for which any Union is the identity.
func EmptyBounds3() Bounds3 {
	inf := float32(math.Inf(1))
	return Bounds3{
		Lo: V3{inf, inf, inf},
		Hi: V3{-inf, -inf, -inf},
	}
}

// BoundsFromPoint returns the degenerate bound containing only p.
func BoundsFromPoint(p V3) Bounds3 { return Bounds3{p, p} }

// BoundsFromPoints returns the bound spanning lo and hi (order independent).
func BoundsFromPoints(a, b V3) Bounds3 {
	return Bounds3{Lo: a.Min(b), Hi: a.Max(b)}
}

// Union returns the smallest bound containing b and p.
func (b Bounds3) Union(p V3) Bounds3 {
	return Bounds3{Lo: b.Lo.Min(p), Hi: b.Hi.Max(p)}
}

// UnionBounds returns the smallest bound containing both b and o.
func (b Bounds3) UnionBounds(o Bounds3) Bounds3 {
	return Bounds3{Lo: b.Lo.Min(o.Lo), Hi: b.Hi.Max(o.Hi)}
}

// Overlaps reports whether b and o share any volume.
func (b Bounds3) Overlaps(o Bounds3) bool {
	return b.Hi.X >= o.Lo.X && b.Lo.X <= o.Hi.X &&
		b.Hi.Y >= o.Lo.Y && b.Lo.Y <= o.Hi.Y &&
		b.Hi.Z >= o.Lo.Z && b.Lo.Z <= o.Hi.Z
}

// Diagonal returns Hi-Lo.
func (b Bounds3) Diagonal() V3 { return b.Hi.Sub(b.Lo) }

// Centroid returns the midpoint of the bound.
func (b Bounds3) Centroid() V3 { return b.Lo.Add(b.Hi).Scale(0.5) }

// SurfaceArea returns the total surface area of the box. Degenerate
// (negative-extent) bounds return 0.
func (b Bounds3) SurfaceArea() float32 {
	d := b.Diagonal()
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return 0
	}
	return 2 * (d.X*d.Y + d.X*d.Z + d.Y*d.Z)
}

// Volume returns the box volume. Degenerate bounds return 0.
func (b Bounds3) Volume() float32 {
	d := b.Diagonal()
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return 0
	}
	return d.X * d.Y * d.Z
}

// MaxAxis returns the axis (0, 1, 2) along which the bound has its
// largest extent. Used to choose the BVH split axis.
func (b Bounds3) MaxAxis() int { return b.Diagonal().MaxAxis() }

// Offset returns p's position within the bound, normalized to [0,1] on each
// axis the bound has nonzero extent in. Degenerate axes return 0.
func (b Bounds3) Offset(p V3) V3 {
	o := p.Sub(b.Lo)
	d := b.Diagonal()
	if d.X > 0 {
		o.X /= d.X
	}
	if d.Y > 0 {
		o.Y /= d.Y
	}
	if d.Z > 0 {
		o.Z /= d.Z
	}
	return o
}

// Corner returns one of the 8 corners of the bound, selected by the 3-bit
// index c (bit i selects Hi on axis i, Lo otherwise).
func (b Bounds3) Corner(c int) V3 {
	x := b.Lo.X
	if c&1 != 0 {
		x = b.Hi.X
	}
	y := b.Lo.Y
	if c&2 != 0 {
		y = b.Hi.Y
	}
	z := b.Lo.Z
	if c&4 != 0 {
		z = b.Hi.Z
	}
	return V3{x, y, z}
}

// BoundingSphere returns a center and radius that encloses b.
func (b Bounds3) BoundingSphere() (center V3, radius float32) {
	center = b.Centroid()
	radius = 0
	if b.Overlaps(b) { // non-degenerate: radius is half the diagonal length.
		radius = b.Hi.Sub(center).Len()
	}
	return center, radius
}

// IntersectP tests the bound against a ray using the slab method, with
// precomputed inverse ray direction and direction signs (dirIsNeg[i] is 1
// when invDir component i is negative). Reports a hit when the slab
// overlap [tmin,tmax] satisfies tmin < rayTMax and tmax >= 0, and
// returns that overlap unclipped (tmin may be negative, tmax may exceed
// rayTMax).
func (b Bounds3) IntersectP(origin, invDir V3, dirIsNeg [3]bool, rayTMax float32) (hit bool, tmin, tmax float32) {
	lo, hi := b.Lo, b.Hi
	tmin = (lo.X - origin.X) * invDir.X
	tmax = (hi.X - origin.X) * invDir.X
	if dirIsNeg[0] {
		tmin, tmax = tmax, tmin
	}
	tyMin := (lo.Y - origin.Y) * invDir.Y
	tyMax := (hi.Y - origin.Y) * invDir.Y
	if dirIsNeg[1] {
		tyMin, tyMax = tyMax, tyMin
	}
	if tmin > tyMax || tyMin > tmax {
		return false, 0, 0
	}
	if tyMin > tmin {
		tmin = tyMin
	}
	if tyMax < tmax {
		tmax = tyMax
	}
	tzMin := (lo.Z - origin.Z) * invDir.Z
	tzMax := (hi.Z - origin.Z) * invDir.Z
	if dirIsNeg[2] {
		tzMin, tzMax = tzMax, tzMin
	}
	if tmin > tzMax || tzMin > tmax {
		return false, 0, 0
	}
	if tzMin > tmin {
		tmin = tzMin
	}
	if tzMax < tmax {
		tmax = tzMax
	}
	return tmin < rayTMax && tmax >= 0, tmin, tmax
}
