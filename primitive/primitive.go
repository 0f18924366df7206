// Package primitive binds a shape.Shape to a material and, optionally,
// an area light, and groups bound primitives into an aggregate. It is
// the scene graph's leaf and n-ary branch node (spec §3 Primitive,
// §2 "Primitive + Aggregate").
package primitive

import (
	"github.com/guerarda/rt1w-sub000/light"
	"github.com/guerarda/rt1w-sub000/material"
	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/vmath"
)

// Primitive is the closed set of scene-graph nodes: a Geometric leaf
// binding one shape to one material (and an optional area light), or
// an Aggregate grouping children.
type Primitive interface {
	Intersect(r vmath.Ray) (it shape.Interaction, hit bool)
	QIntersect(r vmath.Ray) bool
	WorldBound() vmath.Bounds3
}

// Geometric is a leaf primitive: one shape, one material, and an
// optional light (non-nil iff this primitive is an emitter).
type Geometric struct {
	Shp shape.Shape
	Mtl material.Material
	Lt  light.Light
}

// NewGeometric binds shape s to material m with no associated light.
func NewGeometric(s shape.Shape, m material.Material) *Geometric {
	return &Geometric{Shp: s, Mtl: m}
}

// NewAreaPrimitive binds shape s to material m and area light l, which
// must be bound back to s by the caller (spec: "Primitive → Light is
// one-directional").
func NewAreaPrimitive(s shape.Shape, m material.Material, l light.Light) *Geometric {
	return &Geometric{Shp: s, Mtl: m, Lt: l}
}

func (g *Geometric) Intersect(r vmath.Ray) (shape.Interaction, bool) {
	it, _, hit := g.Shp.Intersect(r)
	if !hit {
		return shape.Interaction{}, false
	}
	it.Prim = g
	return it, true
}

func (g *Geometric) QIntersect(r vmath.Ray) bool { return g.Shp.QIntersect(r) }
func (g *Geometric) WorldBound() vmath.Bounds3   { return g.Shp.WorldBound() }

// Material returns the primitive's bound material.
func (g *Geometric) Material() material.Material { return g.Mtl }

// LightSource returns the primitive's bound area light, nil if the
// primitive is not an emitter.
func (g *Geometric) LightSource() light.Light { return g.Lt }

// Aggregate groups child primitives behind a single Primitive, testing
// each in turn. BVH/QBVH accelerators are aggregates specialized for
// sublinear intersection; Aggregate itself is the reference O(n)
// implementation used for small primitive counts and as the builder's
// input list (spec §3 Primitive: "Aggregate primitives hold a list of
// primitives and expose a world-space bounds union").
type Aggregate struct {
	Prims []Primitive
	Bound vmath.Bounds3
}

// NewAggregate builds an Aggregate over prims, computing the union
// bounds once at construction.
func NewAggregate(prims []Primitive) *Aggregate {
	b := vmath.EmptyBounds3()
	for _, p := range prims {
		b = b.UnionBounds(p.WorldBound())
	}
	return &Aggregate{Prims: prims, Bound: b}
}

func (a *Aggregate) Intersect(r vmath.Ray) (shape.Interaction, bool) {
	var best shape.Interaction
	hitAny := false
	ray := r
	for _, p := range a.Prims {
		if it, hit := p.Intersect(ray); hit {
			hitAny = true
			best = it
			ray.TMax = it.T
		}
	}
	return best, hitAny
}

func (a *Aggregate) QIntersect(r vmath.Ray) bool {
	for _, p := range a.Prims {
		if p.QIntersect(r) {
			return true
		}
	}
	return false
}

func (a *Aggregate) WorldBound() vmath.Bounds3 { return a.Bound }
