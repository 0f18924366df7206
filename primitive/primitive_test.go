package primitive

import (
	"testing"

	"github.com/guerarda/rt1w-sub000/material"
	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

func unitSphereAt(center vmath.V3) *shape.Sphere {
	return &shape.Sphere{ObjectToWorld: vmath.Translate(center), R: 1}
}

func TestGeometricIntersectSetsPrim(t *testing.T) {
	s := unitSphereAt(vmath.V3{})
	g := NewGeometric(s, material.NewMatte(spectrum.New(0.5)))
	r := vmath.NewRay(vmath.V3{X: 0, Y: 0, Z: -5}, vmath.V3{X: 0, Y: 0, Z: 1})
	it, hit := g.Intersect(r)
	if !hit {
		t.Fatalf("expected hit")
	}
	if it.Prim != g {
		t.Fatalf("expected Interaction.Prim to reference the Geometric primitive")
	}
}

func TestAggregateReturnsClosestHit(t *testing.T) {
	near := NewGeometric(unitSphereAt(vmath.V3{X: 0, Y: 0, Z: -2}), material.NewMatte(spectrum.New(0.5)))
	far := NewGeometric(unitSphereAt(vmath.V3{X: 0, Y: 0, Z: -10}), material.NewMatte(spectrum.New(0.5)))
	agg := NewAggregate([]Primitive{far, near})

	r := vmath.NewRay(vmath.V3{X: 0, Y: 0, Z: 5}, vmath.V3{X: 0, Y: 0, Z: -1})
	it, hit := agg.Intersect(r)
	if !hit {
		t.Fatalf("expected hit")
	}
	if it.Prim != near {
		t.Fatalf("expected closest primitive to win, got %v", it.Prim)
	}
}

func TestAggregateWorldBoundUnionsChildren(t *testing.T) {
	a := NewGeometric(unitSphereAt(vmath.V3{X: -5, Y: 0, Z: 0}), material.NewMatte(spectrum.New(0.5)))
	b := NewGeometric(unitSphereAt(vmath.V3{X: 5, Y: 0, Z: 0}), material.NewMatte(spectrum.New(0.5)))
	agg := NewAggregate([]Primitive{a, b})
	bound := agg.WorldBound()
	if bound.Lo.X > -6 || bound.Hi.X < 6 {
		t.Fatalf("expected union bound to span both spheres, got %v", bound)
	}
}

func TestAggregateQIntersectMatchesIntersect(t *testing.T) {
	s := NewGeometric(unitSphereAt(vmath.V3{}), material.NewMatte(spectrum.New(0.5)))
	agg := NewAggregate([]Primitive{s})

	hitRay := vmath.NewRay(vmath.V3{X: 0, Y: 0, Z: -5}, vmath.V3{X: 0, Y: 0, Z: 1})
	missRay := vmath.NewRay(vmath.V3{X: 10, Y: 0, Z: -5}, vmath.V3{X: 0, Y: 0, Z: 1})

	if _, hit := agg.Intersect(hitRay); hit != agg.QIntersect(hitRay) {
		t.Fatalf("qIntersect/intersect disagree on hitRay")
	}
	if _, hit := agg.Intersect(missRay); hit != agg.QIntersect(missRay) {
		t.Fatalf("qIntersect/intersect disagree on missRay")
	}
}
