package bvh

import (
	"testing"

	"github.com/guerarda/rt1w-sub000/material"
	"github.com/guerarda/rt1w-sub000/primitive"
	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
	"pgregory.net/rapid"
)

func sphereAt(x, y, z, r float32) primitive.Primitive {
	s := shape.NewSphere(vmath.Translate(vmath.V3{X: x, Y: y, Z: z}), r)
	return primitive.NewGeometric(s, material.NewMatte(spectrum.New(0.5)))
}

func gridOfSpheres(n int) []primitive.Primitive {
	prims := make([]primitive.Primitive, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			prims = append(prims, sphereAt(float32(i)*5, float32(j)*5, 0, 1))
		}
	}
	return prims
}

func bruteForceIntersect(prims []primitive.Primitive, r vmath.Ray) (shape.Interaction, bool) {
	agg := primitive.NewAggregate(prims)
	return agg.Intersect(r)
}

func TestBVHMatchesBruteForce(t *testing.T) {
	prims := gridOfSpheres(6)
	accel := Build(prims)

	r := vmath.NewRay(vmath.V3{X: 5, Y: 5, Z: -20}, vmath.V3{X: 0, Y: 0, Z: 1})
	want, wantHit := bruteForceIntersect(prims, r)
	got, gotHit := accel.Intersect(r)

	if gotHit != wantHit {
		t.Fatalf("hit mismatch: bvh=%v bruteforce=%v", gotHit, wantHit)
	}
	if gotHit && !vmath.Aeq(got.T, want.T) {
		t.Fatalf("t mismatch: bvh=%v bruteforce=%v", got.T, want.T)
	}
}

func TestBVHMissReturnsFalse(t *testing.T) {
	prims := gridOfSpheres(3)
	accel := Build(prims)
	r := vmath.NewRay(vmath.V3{X: 1000, Y: 1000, Z: -20}, vmath.V3{X: 0, Y: 0, Z: 1})
	if _, hit := accel.Intersect(r); hit {
		t.Fatalf("expected a miss far from any sphere")
	}
}

func TestBVHQIntersectMatchesIntersect(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		prims := gridOfSpheres(4)
		accel := Build(prims)
		ox := rapid.Float32Range(-5, 25).Draw(rt, "ox")
		oy := rapid.Float32Range(-5, 25).Draw(rt, "oy")
		r := vmath.NewRay(vmath.V3{X: ox, Y: oy, Z: -20}, vmath.V3{X: 0, Y: 0, Z: 1})
		_, hit := accel.Intersect(r)
		if hit != accel.QIntersect(r) {
			rt.Fatalf("qIntersect/intersect disagree for ray from (%v,%v)", ox, oy)
		}
	})
}

func TestQBVHMatchesBVH(t *testing.T) {
	prims := gridOfSpheres(6)
	bh := Build(prims)
	qh := BuildQBVH(prims)

	rapid.Check(t, func(rt *rapid.T) {
		ox := rapid.Float32Range(-5, 30).Draw(rt, "ox")
		oy := rapid.Float32Range(-5, 30).Draw(rt, "oy")
		r := vmath.NewRay(vmath.V3{X: ox, Y: oy, Z: -20}, vmath.V3{X: 0, Y: 0, Z: 1})

		bIt, bHit := bh.Intersect(r)
		qIt, qHit := qh.Intersect(r)
		if bHit != qHit {
			rt.Fatalf("hit mismatch at (%v,%v): bvh=%v qbvh=%v", ox, oy, bHit, qHit)
		}
		if bHit && !vmath.Aeq(bIt.T, qIt.T) {
			rt.Fatalf("t mismatch at (%v,%v): bvh=%v qbvh=%v", ox, oy, bIt.T, qIt.T)
		}
		if bh.QIntersect(r) != qh.QIntersect(r) {
			rt.Fatalf("qIntersect mismatch at (%v,%v)", ox, oy)
		}
	})
}

func TestBoundsUnionIsIdentityOnEmpty(t *testing.T) {
	e := vmath.EmptyBounds3()
	p := vmath.V3{X: 1, Y: 2, Z: 3}
	got := e.Union(p)
	if got.Lo != p || got.Hi != p {
		t.Fatalf("union with empty bounds should equal the point, got %v", got)
	}
}
