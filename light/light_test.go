package light

import (
	"testing"

	"github.com/guerarda/rt1w-sub000/shape"
	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

type fakeScene struct{ blocked bool }

func (f fakeScene) QIntersect(r vmath.Ray) bool { return f.blocked }

func refAt(p vmath.V3) shape.Interaction {
	return shape.Interaction{P: p, N: vmath.V3{X: 0, Y: 0, Z: 1}}
}

func TestPointLightInverseSquareFalloff(t *testing.T) {
	pl := NewPointLight(vmath.V3{X: 0, Y: 0, Z: 2}, spectrum.New(4))
	ref := refAt(vmath.V3{})
	wi, li, pdf, _ := pl.SampleLi(ref, vmath.V2{})
	if pdf != 1 {
		t.Fatalf("point light pdf should be 1, got %v", pdf)
	}
	want := float32(4) / 4 // I / d^2, d=2
	if !vmath.Aeq(li.C[0], want) {
		t.Fatalf("expected intensity %v, got %v", want, li.C[0])
	}
	if wi.Z <= 0 {
		t.Fatalf("expected wi to point toward the light, got %v", wi)
	}
	if !pl.IsDeltaLight() {
		t.Fatalf("point light must be a delta light")
	}
}

func TestVisibilityTesterRespectsOcclusion(t *testing.T) {
	pl := NewPointLight(vmath.V3{X: 0, Y: 0, Z: 2}, spectrum.New(1))
	ref := refAt(vmath.V3{})
	_, _, _, vis := pl.SampleLi(ref, vmath.V2{})
	if !vis.Unoccluded(fakeScene{blocked: false}) {
		t.Fatalf("expected unoccluded visibility with no blocker")
	}
	if vis.Unoccluded(fakeScene{blocked: true}) {
		t.Fatalf("expected occluded visibility when scene reports a blocker")
	}
}

func TestAreaLightEmitsOnlyFromFront(t *testing.T) {
	s := &shape.Sphere{ObjectToWorld: vmath.Translate(vmath.V3{X: 0, Y: 0, Z: 5}), R: 1}
	al := NewAreaLight(s, spectrum.New(2))
	it := shape.Interaction{P: vmath.V3{X: 0, Y: 0, Z: 4}, N: vmath.V3{X: 0, Y: 0, Z: -1}}
	front := al.LightEmitted(it, vmath.V3{X: 0, Y: 0, Z: -1})
	back := al.LightEmitted(it, vmath.V3{X: 0, Y: 0, Z: 1})
	if front.IsBlack() {
		t.Fatalf("expected emission on the normal-facing side")
	}
	if !back.IsBlack() {
		t.Fatalf("expected no emission on the back side")
	}
}

func TestEnvironmentLightLeScalesConstantMap(t *testing.T) {
	el := NewEnvironmentLight(vmath.Identity(), vmath.V3{}, 100, nil, spectrum.New(3))
	r := vmath.NewRay(vmath.V3{}, vmath.V3{X: 0, Y: 1, Z: 0})
	le := el.Le(r)
	if le.C[0] != 3 {
		t.Fatalf("expected constant map scaled by Lemit, got %v", le)
	}
}
