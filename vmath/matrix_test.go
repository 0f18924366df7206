package vmath

import "testing"

func TestTranslateInverse(t *testing.T) {
	tr := Translate(V3{1, 2, 3})
	p := tr.ApplyPoint(V3{0, 0, 0})
	if !p.Aeq(V3{1, 2, 3}) {
		t.Fatalf("translate applied wrong: %v", p)
	}
	back := tr.Inverse().ApplyPoint(p)
	if !back.Aeq(V3{0, 0, 0}) {
		t.Fatalf("translate inverse did not undo: %v", back)
	}
}

func TestRotateZPreservesLength(t *testing.T) {
	tr := RotateZ(37)
	v := V3{1, 2, 0}
	r := tr.ApplyVector(v)
	if !Aeq(r.Len(), v.Len()) {
		t.Fatalf("rotation changed vector length: %v vs %v", r.Len(), v.Len())
	}
}

func TestLookAtCameraAtOrigin(t *testing.T) {
	eye := V3{0, 0, -5}
	look := V3{0, 0, 0}
	up := V3{0, 1, 0}
	tr := LookAt(eye, look, up)
	// camera space origin (0,0,0) should map to eye in world space.
	got := tr.ApplyPoint(V3{0, 0, 0})
	if !got.Aeq(eye) {
		t.Fatalf("LookAt origin = %v, want %v", got, eye)
	}
}

func TestMulComposesApplication(t *testing.T) {
	a := Translate(V3{1, 0, 0})
	b := ScaleT(2, 2, 2)
	combined := a.Mul(b)
	p := V3{1, 1, 1}
	want := a.ApplyPoint(b.ApplyPoint(p))
	got := combined.ApplyPoint(p)
	if !got.Aeq(want) {
		t.Fatalf("composed transform = %v, want %v", got, want)
	}
}
