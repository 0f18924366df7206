package scene

import (
	"testing"

	"github.com/guerarda/rt1w-sub000/vmath"
)

func TestParamsFromMapTypedGetters(t *testing.T) {
	m := map[string]any{
		"name":   "sphere1",
		"radius": 2.5,
		"lit":    true,
		"center": []any{1.0, 2.0, 3.0},
	}
	p := ParamsFromMap(m)

	if got := p.String("name", ""); got != "sphere1" {
		t.Fatalf("String(name) = %q", got)
	}
	if got := p.Float("radius", 0); got != 2.5 {
		t.Fatalf("Float(radius) = %v", got)
	}
	if !p.Bool("lit", false) {
		t.Fatalf("Bool(lit) = false")
	}
	if got := p.V3("center", vmath.V3{}); got != (vmath.V3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("V3(center) = %v", got)
	}
	if got := p.String("missing", "fallback"); got != "fallback" {
		t.Fatalf("String(missing) = %q, want fallback", got)
	}
}

func TestParamsMergePrefersExistingKeys(t *testing.T) {
	dst := ParamsFromMap(map[string]any{"type": "matte"})
	src := ParamsFromMap(map[string]any{"type": "mirror", "fuzz": 0.2})

	dst.Merge(src)

	if got := dst.String("type", ""); got != "matte" {
		t.Fatalf("Merge overwrote existing key: got %q", got)
	}
	if got := dst.Float("fuzz", -1); got != 0.2 {
		t.Fatalf("Merge did not bring in new key: got %v", got)
	}
}

func TestParamsHasDistinguishesAbsentFromZero(t *testing.T) {
	p := ParamsFromMap(map[string]any{"count": 0.0})
	if !p.Has("count") {
		t.Fatalf("Has(count) = false, want true for an explicit zero value")
	}
	if p.Has("other") {
		t.Fatalf("Has(other) = true, want false")
	}
}
