package camera

import (
	"testing"

	"github.com/guerarda/rt1w-sub000/sampler"
	"github.com/guerarda/rt1w-sub000/vmath"
	"pgregory.net/rapid"
)

func centerSample(w, h int) sampler.CameraSample {
	return sampler.CameraSample{
		PFilm: vmath.V2{X: float32(w) / 2, Y: float32(h) / 2},
		PLens: vmath.V2{X: 0.5, Y: 0.5},
	}
}

func TestPerspectiveLooksDownMinusZ(t *testing.T) {
	c := NewPerspective(vmath.V3{}, vmath.V3{X: 0, Y: 0, Z: -1}, vmath.V3{X: 0, Y: 1, Z: 0},
		100, 100, Screen{Left: -1, Right: 1, Bottom: -1, Top: 1}, 40, 0, 1, 1e-3, 1e4)

	r := c.GenerateRay(centerSample(100, 100))
	want := vmath.V3{X: 0, Y: 0, Z: -1}
	if !r.Dir.Aeq(want) {
		t.Fatalf("center ray direction = %v, want %v", r.Dir, want)
	}
}

func TestPerspectivePositionMatchesEye(t *testing.T) {
	eye := vmath.V3{X: 1, Y: 2, Z: 3}
	c := NewPerspective(eye, vmath.V3{X: 0, Y: 0, Z: 0}, vmath.V3{X: 0, Y: 1, Z: 0},
		64, 64, Screen{Left: -1, Right: 1, Bottom: -1, Top: 1}, 40, 0, 1, 1e-3, 1e4)
	if got := c.Position(); !got.Aeq(eye) {
		t.Fatalf("Position() = %v, want %v", got, eye)
	}
}

func TestPerspectiveResolution(t *testing.T) {
	c := NewPerspective(vmath.V3{}, vmath.V3{X: 0, Y: 0, Z: -1}, vmath.V3{X: 0, Y: 1, Z: 0},
		320, 240, Screen{Left: -1, Right: 1, Bottom: -1, Top: 1}, 40, 0, 1, 1e-3, 1e4)
	if w, h := c.Resolution(); w != 320 || h != 240 {
		t.Fatalf("Resolution() = %dx%d, want 320x240", w, h)
	}
}

func TestOrthographicRaysShareDirection(t *testing.T) {
	c := NewOrthographic(vmath.V3{}, vmath.V3{X: 0, Y: 0, Z: -1}, vmath.V3{X: 0, Y: 1, Z: 0},
		50, 50, Screen{Left: -1, Right: 1, Bottom: -1, Top: 1}, 0, 1)

	r0 := c.GenerateRay(sampler.CameraSample{PFilm: vmath.V2{X: 0, Y: 0}, PLens: vmath.V2{X: 0.5, Y: 0.5}})
	r1 := c.GenerateRay(sampler.CameraSample{PFilm: vmath.V2{X: 49, Y: 49}, PLens: vmath.V2{X: 0.5, Y: 0.5}})
	if !r0.Dir.Aeq(r1.Dir) {
		t.Fatalf("orthographic rays diverge: %v vs %v", r0.Dir, r1.Dir)
	}
	if r0.Origin.Aeq(r1.Origin) {
		t.Fatalf("orthographic rays should originate from different points on the film")
	}
}

// TestGenerateRayAlwaysUnit exercises both camera kinds across random
// film/lens samples and focus settings and checks the invariant every
// camera must hold: GenerateRay always returns a unit direction,
// regardless of aperture, lens offset or field of view (spec §4.13,
// §8 "camera ray invariants").
func TestGenerateRayAlwaysUnit(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.IntRange(1, 512).Draw(rt, "w")
		h := rapid.IntRange(1, 512).Draw(rt, "h")
		fov := rapid.Float32Range(1, 170).Draw(rt, "fov")
		aperture := rapid.Float32Range(0, 2).Draw(rt, "aperture")
		focus := rapid.Float32Range(0.1, 50).Draw(rt, "focus")
		px := rapid.Float32Range(0, float32(w)).Draw(rt, "px")
		py := rapid.Float32Range(0, float32(h)).Draw(rt, "py")
		lx := rapid.Float32Range(0, 1).Draw(rt, "lx")
		ly := rapid.Float32Range(0, 1).Draw(rt, "ly")
		ortho := rapid.Bool().Draw(rt, "ortho")

		screen := Screen{Left: -1, Right: 1, Bottom: -1, Top: 1}
		cs := sampler.CameraSample{PFilm: vmath.V2{X: px, Y: py}, PLens: vmath.V2{X: lx, Y: ly}}

		var r vmath.Ray
		if ortho {
			c := NewOrthographic(vmath.V3{}, vmath.V3{X: 0, Y: 0, Z: -1}, vmath.V3{X: 0, Y: 1, Z: 0}, w, h, screen, aperture, focus)
			r = c.GenerateRay(cs)
		} else {
			c := NewPerspective(vmath.V3{}, vmath.V3{X: 0, Y: 0, Z: -1}, vmath.V3{X: 0, Y: 1, Z: 0}, w, h, screen, fov, aperture, focus, 1e-3, 1e4)
			r = c.GenerateRay(cs)
		}

		if d := r.Dir.Len(); d < 0.999 || d > 1.001 {
			t.Fatalf("ray direction not unit length: %v (len %v)", r.Dir, d)
		}
	})
}
