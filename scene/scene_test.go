package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/guerarda/rt1w-sub000/spectrum"
	"github.com/guerarda/rt1w-sub000/vmath"
)

const sampleScene = `{
  "materials": {
    "wall": {"type": "matte", "albedo": [0.6, 0.6, 0.6]}
  },
  "shapes": {
    "ball": {"type": "sphere", "radius": 1, "transform": {"translate": [0, 0, -5]}}
  },
  "primitives": [
    {"shape": "ball", "material": "wall"}
  ],
  "lights": [
    {"type": "point", "position": [0, 5, 0], "intensity": [10, 10, 10]}
  ],
  "camera": {"eye": [0, 0, 0], "lookAt": [0, 0, -1], "fov": 40},
  "options": {"width": 16, "height": 12, "spp": 4, "accelerator": "bvh"}
}`

func writeSceneFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write scene file: %v", err)
	}
	return path
}

func TestLoadBuildsSceneFromJSON(t *testing.T) {
	path := writeSceneFile(t, sampleScene)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Opts.Width != 16 || s.Opts.Height != 12 {
		t.Fatalf("unexpected resolution %dx%d", s.Opts.Width, s.Opts.Height)
	}
	if s.Opts.SamplesPerPixel != 4 {
		t.Fatalf("expected spp 4, got %d", s.Opts.SamplesPerPixel)
	}
	if len(s.LightList) != 1 {
		t.Fatalf("expected 1 light, got %d", len(s.LightList))
	}

	w, h := s.Cam.Resolution()
	if w != 16 || h != 12 {
		t.Fatalf("camera resolution mismatch: %dx%d", w, h)
	}

	r := vmath.NewRay(vmath.V3{}, vmath.V3{X: 0, Y: 0, Z: -1})
	if _, hit := s.Intersect(r); !hit {
		t.Fatalf("expected the sphere along the camera's forward axis to hit")
	}
}

func TestLoadRejectsUnknownAccelerator(t *testing.T) {
	path := writeSceneFile(t, `{
		"shapes": {"ball": {"type": "sphere", "radius": 1}},
		"primitives": [{"shape": "ball"}],
		"options": {"accelerator": "octree"}
	}`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown accelerator")
	}
}

func TestParseTransformComposesArrayForm(t *testing.T) {
	v := []any{
		map[string]any{"translate": []any{1.0, 0.0, 0.0}},
		map[string]any{"scale": []any{2.0, 2.0, 2.0}},
	}
	xform, err := parseTransform(v)
	if err != nil {
		t.Fatalf("parseTransform: %v", err)
	}
	got := xform.ApplyPoint(vmath.V3{X: 1, Y: 0, Z: 0})
	want := vmath.V3{X: 3, Y: 0, Z: 0}
	if !got.Aeq(want) {
		t.Fatalf("composed transform = %v, want %v", got, want)
	}
}

func TestParseTransformPrefersTranslateOverScale(t *testing.T) {
	xform, err := parseTransform(map[string]any{"translate": []any{1.0, 0.0, 0.0}, "scale": []any{2.0, 2.0, 2.0}})
	if err != nil {
		t.Fatalf("parseTransform: %v", err)
	}
	got := xform.ApplyPoint(vmath.V3{X: 1, Y: 0, Z: 0})
	if !got.Aeq(vmath.V3{X: 2, Y: 0, Z: 0}) {
		t.Fatalf("expected translate to take priority, got %v", got)
	}
}

func TestBackgroundAtFallsBackToGradientSky(t *testing.T) {
	s := &Scene{}
	up := vmath.NewRay(vmath.V3{}, vmath.V3{X: 0, Y: 1, Z: 0})
	down := vmath.NewRay(vmath.V3{}, vmath.V3{X: 0, Y: -1, Z: 0})
	if s.BackgroundAt(up) == s.BackgroundAt(down) {
		t.Fatalf("expected the gradient sky to vary with ray direction")
	}
}

func TestBackgroundAtHonorsExplicitOption(t *testing.T) {
	bg := spectrum.RGB(0.1, 0.2, 0.3)
	s := &Scene{Opts: Options{HasBackground: true, Background: bg}}
	r := vmath.NewRay(vmath.V3{}, vmath.V3{X: 0, Y: 1, Z: 0})
	if got := s.BackgroundAt(r); got != bg {
		t.Fatalf("BackgroundAt ignored explicit option: got %v, want %v", got, bg)
	}
}
