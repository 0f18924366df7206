package main

import (
	"os"
	"path/filepath"
	"testing"
)

const tinyScene = `{
  "shapes": {"ball": {"type": "sphere", "radius": 1, "transform": {"translate": [0, 0, -5]}}},
  "primitives": [{"shape": "ball"}],
  "lights": [{"type": "point", "position": [0, 5, 0], "intensity": [5, 5, 5]}],
  "camera": {"eye": [0, 0, 0], "lookAt": [0, 0, -1]},
  "options": {"width": 8, "height": 6, "spp": 1}
}`

func writeScene(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.json")
	if err := os.WriteFile(path, []byte(tinyScene), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	return path
}

func TestRunRendersAndWritesPNG(t *testing.T) {
	path := writeScene(t)
	out := filepath.Join(filepath.Dir(path), "frame")

	code := run([]string{"-quiet", "-out", out, path})
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
	if _, err := os.Stat(out + ".png"); err != nil {
		t.Fatalf("expected %s to exist: %v", out+".png", err)
	}
}

func TestRunWritesAuxiliaryBuffers(t *testing.T) {
	path := writeScene(t)
	out := filepath.Join(filepath.Dir(path), "frame")

	code := run([]string{"-quiet", "-albedo", "-normals", "-out", out, path})
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
	for _, suffix := range []string{".png", "-albedo.png", "-normals.png"} {
		if _, err := os.Stat(out + suffix); err != nil {
			t.Fatalf("expected %s to exist: %v", out+suffix, err)
		}
	}
}

func TestRunWithQualityGridDimension(t *testing.T) {
	path := writeScene(t)
	out := filepath.Join(filepath.Dir(path), "frame")

	// -quality names the per-axis stratification grid dimension N (spec
	// §6), not a raw spp count; N=2 asks for a 2x2 grid, i.e. spp=4.
	if code := run([]string{"-quiet", "-quality", "2", "-out", out, path}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
}

func TestRunWithWhittedIntegrator(t *testing.T) {
	path := writeScene(t)
	out := filepath.Join(filepath.Dir(path), "frame")

	if code := run([]string{"-quiet", "-whitted", "-out", out, path}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
}

func TestRunWithDenoise(t *testing.T) {
	path := writeScene(t)
	out := filepath.Join(filepath.Dir(path), "frame")

	if code := run([]string{"-quiet", "-denoise", "-out", out, path}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
}

func TestRunRejectsMissingSceneArgument(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Fatalf("run(nil) = %d, want 1", code)
	}
}

func TestRunRejectsUnreadableScene(t *testing.T) {
	if code := run([]string{filepath.Join(t.TempDir(), "missing.json")}); code != 1 {
		t.Fatalf("expected failure for a nonexistent scene file")
	}
}
