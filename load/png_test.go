package load

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestImageDecodesPNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{255, 0, 0, 255})
	src.Set(1, 1, color.RGBA{0, 255, 0, 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	img, err := Image(&buf)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("decoded bounds = %v, want 2x2", b)
	}
}

func TestImageRejectsGarbage(t *testing.T) {
	if _, err := Image(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected a decode error for non-image data")
	}
}
