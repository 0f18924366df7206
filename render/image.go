package render

import (
	"fmt"
	stdimage "image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/guerarda/rt1w-sub000/workq"
)

// ToImage converts a Buffer (already gamma-corrected and clamped to
// [0,1]) into a standard library image.Image for encoding.
func (b Buffer) ToImage() *stdimage.NRGBA {
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			r, g, bl := b.Data[b.at(x, y)].RGB8()
			img.Set(x, y, color.NRGBA{R: r, G: g, B: bl, A: 255})
		}
	}
	return img
}

// WritePNG writes the buffer to path as an 8-bit PNG without applying
// any gamma of its own (Image is already gamma-corrected by renderTile;
// Normals/Albedo are saved linear), named per spec §6 (<output>.png, <output>-albedo.png,
// <output>-normals.png).
func WritePNG(b Buffer, path string) error {
	img := b.ToImage()
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}

// Denoiser is the interface a post-process denoise stage satisfies: it
// consumes the raw color buffer plus the auxiliary normal/albedo
// buffers and returns a filtered color buffer of the same dimensions
// (spec §4.14 "Image/Denoise pipeline").
type Denoiser interface {
	Denoise(color, normals, albedo Buffer) Buffer
}

// DenoiseStage runs denoiser against c's output buffers once rendering
// completes, replacing c.Image with the filtered result. It is wired
// through the same workq.Event chain the tile jobs use, so a caller can
// Wait on the returned event instead of polling c.Image.
func (c *Context) DenoiseStage(denoiser Denoiser) *workq.Event {
	return c.done.Notify(c.Queue, func(obj, arg any) {
		ctx := obj.(*Context)
		ctx.Image = denoiser.Denoise(ctx.Image, ctx.Normals, ctx.Albedo)
	}, c, nil)
}
