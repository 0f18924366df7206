package load

import (
	"fmt"
	"image"
	"io"

	// Register additional decoders alongside the stdlib PNG/JPEG ones so
	// a scene's texture/environment-map reference can use whichever
	// format it was authored in.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Image decodes an arbitrary registered image format (PNG, JPEG, BMP,
// TIFF) from r. It is the renderer's sole image-decode entry point, used
// for the environment radiance maps referenced from the JSON scene
// document's textures; materials take no image textures.
//
// The Reader r is expected to be opened and closed by the caller.
func Image(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("load: decode image: %w", err)
	}
	_ = format
	return img, nil
}
