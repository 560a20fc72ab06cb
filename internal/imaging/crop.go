package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// CropWindow extracts a fixed window from an image.
//
// The window may extend past the image bounds; those areas are filled with
// opaque black so the output is always window.Dx() x window.Dy(). The result
// has its origin at (0,0).
func CropWindow(img image.Image, window image.Rectangle) (*image.NRGBA, error) {
	if window.Empty() {
		return nil, fmt.Errorf("invalid crop window %v", window)
	}

	canvas := imaging.New(window.Dx(), window.Dy(), color.Black)

	visible := window.Intersect(img.Bounds())
	if visible.Empty() {
		return canvas, nil
	}

	part := imaging.Crop(img, visible)
	return imaging.Paste(canvas, part, visible.Min.Sub(window.Min)), nil
}
