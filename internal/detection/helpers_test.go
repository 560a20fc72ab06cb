package detection

import (
	"image"
	"image/color"
	"math"
)

// createTestImage creates a solid gray test image
func createTestImage(width, height int, level uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = level
	}
	return img
}

// drawRing paints a ring of the given intensity: every pixel whose distance
// from (cx, cy) is within halfWidth of radius.
func drawRing(img *image.Gray, cx, cy, radius int, halfWidth float64, level uint8) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := float64(x - cx)
			dy := float64(y - cy)
			if math.Abs(math.Sqrt(dx*dx+dy*dy)-float64(radius)) <= halfWidth {
				img.SetGray(x, y, color.Gray{Y: level})
			}
		}
	}
}

// createRingImage creates a dark image with one bright ring, the shape of a
// zone boundary on the map.
func createRingImage(width, height, cx, cy, radius int) *image.Gray {
	img := createTestImage(width, height, 25)
	drawRing(img, cx, cy, radius, 2, 255)
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// near reports whether c matches the expected centre within tol pixels.
func near(c Candidate, x, y, tol int) bool {
	return abs(c.X-x) <= tol && abs(c.Y-y) <= tol
}
