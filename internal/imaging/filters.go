package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
)

// DefaultBlurSigma is the Gaussian standard deviation used when none is given.
const DefaultBlurSigma = 2.0

const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Grayscale converts an image to an 8-bit luminance grid with its origin at (0,0).
//
// Luminance uses the ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B), the
// same conversion OpenCV applies. bild returns the result as gray RGBA; the R
// channel is copied into the grid.
func Grayscale(img image.Image) *image.Gray {
	return toGray(effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB))
}

// GaussianBlur smooths a grayscale grid with a kernel x kernel Gaussian of
// standard deviation sigma, applied separably.
//
// Unlike bild's blur.Gaussian, whose spread is tied to its radius, the kernel
// size and sigma are independent here; a sigma <= 0 selects DefaultBlurSigma.
// Kernels of size 1 or less return an unblurred copy. Borders are extended by
// clamping.
func GaussianBlur(gray *image.Gray, kernel int, sigma float64) *image.Gray {
	if kernel <= 1 {
		return toGray(clone.AsRGBA(gray))
	}
	if sigma <= 0 {
		sigma = DefaultBlurSigma
	}

	k := convolution.NewKernel(kernel, 1)
	half := float64(kernel-1) / 2
	for i := 0; i < kernel; i++ {
		x := float64(i) - half
		k.Matrix[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
	}
	norm := k.Normalized()

	opts := &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}
	out := convolution.Convolve(gray, norm, opts)
	out = convolution.Convolve(out, norm.Transposed(), opts)
	return toGray(out)
}

// toGray copies the R channel of a gray RGBA image into an *image.Gray with
// its origin at (0,0).
func toGray(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[y*dst.Stride+x] = src.Pix[row+x*4]
		}
	}
	return dst
}

// GrayAt returns the intensity at (x, y) relative to the grid's origin.
// Coordinates outside the grid read as 0.
func GrayAt(gray *image.Gray, x, y int) uint8 {
	b := gray.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return 0
	}
	return gray.Pix[gray.PixOffset(x+b.Min.X, y+b.Min.Y)]
}
