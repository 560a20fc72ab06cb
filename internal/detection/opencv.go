//go:build gocv
// +build gocv

package detection

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/imaging"
)

// OpenCVTransform is a CircleTransform backed by OpenCV's HOUGH_GRADIENT
// through gocv. It is compiled only with the gocv build tag.
//
// Sensitivity maps onto HoughCirclesWithParams directly: EdgeThreshold is
// param1, AccumulatorThreshold is param2 and MinCenterDistance is minDist,
// with an accumulator resolution of 1.
type OpenCVTransform struct{}

// DefaultTransform returns the CircleTransform used when none is configured.
func DefaultTransform() CircleTransform {
	return OpenCVTransform{}
}

// Circles implements CircleTransform.
func (OpenCVTransform) Circles(gray *image.Gray, radii RadiusRange, s Sensitivity) []Candidate {
	if radii.Min < 1 || radii.Max < radii.Min {
		return nil
	}

	src := grayToMat(gray)
	defer src.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()

	if s.BlurKernel > 1 {
		sigma := s.BlurSigma
		if sigma <= 0 {
			sigma = imaging.DefaultBlurSigma
		}
		gocv.GaussianBlur(src, &blurred, image.Point{X: s.BlurKernel, Y: s.BlurKernel}, sigma, sigma, gocv.BorderDefault)
	} else {
		src.CopyTo(&blurred)
	}

	circles := gocv.NewMat()
	defer circles.Close()

	gocv.HoughCirclesWithParams(blurred, &circles, gocv.HoughGradient,
		1, s.MinCenterDistance,
		s.EdgeThreshold, s.AccumulatorThreshold,
		radii.Min, radii.Max)

	if circles.Empty() || circles.Cols() == 0 {
		return nil
	}

	out := make([]Candidate, 0, circles.Cols())
	for i := 0; i < circles.Cols(); i++ {
		v := circles.GetVecfAt(0, i)
		out = append(out, Candidate{
			X:      int(math.Round(float64(v[0]))),
			Y:      int(math.Round(float64(v[1]))),
			Radius: int(math.Round(float64(v[2]))),
		})
	}
	return out
}

// grayToMat copies a grayscale grid into a single-channel 8-bit Mat.
func grayToMat(gray *image.Gray) gocv.Mat {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mat.SetUCharAt(y, x, imaging.GrayAt(gray, x, y))
		}
	}
	return mat
}
