package detection

import "image"

// Candidate is one circle hypothesis produced by a transform call.
//
// Coordinates are relative to the grayscale grid's origin (0 = leftmost /
// topmost pixel).
type Candidate struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
}

// RadiusRange bounds the radii a transform searches, inclusive.
type RadiusRange struct {
	Min int `json:"min_radius"`
	Max int `json:"max_radius"`
}

// Sensitivity holds the tunable parameters of a transform call.
type Sensitivity struct {
	// BlurKernel is the odd side length of the Gaussian kernel the transform
	// smooths the grid with before finding edges. 1 or less disables smoothing.
	BlurKernel int

	// BlurSigma is the Gaussian standard deviation. Zero selects
	// imaging.DefaultBlurSigma.
	BlurSigma float64

	// EdgeThreshold is the upper Canny hysteresis threshold on the L1 Sobel
	// gradient magnitude. The lower threshold is half of it.
	EdgeThreshold float64

	// AccumulatorThreshold is the minimum number of votes a centre needs, and
	// the minimum number of edge pixels supporting its radius.
	AccumulatorThreshold float64

	// MinCenterDistance is the minimum distance between two returned centres.
	// Weaker centres closer than this to a stronger one are dropped.
	MinCenterDistance float64
}

// CircleTransform finds circles in a grayscale grid.
//
// Implementations return candidates in their own native order (the order
// candidates are reported in breaks ties during scoring). An empty result means
// nothing was found and is not an error. Implementations must be safe to call
// from multiple goroutines on different grids.
type CircleTransform interface {
	Circles(gray *image.Gray, radii RadiusRange, s Sensitivity) []Candidate
}

// Attempt is one parameterisation tried by the AttemptPolicy.
type Attempt struct {
	// BlurKernel is the odd side length of the Gaussian smoothing kernel.
	BlurKernel int
	BlurSigma  float64

	EdgeThreshold        float64
	AccumulatorThreshold float64
}

// InBounds reports whether the candidate's full circle lies inside a grid of
// the given size: x >= r, y >= r, x + r < width and y + r < height.
func InBounds(c Candidate, width, height int) bool {
	return c.X >= c.Radius && c.Y >= c.Radius &&
		c.X+c.Radius < width && c.Y+c.Radius < height
}
