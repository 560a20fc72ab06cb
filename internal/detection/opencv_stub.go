//go:build !gocv
// +build !gocv

package detection

// DefaultTransform returns the CircleTransform used when none is configured.
// Without the gocv build tag this is the pure Go HoughTransform.
func DefaultTransform() CircleTransform {
	return HoughTransform{}
}
