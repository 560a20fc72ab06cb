// Package imaging provides the image plumbing used by the zone detector.
//
// It decodes map screenshots (JPEG, PNG and WebP), crops the capture window out
// of full-screen shots, converts to grayscale and smooths with a Gaussian
// kernel, and renders preview images with the detected circle drawn on top.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the
// image's bounds origin:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For rectangles, Min is inclusive and Max is exclusive
//
// # Thread Safety
//
// Every function is stateless and may be called concurrently. Inputs are never
// modified; each operation returns a new image.
package imaging
