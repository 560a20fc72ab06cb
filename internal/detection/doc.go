// Package detection locates the bright boundary ring in a map screenshot.
//
// Detection is split into three stages that can be exercised separately:
//
//   - Transform: a CircleTransform smooths a grayscale grid and turns it into
//     circle candidates. HoughTransform is the pure Go backend; builds with the
//     gocv tag add OpenCVTransform. DefaultTransform picks between them, and
//     any other detector can be plugged in behind the same interface.
//   - Filtering: candidates whose circle leaves the image are discarded before
//     anything else looks at them.
//   - Selection: surviving candidates are scored by RingBrightness and the
//     brightest one wins, earliest first on ties.
//
// AttemptPolicy composes the stages over an ordered list of Attempts and stops
// at the first attempt that leaves any candidate standing.
//
// # Coordinate System
//
// All coordinates are 0-based pixel positions relative to the image origin:
//   - X increases rightward
//   - Y increases downward
//
// # Determinism
//
// Every stage is a pure function of its inputs. Running the same image through
// the same policy twice yields the same candidate; there is no randomness in
// attempt order, candidate order or tie-breaking.
//
// # Performance Considerations
//
// The transform votes once per edge pixel per radius in range, so cost grows
// with both edge density and range width. Keep radius ranges as tight as the
// calibration allows.
package detection
