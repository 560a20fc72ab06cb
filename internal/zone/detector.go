package zone

import (
	"image"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/config"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/detection"
)

func logger() *zerolog.Logger {
	l := log.With().Str("module", "zone").Logger()
	return &l
}

// Detector locates the zone circle in one zoom-level image.
//
// A Detector holds only immutable configuration and is safe for concurrent use.
type Detector struct {
	radii  *RadiusPolicy
	policy *detection.AttemptPolicy
}

// NewDetector builds a detector from a calibration and a circle transform.
// A nil transform selects detection.DefaultTransform.
func NewDetector(cal *config.Calibration, transform detection.CircleTransform) (*Detector, error) {
	radii, err := NewRadiusPolicy(cal)
	if err != nil {
		return nil, err
	}
	if transform == nil {
		transform = detection.DefaultTransform()
	}

	active := cal.ActiveAttempts()
	attempts := make([]detection.Attempt, 0, len(active))
	for _, a := range active {
		attempts = append(attempts, detection.Attempt{
			BlurKernel:           a.BlurKernel,
			BlurSigma:            a.BlurSigma,
			EdgeThreshold:        a.EdgeThreshold,
			AccumulatorThreshold: a.AccumulatorThreshold,
		})
	}

	return &Detector{
		radii:  radii,
		policy: detection.NewAttemptPolicy(transform, attempts, cal.MinCenterDistance),
	}, nil
}

// Radii exposes the detector's radius policy.
func (d *Detector) Radii() *RadiusPolicy {
	return d.radii
}

// DetectZone finds the circle centre in img for zoom level z.
//
// On success the result carries the detected centre and the level's fixed
// radius; the detected radius is discarded. When every attempt misses, the
// error is a *Failure for z. An unknown level returns an error wrapping
// ErrUnknownZoom inside a *Failure.
func (d *Detector) DetectZone(img image.Image, z ZoomLevel) (Result, error) {
	search, err := d.radii.SearchRange(z)
	if err != nil {
		return Result{}, &Failure{Level: z, Err: err}
	}
	fixed, err := d.radii.FixedRadius(z)
	if err != nil {
		return Result{}, &Failure{Level: z, Err: err}
	}

	c, ok := d.policy.Detect(img, search)
	if !ok {
		return Result{}, &Failure{Level: z}
	}

	logger().Debug().
		Int("zoom", int(z)).
		Int("detected_radius", c.Radius).
		Int("fixed_radius", fixed).
		Msg("replacing detected radius")

	return Result{CenterX: c.X, CenterY: c.Y, Radius: fixed}, nil
}
