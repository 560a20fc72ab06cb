package detection

import (
	"image"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/imaging"
)

// logger returns the global logger tagged with module=detection.
func logger() *zerolog.Logger {
	l := log.With().Str("module", "detection").Logger()
	return &l
}

// AttemptPolicy runs a fixed, ordered list of transform attempts until one
// yields a usable candidate.
//
// Attempts are never merged: the first attempt with at least one in-bounds
// candidate decides the result, which biases detection toward the most
// conservative parameters that still find something. Within that attempt the
// brightest ring wins.
//
// An AttemptPolicy holds no mutable state and is safe for concurrent use.
type AttemptPolicy struct {
	transform         CircleTransform
	attempts          []Attempt
	minCenterDistance float64
}

// NewAttemptPolicy creates a policy that tries attempts in the given order.
// The slice is copied.
func NewAttemptPolicy(transform CircleTransform, attempts []Attempt, minCenterDistance float64) *AttemptPolicy {
	a := make([]Attempt, len(attempts))
	copy(a, attempts)
	return &AttemptPolicy{
		transform:         transform,
		attempts:          a,
		minCenterDistance: minCenterDistance,
	}
}

// Attempts returns a copy of the configured attempts.
func (p *AttemptPolicy) Attempts() []Attempt {
	a := make([]Attempt, len(p.attempts))
	copy(a, p.attempts)
	return a
}

// Detect finds the boundary circle in img within the given radius range.
//
// The image is converted to grayscale once. For each attempt the grayscale
// grid is handed to the transform, which blurs it with the attempt's kernel,
// and the results are filtered to circles fully inside the image. The first
// attempt with any survivor returns its brightest candidate (scored on the
// unblurred grid). ok is false when
// every attempt is exhausted.
func (p *AttemptPolicy) Detect(img image.Image, radii RadiusRange) (Candidate, bool) {
	gray := imaging.Grayscale(img)

	for i, a := range p.attempts {
		candidates := p.Attempt(gray, radii, a)
		best, score, ok := SelectBrightest(gray, candidates)
		if !ok {
			logger().Debug().
				Int("attempt", i+1).
				Int("blur", a.BlurKernel).
				Float64("edge_threshold", a.EdgeThreshold).
				Float64("accumulator_threshold", a.AccumulatorThreshold).
				Msg("no candidate in bounds")
			continue
		}

		logger().Debug().
			Int("attempt", i+1).
			Int("candidates", len(candidates)).
			Int("x", best.X).
			Int("y", best.Y).
			Int("radius", best.Radius).
			Float64("brightness", score).
			Msg("circle accepted")
		return best, true
	}

	return Candidate{}, false
}

// Attempt runs a single parameterisation: transform, then bounds filter.
// It returns the in-bounds candidates in the transform's order.
func (p *AttemptPolicy) Attempt(gray *image.Gray, radii RadiusRange, a Attempt) []Candidate {
	raw := p.transform.Circles(gray, radii, Sensitivity{
		BlurKernel:           a.BlurKernel,
		BlurSigma:            a.BlurSigma,
		EdgeThreshold:        a.EdgeThreshold,
		AccumulatorThreshold: a.AccumulatorThreshold,
		MinCenterDistance:    p.minCenterDistance,
	})

	b := gray.Bounds()
	return FilterInBounds(raw, b.Dx(), b.Dy())
}
