// Package batch runs zone detection over map samples and collects the
// outcome into a report.
package batch

import (
	"errors"
	"image"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/report"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/zone"
)

func logger() *zerolog.Logger {
	l := log.With().Str("module", "batch").Logger()
	return &l
}

// ZoneDetector finds the zone circle in one zoom-level image.
// *zone.Detector implements it.
type ZoneDetector interface {
	DetectZone(img image.Image, level zone.ZoomLevel) (zone.Result, error)
}

// DetectHook is called after every successful zone detection with the source
// image and the result. It is used for previews.
type DetectHook func(mapID string, level zone.ZoomLevel, img image.Image, result zone.Result)

// Processor runs a ZoneDetector over every zoom level of a map sample.
type Processor struct {
	detector ZoneDetector
	onDetect DetectHook
}

// NewProcessor creates a processor. hook may be nil.
func NewProcessor(detector ZoneDetector, hook DetectHook) *Processor {
	return &Processor{detector: detector, onDetect: hook}
}

// ProcessMap detects every zoom level of a sample in order 1..4.
//
// A missing or unreadable image, and a zone where no circle is found, are
// recorded as failures and processing moves on to the next level. A map where
// every zone fails yields an empty result, never an error.
func (p *Processor) ProcessMap(sample MapSample) (report.MapResult, []report.Failure) {
	id := sample.ID()
	result := make(report.MapResult)
	failures := make([]report.Failure, 0)

	logger().Info().Str("map", id).Msg("processing map")

	for _, level := range zone.Levels() {
		fail := report.Failure{Map: id, Zone: int(level)}

		img, err := sample.Image(level)
		if err != nil {
			if errors.Is(err, ErrImageMissing) {
				logger().Warn().Str("map", id).Int("zone", int(level)).Msg("image not found")
			} else {
				logger().Error().Err(err).Str("map", id).Int("zone", int(level)).Msg("failed to read image")
			}
			failures = append(failures, fail)
			continue
		}

		res, err := p.detector.DetectZone(img, level)
		if err != nil {
			logger().Warn().Err(err).Str("map", id).Int("zone", int(level)).Msg("no circle detected")
			failures = append(failures, fail)
			continue
		}

		result[level.Label()] = res
		logger().Info().
			Str("map", id).
			Int("zone", int(level)).
			Int("x", res.CenterX).
			Int("y", res.CenterY).
			Int("radius", res.Radius).
			Msg("zone detected")

		if p.onDetect != nil {
			p.onDetect(id, level, img, res)
		}
	}

	return result, failures
}
