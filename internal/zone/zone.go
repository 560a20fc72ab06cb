// Package zone turns a zoom-level screenshot into the centre of the safe-zone
// circle, reported with the calibrated radius for that zoom level.
package zone

import (
	"errors"
	"fmt"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/config"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/detection"
)

// ErrUnknownZoom is returned for a zoom level outside 1..4.
var ErrUnknownZoom = errors.New("unknown zoom level")

// ZoomLevel identifies one of the four fixed map magnifications.
// Level 1 is the widest view with the largest circle.
type ZoomLevel int

// Levels returns every zoom level in processing order.
func Levels() []ZoomLevel {
	levels := make([]ZoomLevel, 0, config.MaxZoom-config.MinZoom+1)
	for z := config.MinZoom; z <= config.MaxZoom; z++ {
		levels = append(levels, ZoomLevel(z))
	}
	return levels
}

// Valid reports whether z is one of the known zoom levels.
func (z ZoomLevel) Valid() bool {
	return int(z) >= config.MinZoom && int(z) <= config.MaxZoom
}

// Label is the key the zone is stored under in a map result, e.g. "zone_2".
func (z ZoomLevel) Label() string {
	return fmt.Sprintf("zone_%d", int(z))
}

// Result is the located circle of one zone.
//
// Radius is always the calibrated fixed radius of the zoom level, never the
// radius the transform measured.
type Result struct {
	CenterX int `json:"centro_x"`
	CenterY int `json:"centro_y"`
	Radius  int `json:"radio"`
}

// Failure reports that no circle was found for a zoom level.
type Failure struct {
	Level ZoomLevel

	// Err is the underlying cause when the failure was not a plain miss,
	// e.g. a missing or unreadable image. Nil for a miss.
	Err error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Level.Label(), f.Err)
	}
	return fmt.Sprintf("%s: no circle detected", f.Level.Label())
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// RadiusPolicy maps zoom levels to their search range and fixed radius.
type RadiusPolicy struct {
	fixed  map[ZoomLevel]int
	search map[ZoomLevel]detection.RadiusRange
}

// NewRadiusPolicy builds a policy from a calibration. The calibration is
// validated first; an incomplete table is an error.
func NewRadiusPolicy(cal *config.Calibration) (*RadiusPolicy, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}

	p := &RadiusPolicy{
		fixed:  make(map[ZoomLevel]int),
		search: make(map[ZoomLevel]detection.RadiusRange),
	}
	for _, z := range Levels() {
		entry := cal.Zones[int(z)]
		p.fixed[z] = entry.FixedRadius
		p.search[z] = detection.RadiusRange{Min: entry.Search.Min, Max: entry.Search.Max}
	}
	return p, nil
}

// FixedRadius returns the radius reported for every circle found at level z.
func (p *RadiusPolicy) FixedRadius(z ZoomLevel) (int, error) {
	r, ok := p.fixed[z]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownZoom, int(z))
	}
	return r, nil
}

// SearchRange returns the radius range the transform searches at level z.
func (p *RadiusPolicy) SearchRange(z ZoomLevel) (detection.RadiusRange, error) {
	r, ok := p.search[z]
	if !ok {
		return detection.RadiusRange{}, fmt.Errorf("%w: %d", ErrUnknownZoom, int(z))
	}
	return r, nil
}
