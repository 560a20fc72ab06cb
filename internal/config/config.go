// Package config holds the calibration tables used by zone detection.
//
// A Calibration carries, for each of the four zoom levels, the radius range
// searched by the circle transform and the fixed radius reported in results,
// plus the ordered list of detection attempts. Default returns the values
// measured on real map screenshots; Load overlays a YAML file on top of them.
//
// Every table must pass Validate before it is handed to a detector. A missing
// zoom level or an inconsistent range affects every detection identically, so
// callers treat a validation error as fatal at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Zoom levels covered by a calibration. Level 1 is the widest view and shows
// the largest circle; level 4 the smallest.
const (
	MinZoom = 1
	MaxZoom = 4
)

// minAttempts is the smallest number of active attempts a calibration may run.
const minAttempts = 3

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid calibration")

// Range bounds the radius searched by the circle transform, inclusive.
type Range struct {
	Min int `yaml:"min_radius"`
	Max int `yaml:"max_radius"`
}

// Contains reports whether r lies within the range.
func (r Range) Contains(radius int) bool {
	return radius >= r.Min && radius <= r.Max
}

// Zone is the calibration of one zoom level.
type Zone struct {
	// Search is the radius range handed to the transform.
	Search Range `yaml:"search"`

	// FixedRadius replaces whatever radius the transform detected.
	FixedRadius int `yaml:"fixed_radius"`
}

// Attempt is one parameterisation of the circle transform.
type Attempt struct {
	// BlurKernel is the odd side length of the Gaussian smoothing kernel.
	BlurKernel int `yaml:"blur_kernel"`

	// BlurSigma is the Gaussian standard deviation. Zero means 2.
	BlurSigma float64 `yaml:"blur_sigma,omitempty"`

	// EdgeThreshold is the upper Canny threshold; the lower one is half of it.
	EdgeThreshold float64 `yaml:"edge_threshold"`

	// AccumulatorThreshold is the minimum number of votes a centre needs.
	AccumulatorThreshold float64 `yaml:"accumulator_threshold"`
}

// Calibration is the complete detection configuration.
type Calibration struct {
	Zones map[int]Zone `yaml:"zones"`

	// Attempts are tried in order, most conservative first.
	Attempts []Attempt `yaml:"attempts"`

	// MaxAttempts limits how many entries of Attempts are used. Zero means all.
	MaxAttempts int `yaml:"max_attempts"`

	// MinCenterDistance is the minimum distance between two detected centres.
	MinCenterDistance float64 `yaml:"min_center_distance"`
}

// Default returns the calibration measured on the game's map screenshots.
func Default() *Calibration {
	return &Calibration{
		Zones: map[int]Zone{
			1: {Search: Range{Min: 350, Max: 400}, FixedRadius: 376},
			2: {Search: Range{Min: 180, Max: 230}, FixedRadius: 206},
			3: {Search: Range{Min: 80, Max: 120}, FixedRadius: 103},
			4: {Search: Range{Min: 40, Max: 70}, FixedRadius: 53},
		},
		Attempts: []Attempt{
			{BlurKernel: 9, EdgeThreshold: 50, AccumulatorThreshold: 30},
			{BlurKernel: 5, EdgeThreshold: 40, AccumulatorThreshold: 25},
			{BlurKernel: 11, EdgeThreshold: 60, AccumulatorThreshold: 35},
			{BlurKernel: 7, EdgeThreshold: 45, AccumulatorThreshold: 20},
		},
		MaxAttempts:       3,
		MinCenterDistance: 50,
	}
}

// ActiveAttempts returns the attempts that will actually run, in order.
func (c *Calibration) ActiveAttempts() []Attempt {
	n := len(c.Attempts)
	if c.MaxAttempts > 0 && c.MaxAttempts < n {
		n = c.MaxAttempts
	}
	out := make([]Attempt, n)
	copy(out, c.Attempts[:n])
	return out
}

// Validate checks the calibration invariants:
//   - every zoom level from MinZoom to MaxZoom has an entry, and no other level does
//   - each search range is positive and non-empty
//   - each fixed radius lies within its search range
//   - ranges are disjoint and shrink as the zoom level grows
//   - at least three attempts are active, each with an odd kernel and positive thresholds
func (c *Calibration) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil calibration", ErrInvalid)
	}

	levels := make([]int, 0, len(c.Zones))
	for level := range c.Zones {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	for _, level := range levels {
		if level < MinZoom || level > MaxZoom {
			return fmt.Errorf("%w: unknown zoom level %d", ErrInvalid, level)
		}
	}

	for level := MinZoom; level <= MaxZoom; level++ {
		z, ok := c.Zones[level]
		if !ok {
			return fmt.Errorf("%w: zoom level %d has no entry", ErrInvalid, level)
		}
		if z.Search.Min <= 0 || z.Search.Min > z.Search.Max {
			return fmt.Errorf("%w: zoom level %d: bad search range %d-%d",
				ErrInvalid, level, z.Search.Min, z.Search.Max)
		}
		if !z.Search.Contains(z.FixedRadius) {
			return fmt.Errorf("%w: zoom level %d: fixed radius %d outside search range %d-%d",
				ErrInvalid, level, z.FixedRadius, z.Search.Min, z.Search.Max)
		}
		if level > MinZoom {
			prev := c.Zones[level-1]
			if prev.Search.Min <= z.Search.Max {
				return fmt.Errorf("%w: search ranges of zoom levels %d and %d overlap or are out of order",
					ErrInvalid, level-1, level)
			}
		}
	}

	active := c.ActiveAttempts()
	if len(active) < minAttempts {
		return fmt.Errorf("%w: %d active attempts, need at least %d", ErrInvalid, len(active), minAttempts)
	}
	for i, a := range active {
		if a.BlurKernel < 1 || a.BlurKernel%2 == 0 {
			return fmt.Errorf("%w: attempt %d: blur kernel must be odd and positive, got %d",
				ErrInvalid, i+1, a.BlurKernel)
		}
		if a.BlurSigma < 0 {
			return fmt.Errorf("%w: attempt %d: blur sigma must not be negative", ErrInvalid, i+1)
		}
		if a.EdgeThreshold <= 0 || a.AccumulatorThreshold <= 0 {
			return fmt.Errorf("%w: attempt %d: thresholds must be positive", ErrInvalid, i+1)
		}
	}

	if c.MinCenterDistance <= 0 {
		return fmt.Errorf("%w: min center distance must be positive", ErrInvalid)
	}
	return nil
}

// Load reads a YAML calibration file on top of Default and validates it.
//
// Zone entries present in the file replace the default entry for that level;
// an attempts list in the file replaces the default list entirely.
func Load(path string) (*Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration: %w", err)
	}

	cal := Default()
	if err := yaml.Unmarshal(data, cal); err != nil {
		return nil, fmt.Errorf("failed to parse calibration %s: %w", path, err)
	}

	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return cal, nil
}

// Save writes the calibration as YAML, creating parent directories.
func (c *Calibration) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode calibration: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create calibration directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
