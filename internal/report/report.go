// Package report accumulates per-map zone results for one detection run and
// persists them as JSON.
package report

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/zone"
)

// MapResult maps zone labels ("zone_1" … "zone_4") to located circles.
// Zones that failed are absent.
type MapResult map[string]zone.Result

// Failure identifies a zone that produced no result.
type Failure struct {
	Map  string `json:"map"`
	Zone int    `json:"zone"`
}

func (f Failure) String() string {
	return fmt.Sprintf("%s/%s", f.Map, zone.ZoomLevel(f.Zone).Label())
}

// Report is the accumulator of one run. It is safe for concurrent use; each
// Add replaces a map's entry as a whole.
type Report struct {
	mu        sync.RWMutex
	runID     string
	startedAt time.Time
	maps      map[string]MapResult
	failures  map[string][]Failure
	processed int
}

// New creates an empty report with a fresh run id.
func New() *Report {
	return &Report{
		runID:     uuid.New().String(),
		startedAt: time.Now().UTC(),
		maps:      make(map[string]MapResult),
		failures:  make(map[string][]Failure),
	}
}

// RunID returns the identifier of this run.
func (r *Report) RunID() string {
	return r.runID
}

// Add records the outcome of one map.
//
// A map with no successful zone is not stored in the results, but its
// failures are. Adding the same map twice replaces the earlier outcome.
func (r *Report) Add(mapID string, result MapResult, failures []Failure) {
	res := make(MapResult, len(result))
	for k, v := range result {
		res[k] = v
	}
	fails := make([]Failure, len(failures))
	copy(fails, failures)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.failures[mapID]; !seen {
		r.processed++
	}
	if len(res) > 0 {
		r.maps[mapID] = res
	} else {
		delete(r.maps, mapID)
	}
	r.failures[mapID] = fails
}

// Maps returns a copy of the stored results keyed by map id.
func (r *Report) Maps() map[string]MapResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]MapResult, len(r.maps))
	for id, m := range r.maps {
		cp := make(MapResult, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out[id] = cp
	}
	return out
}

// Failures returns every failed zone sorted by map id, then zone.
func (r *Report) Failures() []Failure {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Failure, 0)
	for _, fs := range r.failures {
		out = append(out, fs...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Map != out[j].Map {
			return out[i].Map < out[j].Map
		}
		return out[i].Zone < out[j].Zone
	})
	return out
}

// Stats summarises a report.
type Stats struct {
	MapsProcessed int `json:"maps_processed"`
	MapsWithZones int `json:"maps_with_zones"`
	ZonesDetected int `json:"zones_detected"`
	ZonesFailed   int `json:"zones_failed"`
}

// Stats counts processed maps, detected zones and failures.
func (r *Report) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{
		MapsProcessed: r.processed,
		MapsWithZones: len(r.maps),
	}
	for _, m := range r.maps {
		s.ZonesDetected += len(m)
	}
	for _, fs := range r.failures {
		s.ZonesFailed += len(fs)
	}
	return s
}
