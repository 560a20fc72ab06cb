package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bytedance/sonic"
)

// DefaultPath is where a run's report is written unless overridden.
var DefaultPath = filepath.Join("datos", "resultados", "circulos_detectados.json")

// Document is the persisted form of a Report.
type Document struct {
	RunID     string               `json:"run_id"`
	CreatedAt time.Time            `json:"created_at"`
	Maps      map[string]MapResult `json:"maps"`
	Failed    []Failure            `json:"failed"`
	Stats     Stats                `json:"stats"`
}

// Document snapshots the report.
func (r *Report) Document() *Document {
	return &Document{
		RunID:     r.runID,
		CreatedAt: r.startedAt,
		Maps:      r.Maps(),
		Failed:    r.Failures(),
		Stats:     r.Stats(),
	}
}

// Save writes the report as indented JSON to path, creating parent
// directories. Map keys are written in sorted order. A report with no results
// is still written so the failure list is kept.
func (r *Report) Save(path string) error {
	data, err := sonic.ConfigStd.MarshalIndent(r.Document(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Load reads a report written by Save.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var doc Document
	if err := sonic.ConfigStd.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	if doc.Maps == nil {
		return nil, errors.New("report has no maps section")
	}
	return &doc, nil
}

// WriteListing prints the results as a literal block that can be pasted into
// analysis scripts, one map per entry, maps and zones in sorted order.
func (r *Report) WriteListing(w io.Writer) error {
	maps := r.Maps()

	ids := make([]string, 0, len(maps))
	for id := range maps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "circulos = {")
	for _, id := range ids {
		fmt.Fprintf(bw, "    '%s': {\n", id)

		zones := make([]string, 0, len(maps[id]))
		for label := range maps[id] {
			zones = append(zones, label)
		}
		sort.Strings(zones)

		for _, label := range zones {
			z := maps[id][label]
			fmt.Fprintf(bw, "        '%s': {'centro_x': %d, 'centro_y': %d, 'radio': %d},\n",
				label, z.CenterX, z.CenterY, z.Radius)
		}
		fmt.Fprintln(bw, "    },")
	}
	fmt.Fprintln(bw, "}")

	// bufio.Writer keeps the first write error and returns it from Flush
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	return nil
}
