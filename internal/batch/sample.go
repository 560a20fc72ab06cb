package batch

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/imaging"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/zone"
)

// MapPrefix is the directory name prefix that marks a map sample.
const MapPrefix = "mapa"

var (
	// ErrImageMissing is returned when a sample has no image for a zoom level.
	ErrImageMissing = errors.New("image not found")

	// ErrNoMaps is returned by Discover when no map sample exists.
	ErrNoMaps = errors.New("no map folders found")
)

// MapSample supplies the four zoom-level screenshots of one map.
type MapSample interface {
	// ID names the sample in reports.
	ID() string

	// Image returns the screenshot for a zoom level. It returns an error
	// wrapping ErrImageMissing when the sample has none.
	Image(level zone.ZoomLevel) (image.Image, error)
}

// DirSample is a map sample backed by a directory holding files named after
// the zoom level: 1.jpg, 2.png, 3.webp, …
type DirSample struct {
	dir string
}

// NewDirSample creates a sample reading from dir. The sample id is the
// directory's base name.
func NewDirSample(dir string) *DirSample {
	return &DirSample{dir: dir}
}

// ID implements MapSample.
func (s *DirSample) ID() string {
	return filepath.Base(s.dir)
}

// Dir returns the sample's directory.
func (s *DirSample) Dir() string {
	return s.dir
}

// Image implements MapSample.
func (s *DirSample) Image(level zone.ZoomLevel) (image.Image, error) {
	base := strconv.Itoa(int(level))
	path, ok := imaging.Find(s.dir, base)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s.*", ErrImageMissing, s.ID(), base)
	}
	return imaging.Load(path)
}

// Discover lists the map samples under root, sorted by name.
//
// When only is non-empty, just that folder is returned; it must exist under
// root. Otherwise every directory whose name starts with MapPrefix is a
// sample. Returns an error wrapping ErrNoMaps when nothing matches.
func Discover(root, only string) ([]*DirSample, error) {
	if only != "" {
		dir := filepath.Join(root, only)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: folder %q not found in %s", ErrNoMaps, only, root)
		}
		return []*DirSample{NewDirSample(dir)}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	names := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), MapPrefix) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMaps, root)
	}
	sort.Strings(names)

	samples := make([]*DirSample, 0, len(names))
	for _, name := range names {
		samples = append(samples, NewDirSample(filepath.Join(root, name)))
	}
	return samples, nil
}
