// Package organize prepares raw screenshots for detection: Intake files the
// newest downloads into a new map folder, and Organizer cuts the map window
// out of each capture while mirroring the folder layout.
package organize

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/imaging"
)

// DefaultWindow is the map area of a full-screen capture. It starts five
// pixels above the capture; that strip comes out black.
var DefaultWindow = image.Rect(1309, -5, 2533, 1220)

func logger() *zerolog.Logger {
	l := log.With().Str("module", "organize").Logger()
	return &l
}

// Stats counts what a Run did.
type Stats struct {
	Folders int // folders created and processed
	Skipped int // folders skipped because the destination already existed
	Images  int // images cropped and saved
	Failed  int // images that could not be read or written
}

// Organizer crops every screenshot under Source into the same layout under Dest.
type Organizer struct {
	Source string
	Dest   string

	// Window is the crop rectangle in source coordinates. Zero means DefaultWindow.
	Window image.Rectangle
}

// Run processes the source folders in name order.
//
// A destination folder that already exists is skipped entirely, so a run can
// be repeated after new captures are added. A single image that fails to load
// or save is logged and counted but does not stop the run. Run only returns an
// error when the source or destination roots are unusable.
func (o *Organizer) Run() (Stats, error) {
	var stats Stats

	window := o.Window
	if window.Empty() {
		window = DefaultWindow
	}

	if err := os.MkdirAll(o.Dest, 0o755); err != nil {
		return stats, fmt.Errorf("failed to create destination: %w", err)
	}

	entries, err := os.ReadDir(o.Source)
	if err != nil {
		return stats, fmt.Errorf("failed to read source: %w", err)
	}

	folders := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
		}
	}
	sort.Strings(folders)

	for _, folder := range folders {
		dst := filepath.Join(o.Dest, folder)
		if _, err := os.Stat(dst); err == nil {
			logger().Info().Str("folder", folder).Msg("skipping existing folder")
			stats.Skipped++
			continue
		}
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return stats, fmt.Errorf("failed to create %s: %w", dst, err)
		}
		stats.Folders++
		logger().Info().Str("folder", folder).Msg("created folder")

		images, err := listImages(filepath.Join(o.Source, folder))
		if err != nil {
			logger().Error().Err(err).Str("folder", folder).Msg("failed to list images")
			continue
		}

		for _, name := range images {
			if err := cropOne(filepath.Join(o.Source, folder, name), filepath.Join(dst, name), window); err != nil {
				logger().Error().Err(err).Str("folder", folder).Str("image", name).Msg("failed to crop image")
				stats.Failed++
				continue
			}
			stats.Images++
			logger().Debug().Str("folder", folder).Str("image", name).Msg("saved cropped image")
		}
	}

	return stats, nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0)
	for _, e := range entries {
		if !e.IsDir() && imaging.IsSupported(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func cropOne(src, dst string, window image.Rectangle) error {
	img, err := imaging.Load(src)
	if err != nil {
		return err
	}
	cropped, err := imaging.CropWindow(img, window)
	if err != nil {
		return err
	}
	return imaging.Save(cropped, dst)
}
