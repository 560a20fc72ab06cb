package organize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/imaging"
)

// DefaultIntakeCount is the number of screenshots taken per map, one per zoom level.
const DefaultIntakeCount = 4

// mapPrefix names the per-map folders under the originals directory.
const mapPrefix = "mapa"

// ErrNoScreenshots is returned when the downloads folder holds no images.
var ErrNoScreenshots = errors.New("no screenshots found")

// Intake moves the newest screenshots from a downloads folder into a fresh
// map folder under Dest.
type Intake struct {
	Downloads string
	Dest      string

	// Count is how many of the newest images are taken. Zero means DefaultIntakeCount.
	Count int
}

// IntakeResult describes one intake run.
type IntakeResult struct {
	Folder string   // the created map folder
	Moved  []string // destination paths, in order
	Failed int      // files that could not be moved
}

type download struct {
	name    string
	modTime time.Time
}

// Run picks the Count most recently modified images in Downloads, creates the
// next mapaN folder under Dest (one past the highest existing N) and moves the
// picked files there as 1.jpg, 2.jpg, ... in file-name order.
//
// Fewer than Count images are moved if that is all there is. A file that
// cannot be moved is logged and counted; the remaining files are still moved.
func (in *Intake) Run() (IntakeResult, error) {
	var res IntakeResult

	count := in.Count
	if count <= 0 {
		count = DefaultIntakeCount
	}

	entries, err := os.ReadDir(in.Downloads)
	if err != nil {
		return res, fmt.Errorf("failed to read downloads: %w", err)
	}

	found := make([]download, 0)
	for _, e := range entries {
		if e.IsDir() || !imaging.IsSupported(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			logger().Warn().Err(err).Str("file", e.Name()).Msg("failed to stat download")
			continue
		}
		found = append(found, download{name: e.Name(), modTime: info.ModTime()})
	}
	if len(found) == 0 {
		return res, fmt.Errorf("%w in %s", ErrNoScreenshots, in.Downloads)
	}

	sort.SliceStable(found, func(a, b int) bool {
		if !found[a].modTime.Equal(found[b].modTime) {
			return found[a].modTime.After(found[b].modTime)
		}
		return found[a].name < found[b].name
	})
	if len(found) > count {
		found = found[:count]
	}
	sort.Slice(found, func(a, b int) bool { return found[a].name < found[b].name })

	folder, err := nextMapFolder(in.Dest)
	if err != nil {
		return res, err
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return res, fmt.Errorf("failed to create %s: %w", folder, err)
	}
	res.Folder = folder
	logger().Info().Str("folder", folder).Int("images", len(found)).Msg("created map folder")

	for i, f := range found {
		src := filepath.Join(in.Downloads, f.name)
		dst := filepath.Join(folder, strconv.Itoa(i+1)+".jpg")
		if err := moveFile(src, dst); err != nil {
			logger().Error().Err(err).Str("file", f.name).Msg("failed to move screenshot")
			res.Failed++
			continue
		}
		res.Moved = append(res.Moved, dst)
		logger().Debug().Str("file", f.name).Str("dest", dst).Msg("moved screenshot")
	}

	return res, nil
}

// nextMapFolder returns root/mapaN where N is one more than the highest
// numbered mapa folder in root, or mapa1 when there is none. A missing root
// counts as empty.
func nextMapFolder(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", root, err)
	}

	highest := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), mapPrefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(e.Name(), mapPrefix))
		if err != nil || n < 0 {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return filepath.Join(root, mapPrefix+strconv.Itoa(highest+1)), nil
}

// moveFile renames src to dst, falling back to copy and remove when the two
// paths are on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}
