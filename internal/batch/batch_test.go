package batch

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/zone"
)

// fakeSample serves in-memory images; levels without an image are missing.
type fakeSample struct {
	id     string
	images map[zone.ZoomLevel]image.Image
	errs   map[zone.ZoomLevel]error
}

func (s *fakeSample) ID() string { return s.id }

func (s *fakeSample) Image(level zone.ZoomLevel) (image.Image, error) {
	if err, ok := s.errs[level]; ok {
		return nil, err
	}
	img, ok := s.images[level]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%d", ErrImageMissing, s.id, level)
	}
	return img, nil
}

// fakeDetector reports the image width as the centre, or a miss for images
// narrower than 10 pixels.
type fakeDetector struct {
	mu    sync.Mutex
	calls int
}

func (d *fakeDetector) DetectZone(img image.Image, level zone.ZoomLevel) (zone.Result, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()

	w := img.Bounds().Dx()
	if w < 10 {
		return zone.Result{}, &zone.Failure{Level: level}
	}
	return zone.Result{CenterX: w, CenterY: int(level), Radius: 100 * int(level)}, nil
}

func (d *fakeDetector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func blankImage(width int) image.Image {
	return image.NewGray(image.Rect(0, 0, width, width))
}

// createRingImage creates a dark screenshot with one bright ring.
func createRingImage(width, height, cx, cy, radius int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{20, 30, 25, 255}
			dx := float64(x - cx)
			dy := float64(y - cy)
			if math.Abs(math.Sqrt(dx*dx+dy*dy)-float64(radius)) <= 2 {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

var errCorrupt = errors.New("corrupt file")
