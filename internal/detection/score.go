package detection

import (
	"image"
	"math"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/imaging"
)

// ringHalfWidth is half the width of the band sampled by RingBrightness.
const ringHalfWidth = 1.0

// RingBrightness returns the mean intensity of the pixels within one pixel of
// the candidate's circle (|distance - radius| <= 1), a band two pixels wide.
//
// The boundary marker is a bright ring on a darker map, so the mean ring
// brightness separates it from the dark circular shapes the transform also
// reports. The candidate must lie fully inside the grid (see InBounds); pixels
// outside the grid are skipped. Returns 0 if the band holds no pixels.
func RingBrightness(gray *image.Gray, c Candidate) float64 {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()

	reach := c.Radius + int(math.Ceil(ringHalfWidth))
	var sum float64
	var count int

	for y := c.Y - reach; y <= c.Y+reach; y++ {
		if y < 0 || y >= height {
			continue
		}
		for x := c.X - reach; x <= c.X+reach; x++ {
			if x < 0 || x >= width {
				continue
			}
			dx := float64(x - c.X)
			dy := float64(y - c.Y)
			if math.Abs(math.Sqrt(dx*dx+dy*dy)-float64(c.Radius)) > ringHalfWidth {
				continue
			}
			sum += float64(imaging.GrayAt(gray, x, y))
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// FilterInBounds returns the candidates whose circle lies fully inside a grid
// of the given size, preserving order.
func FilterInBounds(candidates []Candidate, width, height int) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if InBounds(c, width, height) {
			kept = append(kept, c)
		}
	}
	return kept
}

// SelectBrightest returns the candidate with the highest RingBrightness and
// its score. On equal scores the earlier candidate wins. ok is false when
// candidates is empty.
func SelectBrightest(gray *image.Gray, candidates []Candidate) (best Candidate, score float64, ok bool) {
	for i, c := range candidates {
		s := RingBrightness(gray, c)
		if i == 0 || s > score {
			best, score, ok = c, s, true
		}
	}
	return best, score, ok
}
