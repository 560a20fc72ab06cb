package detection

import (
	"image"
	"math"
	"sort"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/imaging"
)

// radiusWindow is the half-width, in pixels, of the distance window used to
// pick a radius. A thin blurred ring has one edge on each side of its centre
// line; the window is wide enough to cover both.
const radiusWindow = 3

const (
	// peakSpan is the half-width of the accumulator neighbourhood averaged
	// around a peak.
	peakSpan = 2

	// fitWindow is the half-width of the band of edge pixels, around the
	// estimated radius, used to fit the circle.
	fitWindow = 8

	fitIterations = 3

	// maxRefineShift bounds how far a fitted centre may move from its
	// accumulator peak before the fit is discarded.
	maxRefineShift = 8.0
)

// HoughTransform is the built-in CircleTransform: a gradient Hough transform
// written in pure Go.
//
// The zero value is ready to use.
//
// # Algorithm
//
//  1. Smoothing: a BlurKernel x BlurKernel Gaussian of standard deviation
//     BlurSigma
//  2. Edges: Sobel gradients, non-maximum suppression and hysteresis with
//     thresholds EdgeThreshold/2 and EdgeThreshold
//  3. Voting: every edge pixel votes for the cells at each radius in range
//     along its gradient direction, on both sides of the edge
//  4. Centres: accumulator cells with more than AccumulatorThreshold votes that
//     are local maxima in their 4-neighbourhood, strongest first
//  5. Refinement: the vote-weighted centroid of the 5x5 cells around a peak
//     seeds a least-squares circle fit over the edge pixels near the ring
//  6. Separation: a centre closer than MinCenterDistance to an accepted circle
//     is dropped
//  7. Radius: distances from the centre to nearby edge pixels are histogrammed;
//     the densest window of 2*radiusWindow+1 pixels gives the radius as its
//     weighted mean. Centres with fewer supporting edge pixels than
//     AccumulatorThreshold are dropped
//
// Candidates come back in decreasing vote order; equal votes keep raster order
// so results are deterministic.
type HoughTransform struct{}

// Circles implements CircleTransform.
func (HoughTransform) Circles(gray *image.Gray, radii RadiusRange, s Sensitivity) []Candidate {
	if radii.Min < 1 || radii.Max < radii.Min {
		return nil
	}

	if s.BlurKernel > 1 {
		gray = imaging.GaussianBlur(gray, s.BlurKernel, s.BlurSigma)
	}

	grad := sobel(gray)
	edges := canny(grad, s.EdgeThreshold/2, s.EdgeThreshold)

	points := edgePoints(edges, grad.width)
	if len(points) == 0 {
		return nil
	}

	acc := vote(grad, points, radii)
	centers := findCenters(acc, grad.width, grad.height, s.AccumulatorThreshold)

	out := make([]Candidate, 0)
	for _, c := range centers {
		if tooClose(c.x, c.y, out, s.MinCenterDistance) {
			continue
		}
		cx, cy := refineCenter(c, acc, grad.width, grad.height, points, radii)
		x, y := int(math.Round(cx)), int(math.Round(cy))
		if tooClose(x, y, out, s.MinCenterDistance) {
			continue
		}
		radius, support := estimateRadius(cx, cy, points, radii)
		if float64(support) < s.AccumulatorThreshold {
			continue
		}
		out = append(out, Candidate{X: x, Y: y, Radius: int(math.Round(radius))})
	}
	return out
}

type cell struct {
	x, y  int
	votes int
}

// edgePoints lists edge pixels in raster order.
func edgePoints(edges []bool, width int) []cell {
	points := make([]cell, 0)
	for i, e := range edges {
		if e {
			points = append(points, cell{x: i % width, y: i / width})
		}
	}
	return points
}

// vote fills the centre accumulator. Cells outside the grid are skipped.
func vote(grad gradientField, points []cell, radii RadiusRange) []int {
	width, height := grad.width, grad.height
	acc := make([]int, width*height)

	for _, p := range points {
		i := p.y*width + p.x
		gx, gy := grad.gx[i], grad.gy[i]
		norm := math.Sqrt(gx*gx + gy*gy)
		if norm == 0 {
			continue
		}
		ux, uy := gx/norm, gy/norm

		for _, sign := range [2]float64{1, -1} {
			for r := radii.Min; r <= radii.Max; r++ {
				cx := int(math.Round(float64(p.x) + sign*float64(r)*ux))
				cy := int(math.Round(float64(p.y) + sign*float64(r)*uy))
				if cx < 0 || cy < 0 || cx >= width || cy >= height {
					continue
				}
				acc[cy*width+cx]++
			}
		}
	}
	return acc
}

// findCenters returns accumulator peaks above threshold, strongest first.
//
// A peak must beat its left and upper neighbours strictly and match or beat
// its right and lower ones, so a flat plateau yields a single peak.
func findCenters(acc []int, width, height int, threshold float64) []cell {
	centers := make([]cell, 0)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			v := acc[i]
			if float64(v) <= threshold {
				continue
			}
			if v > acc[i-1] && v >= acc[i+1] && v > acc[i-width] && v >= acc[i+width] {
				centers = append(centers, cell{x: x, y: y, votes: v})
			}
		}
	}

	sort.SliceStable(centers, func(a, b int) bool {
		return centers[a].votes > centers[b].votes
	})
	return centers
}

func tooClose(x, y int, accepted []Candidate, minDist float64) bool {
	for _, a := range accepted {
		dx := float64(x - a.X)
		dy := float64(y - a.Y)
		if math.Sqrt(dx*dx+dy*dy) < minDist {
			return true
		}
	}
	return false
}

// refineCenter moves an accumulator peak to the centre of the ring that
// produced it.
//
// The starting point is the vote-weighted centroid of the cells within
// peakSpan of the peak. Each iteration then fits a circle to the edge pixels
// lying within fitWindow of the current radius estimate. A fit that drifts more
// than maxRefineShift from the peak is discarded.
func refineCenter(c cell, acc []int, width, height int, points []cell, radii RadiusRange) (float64, float64) {
	cx, cy := peakCentroid(c, acc, width, height)

	for i := 0; i < fitIterations; i++ {
		radius, support := estimateRadius(cx, cy, points, radii)
		if support == 0 {
			break
		}

		band := make([]cell, 0, support*2)
		nearbyPoints(cx, cy, points, radii.Max+fitWindow, func(p cell, d float64) {
			if math.Abs(d-radius) <= fitWindow {
				band = append(band, p)
			}
		})

		fx, fy, ok := fitCircle(band)
		if !ok || math.Hypot(fx-float64(c.x), fy-float64(c.y)) > maxRefineShift {
			break
		}
		moved := math.Hypot(fx-cx, fy-cy)
		cx, cy = fx, fy
		if moved < 0.05 {
			break
		}
	}
	return cx, cy
}

// peakCentroid returns the vote-weighted mean position of the accumulator
// cells within peakSpan of c.
func peakCentroid(c cell, acc []int, width, height int) (float64, float64) {
	var sx, sy, total float64
	for y := c.y - peakSpan; y <= c.y+peakSpan; y++ {
		if y < 0 || y >= height {
			continue
		}
		for x := c.x - peakSpan; x <= c.x+peakSpan; x++ {
			if x < 0 || x >= width {
				continue
			}
			v := float64(acc[y*width+x])
			sx += v * float64(x)
			sy += v * float64(y)
			total += v
		}
	}
	if total == 0 {
		return float64(c.x), float64(c.y)
	}
	return sx / total, sy / total
}

// fitCircle returns the centre of the least-squares algebraic circle through
// pts, computed in coordinates relative to their mean. ok is false when the
// points are too few or collinear.
func fitCircle(pts []cell) (float64, float64, bool) {
	if len(pts) < 3 {
		return 0, 0, false
	}

	var mx, my float64
	for _, p := range pts {
		mx += float64(p.x)
		my += float64(p.y)
	}
	n := float64(len(pts))
	mx /= n
	my /= n

	var suu, svv, suv, suuu, svvv, suvv, svuu float64
	for _, p := range pts {
		u := float64(p.x) - mx
		v := float64(p.y) - my
		suu += u * u
		svv += v * v
		suv += u * v
		suuu += u * u * u
		svvv += v * v * v
		suvv += u * v * v
		svuu += v * u * u
	}

	det := suu*svv - suv*suv
	if math.Abs(det) < 1e-9 {
		return 0, 0, false
	}
	bu := (suuu + suvv) / 2
	bv := (svvv + svuu) / 2
	uc := (bu*svv - bv*suv) / det
	vc := (suu*bv - suv*bu) / det
	return mx + uc, my + vc, true
}

// nearbyPoints calls fn for each edge pixel within the square of half-width
// reach around (cx, cy), with its distance from the centre.
func nearbyPoints(cx, cy float64, points []cell, reach int, fn func(p cell, d float64)) {
	// points are in raster order, so only the horizontal band around the
	// centre is scanned
	top := int(math.Floor(cy)) - reach
	bottom := int(math.Ceil(cy)) + reach
	start := sort.Search(len(points), func(i int) bool { return points[i].y >= top })
	for _, p := range points[start:] {
		if p.y > bottom {
			break
		}
		dx := float64(p.x) - cx
		if dx < -float64(reach) || dx > float64(reach) {
			continue
		}
		dy := float64(p.y) - cy
		fn(p, math.Sqrt(dx*dx+dy*dy))
	}
}

// estimateRadius picks the radius best supported by edge pixels around
// (cx, cy). It returns the radius and the number of edge pixels in the winning
// window.
func estimateRadius(cx, cy float64, points []cell, radii RadiusRange) (float64, int) {
	n := radii.Max - radii.Min + 1
	hist := make([]int, n)

	nearbyPoints(cx, cy, points, radii.Max+1, func(_ cell, d float64) {
		r := int(math.Round(d))
		if r < radii.Min || r > radii.Max {
			return
		}
		hist[r-radii.Min]++
	})

	bestCenter, bestSupport := 0, -1
	for i := 0; i < n; i++ {
		support := 0
		for j := i - radiusWindow; j <= i+radiusWindow; j++ {
			if j >= 0 && j < n {
				support += hist[j]
			}
		}
		if support > bestSupport {
			bestCenter, bestSupport = i, support
		}
	}

	if bestSupport <= 0 {
		return float64(radii.Min + bestCenter), 0
	}

	var weighted float64
	for j := bestCenter - radiusWindow; j <= bestCenter+radiusWindow; j++ {
		if j >= 0 && j < n {
			weighted += float64(hist[j]) * float64(radii.Min+j)
		}
	}
	return weighted / float64(bestSupport), bestSupport
}
