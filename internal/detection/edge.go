package detection

import (
	"image"
	"math"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/imaging"
)

// gradientField holds Sobel derivatives of a grayscale grid.
//
// All slices are row-major with len = width*height. Border pixels have zero
// gradient.
type gradientField struct {
	width  int
	height int
	gx     []float64
	gy     []float64
	mag    []float64 // L1 magnitude |gx| + |gy|
}

// sobel computes horizontal and vertical derivatives with 3x3 Sobel kernels
// on 0-255 intensities.
//
//	gx: -1 0 1    gy: -1 -2 -1
//	    -2 0 2         0  0  0
//	    -1 0 1         1  2  1
func sobel(gray *image.Gray) gradientField {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()
	f := gradientField{
		width:  width,
		height: height,
		gx:     make([]float64, width*height),
		gy:     make([]float64, width*height),
		mag:    make([]float64, width*height),
	}

	px := func(x, y int) float64 {
		return float64(imaging.GrayAt(gray, x, y))
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			gx := (px(x+1, y-1) + 2*px(x+1, y) + px(x+1, y+1)) -
				(px(x-1, y-1) + 2*px(x-1, y) + px(x-1, y+1))
			gy := (px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1)) -
				(px(x-1, y-1) + 2*px(x, y-1) + px(x+1, y-1))
			i := y*width + x
			f.gx[i] = gx
			f.gy[i] = gy
			f.mag[i] = math.Abs(gx) + math.Abs(gy)
		}
	}
	return f
}

// canny marks edge pixels using non-maximum suppression followed by
// hysteresis thresholding.
//
// Pixels whose suppressed magnitude reaches high are strong edges. Pixels
// between low and high are kept only when 8-connected, directly or through
// other weak pixels, to a strong edge.
func canny(f gradientField, low, high float64) []bool {
	width, height := f.width, f.height
	suppressed := make([]float64, width*height)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := f.mag[i]
			if mag < low {
				continue
			}

			angle := math.Atan2(f.gy[i], f.gx[i])

			// Compare against the two neighbours along the gradient direction
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1 = f.mag[i-1]
				n2 = f.mag[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1 = f.mag[i-width-1]
				n2 = f.mag[i+width+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1 = f.mag[i-width]
				n2 = f.mag[i+width]
			default:
				n1 = f.mag[i-width+1]
				n2 = f.mag[i+width-1]
			}

			// Strict on one side so plateaus keep exactly one pixel
			if mag > n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	edges := make([]bool, width*height)
	stack := make([]int, 0, 1024)
	for i, v := range suppressed {
		if v >= high && !edges[i] {
			edges[i] = true
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if !edges[j] && suppressed[j] >= low {
					edges[j] = true
					stack = append(stack, j)
				}
			}
		}
	}

	return edges
}
