package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Default overlay colours.
const (
	DefaultRingColor  = "#FF0000"
	DefaultCrossColor = "#00FF00"
)

// Overlay describes the marker drawn on a preview.
type Overlay struct {
	CenterX int
	CenterY int
	Radius  int

	// Caption is printed on a dark band across the top of the preview.
	Caption string

	// RingColor and CrossColor are hex strings ("#RRGGBB"). Empty or
	// unparseable values fall back to the defaults.
	RingColor  string
	CrossColor string
}

// RenderPreview draws a detected circle onto a copy of img.
//
// The ring is 3 pixels wide at the overlay radius, the centre is marked with a
// cross, and the caption (if any) is drawn in the top-left corner. Parts of the
// overlay that fall outside the image are clipped.
func RenderPreview(img image.Image, o Overlay) *image.NRGBA {
	out := imaging.Clone(img)

	ring := parseColor(o.RingColor, DefaultRingColor)
	cross := parseColor(o.CrossColor, DefaultCrossColor)

	drawRing(out, o.CenterX, o.CenterY, o.Radius, 1.5, ring)
	drawCross(out, o.CenterX, o.CenterY, 15, cross)

	if o.Caption != "" {
		drawCaption(out, o.Caption)
	}
	return out
}

// SavePreview renders the overlay and writes it to path.
func SavePreview(img image.Image, o Overlay, path string) error {
	if err := Save(RenderPreview(img, o), path); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}

// parseColor converts a hex string to an opaque colour, using fallback when
// hex is empty or invalid.
func parseColor(hex, fallback string) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(fallback)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func drawRing(img *image.NRGBA, cx, cy, radius int, halfWidth float64, c color.NRGBA) {
	bounds := img.Bounds()
	reach := radius + int(math.Ceil(halfWidth))
	for y := cy - reach; y <= cy+reach; y++ {
		for x := cx - reach; x <= cx+reach; x++ {
			if !(image.Point{X: x, Y: y}).In(bounds) {
				continue
			}
			dx := float64(x - cx)
			dy := float64(y - cy)
			if math.Abs(math.Sqrt(dx*dx+dy*dy)-float64(radius)) <= halfWidth {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func drawCross(img *image.NRGBA, cx, cy, arm int, c color.NRGBA) {
	bounds := img.Bounds()
	for d := -arm; d <= arm; d++ {
		for w := -1; w <= 1; w++ {
			for _, p := range []image.Point{{X: cx + d, Y: cy + w}, {X: cx + w, Y: cy + d}} {
				if p.In(bounds) {
					img.SetNRGBA(p.X, p.Y, c)
				}
			}
		}
	}
}

func drawCaption(img *image.NRGBA, text string) {
	face := basicfont.Face7x13
	bounds := img.Bounds()

	band := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+face.Height+6).Intersect(bounds)
	draw.Draw(img, band, image.NewUniform(color.NRGBA{A: 180}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(bounds.Min.X+4, bounds.Min.Y+face.Ascent+3),
	}
	d.DrawString(text)
}
