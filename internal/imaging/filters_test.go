package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestGrayscale(t *testing.T) {
	img := newSolidImage(10, 10, color.White)
	img.Set(3, 4, color.Black)

	gray := Grayscale(img)

	if b := gray.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Fatalf("size: got %dx%d, want 10x10", b.Dx(), b.Dy())
	}
	if v := GrayAt(gray, 0, 0); v < 254 {
		t.Errorf("white pixel: got %d, want 255", v)
	}
	if v := GrayAt(gray, 3, 4); v != 0 {
		t.Errorf("black pixel: got %d, want 0", v)
	}
}

func TestGrayscale_PreservesGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 16)
	}

	gray := Grayscale(src)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got, want := int(GrayAt(gray, x, y)), int(src.GrayAt(x, y).Y)
			if got < want-1 || got > want+1 {
				t.Errorf("(%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestGaussianBlur_UniformUnchanged(t *testing.T) {
	gray := Grayscale(newSolidImage(20, 20, color.Gray{Y: 100}))

	for _, kernel := range []int{1, 5, 9, 11} {
		blurred := GaussianBlur(gray, kernel, DefaultBlurSigma)
		if v := GrayAt(blurred, 10, 10); v < 99 || v > 101 {
			t.Errorf("kernel %d: centre got %d, want ~100", kernel, v)
		}
	}
}

func TestGaussianBlur_SpreadsPoint(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 21, 21))
	gray.SetGray(10, 10, color.Gray{Y: 255})

	blurred := GaussianBlur(gray, 9, 2)

	centre := GrayAt(blurred, 10, 10)
	near := GrayAt(blurred, 11, 10)
	if centre == 255 {
		t.Error("point should lose intensity after blur")
	}
	if near == 0 {
		t.Error("neighbour should gain intensity after blur")
	}
	if near > centre {
		t.Errorf("neighbour (%d) should not exceed centre (%d)", near, centre)
	}
}

func TestGrayAt_OutOfBounds(t *testing.T) {
	gray := Grayscale(newSolidImage(5, 5, color.Gray{Y: 200}))
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {5, 0}, {0, 5}} {
		if v := GrayAt(gray, p.X, p.Y); v != 0 {
			t.Errorf("GrayAt(%d,%d) = %d, want 0", p.X, p.Y, v)
		}
	}
}

func TestGrayscale_OffsetOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 16, 24))
	for y := 20; y < 24; y++ {
		for x := 10; x < 16; x++ {
			src.Set(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	src.Set(10, 20, color.RGBA{255, 255, 255, 255})
	src.Set(15, 23, color.RGBA{255, 0, 0, 255})

	gray := Grayscale(src)

	if b := gray.Bounds(); b.Min != (image.Point{}) || b.Dx() != 6 || b.Dy() != 4 {
		t.Fatalf("bounds: got %v, want (0,0)-(6,4)", b)
	}
	if v := gray.GrayAt(0, 0).Y; v != 255 {
		t.Errorf("top-left: got %d, want 255", v)
	}
	// 0.299 * 255 rounds to 76
	if v := gray.GrayAt(5, 3).Y; v != 76 {
		t.Errorf("red pixel: got %d, want 76", v)
	}
}

func TestGaussianBlur_SigmaIndependentOfKernel(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 31, 31))
	gray.SetGray(15, 15, color.Gray{Y: 255})

	narrow := GaussianBlur(gray, 11, 1)
	wide := GaussianBlur(gray, 11, 3)

	if GrayAt(narrow, 15, 15) <= GrayAt(wide, 15, 15) {
		t.Errorf("smaller sigma should keep more of the peak: %d vs %d",
			GrayAt(narrow, 15, 15), GrayAt(wide, 15, 15))
	}
	if GrayAt(narrow, 19, 15) >= GrayAt(wide, 19, 15) {
		t.Errorf("larger sigma should spread further: %d vs %d",
			GrayAt(narrow, 19, 15), GrayAt(wide, 19, 15))
	}
}

func TestGaussianBlur_ReturnsGrayAtOrigin(t *testing.T) {
	sub := Grayscale(newSolidImage(20, 20, color.Gray{Y: 80})).SubImage(image.Rect(5, 5, 15, 12)).(*image.Gray)

	for _, kernel := range []int{1, 9} {
		out := GaussianBlur(sub, kernel, 2)
		if b := out.Bounds(); b.Min != (image.Point{}) || b.Dx() != 10 || b.Dy() != 7 {
			t.Errorf("kernel %d: bounds %v, want (0,0)-(10,7)", kernel, b)
		}
		if v := GrayAt(out, 3, 3); v < 79 || v > 80 {
			t.Errorf("kernel %d: got %d, want ~80", kernel, v)
		}
	}
}
