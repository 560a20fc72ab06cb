package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// newSolidImage creates an in-memory image filled with one colour.
func newSolidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// writePNG encodes img as PNG at path.
func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
}

func TestLoad_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.png")
	writePNG(t, path, newSolidImage(40, 30, color.RGBA{200, 10, 10, 255}))

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("unexpected dimensions: got %dx%d, want 40x30", b.Dx(), b.Dy())
	}
}

func TestLoad_NonExistent(t *testing.T) {
	if _, err := Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}
	if _, err := Load("/nonexistent/path/to/image.webp"); err == nil {
		t.Error("Load should fail for non-existent webp file")
	}
}

func TestLoad_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "2.png"), newSolidImage(4, 4, color.Black))
	if err := os.Mkdir(filepath.Join(dir, "3.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok := Find(dir, "2")
	if !ok {
		t.Fatal("Find should locate 2.png")
	}
	if filepath.Base(path) != "2.png" {
		t.Errorf("got %s, want 2.png", path)
	}

	if _, ok := Find(dir, "1"); ok {
		t.Error("Find should not locate a missing image")
	}
	if _, ok := Find(dir, "3"); ok {
		t.Error("Find should ignore directories")
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"1.jpg", true},
		{"1.JPEG", true},
		{"shot.png", true},
		{"shot.webp", true},
		{"Captura.BMP", true},
		{"notes.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsSupported(tt.name); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	src := newSolidImage(12, 8, color.RGBA{0, 0, 255, 255})

	if err := Save(src, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	r, g, b, _ := img.At(5, 5).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 255 {
		t.Errorf("pixel changed: got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}
