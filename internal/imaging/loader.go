package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// SupportedExtensions lists the screenshot formats Load can decode, in the
// order they are tried when looking up an image by base name.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".bmp"}

// Load decodes an image file.
//
// JPEG, PNG, GIF and BMP go through imaging.Open with EXIF auto-orientation so
// phone captures come out upright. WebP files are decoded with the webp codec.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a valid image in a supported format
func Load(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return loadWebP(path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

func loadWebP(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := webp.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Find returns the path of the first file in dir named base with one of the
// SupportedExtensions, or false if none exists.
func Find(dir, base string) (string, bool) {
	for _, ext := range SupportedExtensions {
		path := filepath.Join(dir, base+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// IsSupported reports whether the file name has a supported image extension.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Save encodes an image to path, choosing the format from the extension.
// Parent directories are created as needed.
func Save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create image: %w", err)
		}
		defer f.Close()
		if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
			return fmt.Errorf("failed to encode image %s: %w", path, err)
		}
		return nil
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to encode image %s: %w", path, err)
	}
	return nil
}
