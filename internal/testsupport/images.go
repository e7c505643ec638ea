package testsupport

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// fillImage produces a small solid-color RGBA image. The seed varies the
// color so two fixtures with different seeds have different content hashes.
func fillImage(width, height int, seed uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := color.RGBA{R: seed, G: 255 - seed, B: seed / 2, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// WritePNG creates a decodable PNG fixture at path.
func WritePNG(t testing.TB, path string, seed uint8) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, fillImage(8, 6, seed)); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// WriteJPEG creates a decodable JPEG fixture at path.
func WriteJPEG(t testing.TB, path string, seed uint8) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, fillImage(8, 6, seed), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// WriteCorrupt creates a file that matches an image extension but cannot be
// decoded.
func WriteCorrupt(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("not an image at all"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
