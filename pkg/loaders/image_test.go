package loaders

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()
}

// TestLoadEnvironment creates a test PNG and verifies loading
func TestLoadEnvironment(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "sky.png")

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	writePNG(t, testFile, img)

	env, err := LoadEnvironment(testFile, 0)
	if err != nil {
		t.Fatalf("LoadEnvironment failed: %v", err)
	}
	if env.Width != 2 || env.Height != 2 {
		t.Fatalf("Expected 2x2 environment, got %dx%d", env.Width, env.Height)
	}

	checkColor := func(name string, got, expected colorful.Color) {
		const tolerance = 0.01
		if got.DistanceRgb(expected) > tolerance {
			t.Errorf("%s: expected %v, got %v", name, expected, got)
		}
	}

	// Row-major, row 0 at the top
	checkColor("Top-left (white)", env.Pixels[0], colorful.Color{R: 1, G: 1, B: 1})
	checkColor("Top-right (red)", env.Pixels[1], colorful.Color{R: 1})
	checkColor("Bottom-left (green)", env.Pixels[2], colorful.Color{G: 1})
	checkColor("Bottom-right (blue)", env.Pixels[3], colorful.Color{B: 1})
}

func TestLoadEnvironment_Downscale(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "wide.png")

	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 160, A: 255})
		}
	}
	writePNG(t, testFile, img)

	env, err := LoadEnvironment(testFile, 16)
	if err != nil {
		t.Fatalf("LoadEnvironment failed: %v", err)
	}
	if env.Width != 16 || env.Height != 8 {
		t.Fatalf("Expected 16x8 after downscale, got %dx%d", env.Width, env.Height)
	}

	// A flat image stays flat through the filter
	want := colorful.Color{R: 40.0 / 255.0, G: 80.0 / 255.0, B: 160.0 / 255.0}
	for i, c := range env.Pixels {
		if math.Abs(c.R-want.R) > 0.01 || math.Abs(c.G-want.G) > 0.01 || math.Abs(c.B-want.B) > 0.01 {
			t.Fatalf("Pixel %d: expected %v, got %v", i, want, c)
		}
	}
}

func TestDownscale_KeepsSmallImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	if got := Downscale(img, 16); got != image.Image(img) {
		t.Error("Expected image narrower than the limit to be returned unchanged")
	}
}

func TestLoadImage_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadImage(filepath.Join(dir, "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped not-exist error, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if _, err := LoadEnvironment(garbage, 0); err == nil {
		t.Error("Expected decode error for a non-image file")
	}
}
