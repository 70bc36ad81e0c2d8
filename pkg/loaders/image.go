package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/df07/go-blackhole-raytracer/pkg/shading"
	_ "golang.org/x/image/bmp" // BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder
)

// LoadImage decodes a PNG, JPEG, BMP, TIFF or WebP file
func LoadImage(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Format is detected from the file header
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return img, nil
}

// LoadEnvironment loads an equirectangular background. Images wider than
// maxWidth are downscaled first; maxWidth <= 0 keeps the original size.
func LoadEnvironment(filename string, maxWidth int) (*shading.EnvironmentMap, error) {
	img, err := LoadImage(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("failed to load environment: %s is empty", filename)
	}
	return shading.NewEnvironmentMap(Downscale(img, maxWidth)), nil
}

// Downscale resizes img to at most maxWidth pixels wide, preserving aspect ratio
func Downscale(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return img
	}

	height := max(1, bounds.Dy()*maxWidth/bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}
