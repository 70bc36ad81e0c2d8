package shading

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/lucasb-eyer/go-colorful"
)

// EnvironmentMap is an equirectangular background sampled by direction
type EnvironmentMap struct {
	Width  int
	Height int
	Pixels []colorful.Color // Row-major: Pixels[y*Width + x], row 0 is the +Y pole
}

// NewEnvironmentMap copies an image into an environment map
func NewEnvironmentMap(img image.Image) *EnvironmentMap {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]colorful.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c, ok := colorful.MakeColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			if !ok {
				// Fully transparent pixels carry no color
				continue
			}
			pixels[y*width+x] = c
		}
	}

	return &EnvironmentMap{Width: width, Height: height, Pixels: pixels}
}

// DirectionToUV maps a unit direction to equirectangular coordinates in [0, 1]
func DirectionToUV(dir core.Vec3) (u, v float64) {
	d := dir.Normalize()
	u = 0.5 + math.Atan2(d.Z, d.X)/(2.0*math.Pi)
	v = 0.5 - math.Asin(max(-1, min(1, d.Y)))/math.Pi
	return u, v
}

// Sample returns the bilinearly filtered color seen along dir
func (e *EnvironmentMap) Sample(dir core.Vec3) colorful.Color {
	if e.Width == 0 || e.Height == 0 {
		return colorful.Color{}
	}
	u, v := DirectionToUV(dir)
	return e.SampleUV(u, v)
}

// SampleUV bilinearly filters at (u, v) with wraparound on both axes
func (e *EnvironmentMap) SampleUV(u, v float64) colorful.Color {
	fx := u*float64(e.Width) - 0.5
	fy := v*float64(e.Height) - 0.5
	if math.IsNaN(fx) || math.IsNaN(fy) {
		return colorful.Color{}
	}

	x0 := math.Floor(fx)
	y0 := math.Floor(fy)
	tx := fx - x0
	ty := fy - y0

	ix0 := wrap(int(x0), e.Width)
	ix1 := wrap(int(x0)+1, e.Width)
	iy0 := wrap(int(y0), e.Height)
	iy1 := wrap(int(y0)+1, e.Height)

	top := e.at(ix0, iy0).BlendRgb(e.at(ix1, iy0), tx)
	bottom := e.at(ix0, iy1).BlendRgb(e.at(ix1, iy1), tx)
	return top.BlendRgb(bottom, ty)
}

func (e *EnvironmentMap) at(x, y int) colorful.Color {
	return e.Pixels[y*e.Width+x]
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// NewStarField creates a procedural equirectangular star field. It stands in
// for a photographic background when the host supplies none.
func NewStarField(width, height int, seed uint64) *EnvironmentMap {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pixels := make([]colorful.Color, width*height)

	// Faint galactic band along the equator
	for y := 0; y < height; y++ {
		lat := (float64(y)+0.5)/float64(height) - 0.5
		glow := 0.06 * math.Exp(-lat*lat*60.0)
		band := colorful.Color{R: 0.01 + glow, G: 0.01 + glow*0.9, B: 0.03 + glow*1.2}
		for x := 0; x < width; x++ {
			pixels[y*width+x] = band
		}
	}

	stars := width * height / 150
	for i := 0; i < stars; i++ {
		x := rng.IntN(width)
		y := rng.IntN(height)
		brightness := math.Pow(rng.Float64(), 6.0)
		// Stellar tints range from orange to blue-white
		tint := colorful.Hcl(30.0+rng.Float64()*210.0, 0.15, 0.6+0.4*brightness).Clamped()
		star := colorful.Color{
			R: min(1, pixels[y*width+x].R+tint.R*brightness*1.5),
			G: min(1, pixels[y*width+x].G+tint.G*brightness*1.5),
			B: min(1, pixels[y*width+x].B+tint.B*brightness*1.5),
		}
		pixels[y*width+x] = star
	}

	return &EnvironmentMap{Width: width, Height: height, Pixels: pixels}
}
