package shading

import (
	"image/color"
	"math"

	"github.com/df07/go-blackhole-raytracer/pkg/geodesic"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
	"github.com/lucasb-eyer/go-colorful"
)

// Shader maps a traced ray's terminal state to a color
type Shader struct {
	Ambient      float64        // Planet ambient term in [0, 1]
	PlanetAlbedo colorful.Color // Base planet color
	DiskInner    colorful.Color // Disk color at the inner radius
	DiskOuter    colorful.Color // Disk color at the outer radius
}

// DefaultShader returns the reference palette: a red-to-yellow disk and a blue planet
func DefaultShader() Shader {
	return Shader{
		Ambient:      0.2,
		PlanetAlbedo: colorful.Color{R: 0.3, G: 0.5, B: 0.9},
		DiskInner:    colorful.Color{R: 1.0, G: 0.0, B: 0.1},
		DiskOuter:    colorful.Color{R: 1.0, G: 1.0, B: 0.1},
	}
}

// Shade returns the color for one traced ray
func (s Shader) Shade(result geodesic.Result, snap *scene.Snapshot) colorful.Color {
	switch result.Outcome {
	case geodesic.HitBlackHole:
		return colorful.Color{}
	case geodesic.HitPlanet:
		// The black hole at the origin is the only light
		light := snap.Planet.Position.Negate().Normalize()
		intensity := s.PlanetIntensity(result.Normal.Dot(light))
		return colorful.Color{
			R: s.PlanetAlbedo.R * intensity,
			G: s.PlanetAlbedo.G * intensity,
			B: s.PlanetAlbedo.B * intensity,
		}
	case geodesic.HitDisk:
		radius := math.Hypot(result.Position.X, result.Position.Z)
		return s.DiskColor(snap.Disk.NormalizedDiskRadius(radius))
	default:
		if snap.Background == nil {
			return colorful.Color{}
		}
		return snap.Background.Sample(result.Direction)
	}
}

// PlanetIntensity returns ambient + (1 - ambient)·max(0, n·l)
func (s Shader) PlanetIntensity(cosTheta float64) float64 {
	diffuse := math.Max(0, cosTheta)
	if math.IsNaN(diffuse) {
		diffuse = 0
	}
	return s.Ambient + (1.0-s.Ambient)*min(diffuse, 1.0)
}

// DiskColor interpolates the disk gradient at normalized radius t in [0, 1]
func (s Shader) DiskColor(t float64) colorful.Color {
	t = max(0, min(1, t))
	return s.DiskInner.BlendRgb(s.DiskOuter, t)
}

// ToRGBA converts a shaded color to an 8-bit opaque pixel
func ToRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
