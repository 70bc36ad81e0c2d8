package geodesic

import (
	"fmt"
	"math"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
)

// Outcome classifies how a traced photon terminated
type Outcome int

const (
	Escaped Outcome = iota
	HitBlackHole
	HitDisk
	HitPlanet
)

func (o Outcome) String() string {
	switch o {
	case Escaped:
		return "escaped"
	case HitBlackHole:
		return "black_hole"
	case HitDisk:
		return "disk"
	case HitPlanet:
		return "planet"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// PlaneKind records how the photon's orbital plane was constructed
type PlaneKind int

const (
	// TangentPlane is spanned by the radial direction and the ray's tangential component
	TangentPlane PlaneKind = iota
	// FallbackPlane is used when the ray is radial and has no tangential component
	FallbackPlane
)

func (p PlaneKind) String() string {
	if p == FallbackPlane {
		return "fallback"
	}
	return "tangent"
}

// Result is the terminal state of one traced ray
type Result struct {
	Outcome   Outcome
	Direction core.Vec3 // Unit escape direction (Escaped only)
	Position  core.Vec3 // Physical hit point (HitDisk, HitPlanet)
	Normal    core.Vec3 // Unit surface normal (HitPlanet only)
	Steps     int       // Integration steps taken
	Plane     PlaneKind
}

// RayState is the per-pixel photon state in geometric units.
// It is created fresh for every ray and never shared.
type RayState struct {
	U       float64 // Inverse radius 1/r
	DU      float64 // du/dφ
	Phi     float64 // Angle swept in the orbital plane
	Normal  core.Vec3
	Tangent core.Vec3
	Plane   PlaneKind
}

// Position returns the geometric-unit position for the current state
func (s RayState) Position() core.Vec3 {
	sinPhi, cosPhi := math.Sincos(s.Phi)
	return s.Normal.Multiply(cosPhi).Add(s.Tangent.Multiply(sinPhi)).Multiply(1.0 / s.U)
}

// PrimaryRay returns the unit world direction through the centre of pixel (x, y)
// for a pinhole camera. Row 0 is the top of the image.
func PrimaryRay(cam scene.Camera, x, y, width, height int) core.Vec3 {
	ndcX := 2.0*(float64(x)+0.5)/float64(width) - 1.0
	ndcY := 1.0 - 2.0*(float64(y)+0.5)/float64(height)

	return cam.Forward.
		Add(cam.Right.Multiply(ndcX * cam.TanHalfFov * cam.Aspect)).
		Add(cam.Up.Multiply(ndcY * cam.TanHalfFov)).
		Normalize()
}
