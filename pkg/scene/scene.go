package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/lucasb-eyer/go-colorful"
)

// Camera is the per-frame view description consumed by the integrator.
// Position is in physical units; Right, Up and Forward form an orthonormal basis.
type Camera struct {
	Position   core.Vec3
	Right      core.Vec3
	Up         core.Vec3
	Forward    core.Vec3
	TanHalfFov float64
	Aspect     float64
	Moving     bool // True while a drag or zoom is in flight
}

// Disk is the equatorial accretion disk, centred on the black hole in the y=0 plane
type Disk struct {
	InnerRadius float64 // Physical units
	OuterRadius float64 // Physical units
	Thickness   float64 // Full height of the slab around y=0, physical units; 0 is an infinitely thin disk
}

// Planet is the single orbiting body
type Planet struct {
	Position core.Vec3 // Physical units
	Radius   float64   // Physical units
}

// Background is a read-only environment sampled by escape direction
type Background interface {
	Sample(direction core.Vec3) colorful.Color
}

// Snapshot is an immutable copy of the scene taken at frame dispatch.
// Every pixel of one frame reads the same Snapshot, later input never leaks into it.
type Snapshot struct {
	Camera     Camera
	Disk       Disk
	Planet     Planet
	Background Background
}

// NormalizedDiskRadius maps a physical radius onto [0, 1] across the disk
func (d Disk) NormalizedDiskRadius(radius float64) float64 {
	span := d.OuterRadius - d.InnerRadius
	if span <= 0 {
		return 0
	}
	t := (radius - d.InnerRadius) / span
	return max(0, min(1, t))
}

// Contains reports whether an equatorial radius lies within [inner, outer]
func (d Disk) Contains(radius float64) bool {
	return radius >= d.InnerRadius && radius <= d.OuterRadius
}

// InSlab reports whether a physical point lies inside the disk volume: within
// half the thickness of the plane and between the inner and outer radii
func (d Disk) InSlab(p core.Vec3) bool {
	if d.Thickness <= 0 || math.Abs(p.Y) > d.Thickness/2 {
		return false
	}
	return d.Contains(math.Hypot(p.X, p.Z))
}

// String returns a human-readable summary of the camera state
func (c Camera) String() string {
	return fmt.Sprintf("Camera: pos=(%.2e, %.2e, %.2e), r=%.2e m (%.2f r_s), moving=%t",
		c.Position.X, c.Position.Y, c.Position.Z,
		c.Position.Length(), c.Position.Length()/core.SagARs, c.Moving)
}
