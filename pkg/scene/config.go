package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/orbit"
)

// CameraConfig describes the initial orbit camera and its input response
type CameraConfig struct {
	Radius      float64 // Initial orbit distance from the black hole, physical units
	MinRadius   float64 // Zoom floor, must stay outside the event horizon
	MaxRadius   float64 // Zoom ceiling
	Azimuth     float64 // Initial angle around +Y, radians
	Polar       float64 // Initial angle from +Y, radians
	VFov        float64 // Vertical field of view in degrees
	OrbitSpeed  float64 // Radians per pixel of pointer drag
	ZoomFactor  float64 // k in radius *= 1 + k*deltaY
	AspectRatio float64 // Width / height of the initial viewport
}

// DiskConfig describes the accretion disk
type DiskConfig struct {
	InnerRadius float64
	OuterRadius float64
	Thickness   float64
}

// PlanetConfig describes the orbiting planet
type PlanetConfig struct {
	Radius float64
	Orbit  orbit.Elements
}

// Config is the session-constant scene configuration supplied by the host
type Config struct {
	Camera CameraConfig
	Disk   DiskConfig
	Planet PlanetConfig
}

// DefaultCameraConfig returns the startup orbit camera
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Radius:      1.67e11,
		MinRadius:   2.0 * core.SagARs,
		MaxRadius:   1e12,
		Azimuth:     0.0,
		Polar:       1.66,
		VFov:        60.0,
		OrbitSpeed:  0.01,
		ZoomFactor:  0.001,
		AspectRatio: 800.0 / 600.0,
	}
}

// DefaultDiskConfig returns the Sagittarius A* accretion disk
func DefaultDiskConfig() DiskConfig {
	return DiskConfig{
		InnerRadius: 2.2 * core.SagARs,
		OuterRadius: 5.2 * core.SagARs,
		Thickness:   1.0e9,
	}
}

// DefaultPlanetConfig returns a planet on an eccentric, inclined orbit.
// Distances are 7 and 0.4 geometric units; the orbit runs 1000x faster than real time.
func DefaultPlanetConfig() PlanetConfig {
	semiMajorAxis := 7.0 * core.UnitScale
	return PlanetConfig{
		Radius: 0.4 * core.UnitScale,
		Orbit: orbit.Elements{
			SemiMajorAxis: semiMajorAxis,
			Eccentricity:  0.5,
			Inclination:   30.0 * math.Pi / 180.0,
			AscendingNode: 0,
			Period:        orbit.PeriodFromMass(semiMajorAxis, core.SagAMass, 1000),
		},
	}
}

// DefaultConfig returns the full default scene
func DefaultConfig() Config {
	return Config{
		Camera: DefaultCameraConfig(),
		Disk:   DefaultDiskConfig(),
		Planet: DefaultPlanetConfig(),
	}
}

// Validate reports configuration that violates the scene invariants.
// These are programmer errors; callers are expected to fail fast.
func (c Config) Validate() error {
	var errs []error

	cam := c.Camera
	if cam.MinRadius <= core.SagARs {
		errs = append(errs, fmt.Errorf("camera min radius %.3e must exceed the event horizon %.3e", cam.MinRadius, core.SagARs))
	}
	if cam.MaxRadius < cam.MinRadius {
		errs = append(errs, fmt.Errorf("camera max radius %.3e below min radius %.3e", cam.MaxRadius, cam.MinRadius))
	}
	if cam.Radius < cam.MinRadius || cam.Radius > cam.MaxRadius {
		errs = append(errs, fmt.Errorf("camera radius %.3e outside [%.3e, %.3e]", cam.Radius, cam.MinRadius, cam.MaxRadius))
	}
	if cam.VFov <= 0 || cam.VFov >= 180 {
		errs = append(errs, fmt.Errorf("camera vfov %.2f must be in (0, 180)", cam.VFov))
	}
	if cam.AspectRatio <= 0 {
		errs = append(errs, fmt.Errorf("camera aspect ratio %.3f must be positive", cam.AspectRatio))
	}

	disk := c.Disk
	if disk.InnerRadius <= 0 || disk.InnerRadius >= disk.OuterRadius {
		errs = append(errs, fmt.Errorf("disk radii must satisfy 0 < inner (%.3e) < outer (%.3e)", disk.InnerRadius, disk.OuterRadius))
	}
	if disk.Thickness < 0 {
		errs = append(errs, fmt.Errorf("disk thickness %.3e must not be negative", disk.Thickness))
	}

	planet := c.Planet
	if planet.Radius <= 0 {
		errs = append(errs, fmt.Errorf("planet radius %.3e must be positive", planet.Radius))
	}
	if planet.Orbit.SemiMajorAxis <= 0 {
		errs = append(errs, fmt.Errorf("planet semi-major axis %.3e must be positive", planet.Orbit.SemiMajorAxis))
	}
	if planet.Orbit.Eccentricity < 0 || planet.Orbit.Eccentricity >= 1 {
		errs = append(errs, fmt.Errorf("planet eccentricity %.3f must be in [0, 1)", planet.Orbit.Eccentricity))
	}
	if planet.Orbit.Period <= 0 {
		errs = append(errs, fmt.Errorf("planet orbital period %.3f must be positive", planet.Orbit.Period))
	}

	return errors.Join(errs...)
}

// NewDisk returns the disk entity for this configuration
func (c Config) NewDisk() Disk {
	return Disk{
		InnerRadius: c.Disk.InnerRadius,
		OuterRadius: c.Disk.OuterRadius,
		Thickness:   c.Disk.Thickness,
	}
}
