package camera

import (
	"fmt"
	"math"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// State is the pointer state of the orbit controller
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// PrimaryButton is the pointer button that starts a drag
const PrimaryButton = 0

// Polar angle limits keep the view direction off the world up axis
const (
	minPolar = 0.01
	maxPolar = math.Pi - 0.01
)

// minZoomFactor keeps a large negative wheel delta from flipping or zeroing the radius
const minZoomFactor = 0.01

// OrbitController orbits the camera around the black hole at the origin.
// It is not safe for concurrent use; the owning session serializes calls.
type OrbitController struct {
	config CameraConfig

	state   State
	lastX   float64
	lastY   float64
	zooming bool

	radius  float64
	azimuth float64
	polar   float64
	aspect  float64

	camera scene.Camera
}

// CameraConfig is an alias so hosts can configure the controller without importing scene
type CameraConfig = scene.CameraConfig

// NewOrbitController creates a controller at the configured orbit
func NewOrbitController(config CameraConfig) *OrbitController {
	c := &OrbitController{
		config:  config,
		state:   Idle,
		radius:  clamp(config.Radius, config.MinRadius, config.MaxRadius),
		azimuth: config.Azimuth,
		polar:   clamp(config.Polar, minPolar, maxPolar),
		aspect:  config.AspectRatio,
	}
	if c.aspect <= 0 {
		c.aspect = 1.0
	}
	c.update()
	return c
}

// PointerDown starts a drag when the primary button is pressed
func (c *OrbitController) PointerDown(button int, x, y float64) {
	if button != PrimaryButton {
		return
	}
	c.state = Dragging
	c.lastX, c.lastY = x, y
	c.update()
}

// PointerUp ends a drag
func (c *OrbitController) PointerUp(button int) {
	if button != PrimaryButton || c.state != Dragging {
		return
	}
	c.state = Idle
	c.update()
}

// PointerMove rotates the orbit by the pointer delta while dragging.
// Moves outside a drag are ignored.
func (c *OrbitController) PointerMove(x, y float64) {
	if c.state != Dragging {
		return
	}
	dx := x - c.lastX
	dy := y - c.lastY
	c.lastX, c.lastY = x, y

	c.azimuth += dx * c.config.OrbitSpeed
	c.polar = clamp(c.polar-dy*c.config.OrbitSpeed, minPolar, maxPolar)
	c.update()
}

// Wheel scales the orbit radius by 1 + k*deltaY and marks a zoom in flight
func (c *OrbitController) Wheel(deltaY float64) {
	factor := math.Max(minZoomFactor, 1.0+c.config.ZoomFactor*deltaY)
	c.radius = clamp(c.radius*factor, c.config.MinRadius, c.config.MaxRadius)
	c.zooming = true
	c.update()
}

// Settle ends an in-flight zoom. Hosts call it once per frame after the
// frame's input has been applied.
func (c *OrbitController) Settle() {
	if !c.zooming {
		return
	}
	c.zooming = false
	c.update()
}

// Resize updates the aspect ratio for a new viewport
func (c *OrbitController) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float64(width) / float64(height)
	c.update()
}

// State returns the current pointer state
func (c *OrbitController) State() State {
	return c.state
}

// Radius returns the current orbit distance in physical units
func (c *OrbitController) Radius() float64 {
	return c.radius
}

// Angles returns the current azimuth and polar angles in radians
func (c *OrbitController) Angles() (azimuth, polar float64) {
	return c.azimuth, c.polar
}

// Camera returns a copy of the current camera
func (c *OrbitController) Camera() scene.Camera {
	return c.camera
}

// Info returns a diagnostics summary of the orbit
func (c *OrbitController) Info() string {
	return fmt.Sprintf("%s, azimuth=%.3f rad, polar=%.3f rad, state=%s",
		c.camera.String(), c.azimuth, c.polar, c.state)
}

// update recomputes position and basis from the spherical orbit parameters
func (c *OrbitController) update() {
	sinPolar, cosPolar := math.Sincos(c.polar)
	sinAz, cosAz := math.Sincos(c.azimuth)
	position := core.NewVec3(
		c.radius*sinPolar*cosAz,
		c.radius*cosPolar,
		c.radius*sinPolar*sinAz,
	)

	// The view matrix rows are right, up and -forward
	eye := mgl64.Vec3{position.X, position.Y, position.Z}
	view := mgl64.LookAtV(eye, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})
	right := fromMgl(view.Row(0).Vec3())
	up := fromMgl(view.Row(1).Vec3())
	forward := position.Negate()

	right, up, forward = core.Orthonormalize(right, up, forward)

	c.camera = scene.Camera{
		Position:   position,
		Right:      right,
		Up:         up,
		Forward:    forward,
		TanHalfFov: math.Tan(mgl64.DegToRad(c.config.VFov) / 2.0),
		Aspect:     c.aspect,
		Moving:     c.state == Dragging || c.zooming,
	}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	out := core.NewVec3(v[0], v[1], v[2])
	if !out.IsFinite() {
		return core.Vec3{}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
