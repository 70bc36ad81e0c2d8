package renderer

import (
	"fmt"
	"math"
	"sync"

	"github.com/df07/go-blackhole-raytracer/pkg/camera"
	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/orbit"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
)

// FrameRequest is everything needed to render one frame
type FrameRequest struct {
	Number   int
	Time     float64 // Simulated seconds since the session started
	Width    int
	Height   int
	Snapshot scene.Snapshot
}

// Session owns the mutable scene state. Input and the simulation clock mutate
// it between frames; each frame renders from a copied snapshot. All methods are
// safe for concurrent use.
type Session struct {
	mu sync.Mutex

	controller   *camera.OrbitController
	propagator   *orbit.Propagator
	disk         scene.Disk
	planetRadius float64
	background   scene.Background

	width, height int
	elapsed       float64
	frame         int

	logger                 core.Logger // nil disables scene and camera logging
	dragAzimuth, dragPolar float64     // Angles when the current drag started
}

// NewSession validates config and creates a session with a width×height viewport
func NewSession(config scene.Config, background scene.Background, width, height int) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", width, height)
	}

	config.Camera.AspectRatio = float64(width) / float64(height)

	return &Session{
		controller:   camera.NewOrbitController(config.Camera),
		propagator:   orbit.NewPropagator(config.Planet.Orbit),
		disk:         config.NewDisk(),
		planetRadius: config.Planet.Radius,
		background:   background,
		width:        width,
		height:       height,
	}, nil
}

// SetLogger sets where scene constants and camera orbit changes are reported
func (s *Session) SetLogger(logger core.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// LogScene reports the black hole, camera, disk and planet orbit constants
func (s *Session) LogScene() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logger == nil {
		return
	}

	cam := s.controller.Camera()
	el := s.propagator.Elements()
	s.logger.Printf("Black hole: r_s = %.3e m\n", core.SagARs)
	s.logger.Printf("Camera: r = %.3e m (%.2f r_s)\n", cam.Position.Length(), cam.Position.Length()/core.SagARs)
	s.logger.Printf("Disk: %.2f to %.2f r_s, thickness %.3e m\n",
		s.disk.InnerRadius/core.SagARs, s.disk.OuterRadius/core.SagARs, s.disk.Thickness)
	s.logger.Printf("Planet: a = %.3e m (%.2f r_s), e = %.2f, inclination %.1f deg, period %.1f s\n",
		el.SemiMajorAxis, el.SemiMajorAxis/core.SagARs, el.Eccentricity, el.Inclination*180/math.Pi, el.Period)
}

// PointerDown forwards a button press to the camera controller
func (s *Session) PointerDown(button int, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasIdle := s.controller.State() == camera.Idle
	s.controller.PointerDown(button, x, y)
	if wasIdle && s.controller.State() == camera.Dragging {
		s.dragAzimuth, s.dragPolar = s.controller.Angles()
	}
}

// PointerUp forwards a button release to the camera controller and reports
// how far the drag orbited the camera
func (s *Session) PointerUp(button int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasDragging := s.controller.State() == camera.Dragging
	s.controller.PointerUp(button)
	if !wasDragging || s.controller.State() != camera.Idle || s.logger == nil {
		return
	}

	azimuth, polar := s.controller.Angles()
	if azimuth == s.dragAzimuth && polar == s.dragPolar {
		return
	}
	s.logger.Printf("Camera orbit: azimuth %.1f -> %.1f deg, elevation %.1f -> %.1f deg\n",
		s.dragAzimuth*180/math.Pi, azimuth*180/math.Pi,
		elevationDegrees(s.dragPolar), elevationDegrees(polar))
}

// elevationDegrees converts a polar angle from +Y to degrees above the disk plane
func elevationDegrees(polar float64) float64 {
	return 90 - polar*180/math.Pi
}

// PointerMove forwards pointer motion to the camera controller
func (s *Session) PointerMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller.PointerMove(x, y)
}

// Wheel forwards a scroll delta to the camera controller
func (s *Session) Wheel(deltaY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller.Wheel(deltaY)
}

// Resize changes the output viewport. Only extent and aspect change.
func (s *Session) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", width, height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.controller.Resize(width, height)
	return nil
}

// Viewport returns the current output size
func (s *Session) Viewport() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Elapsed returns the simulated time in seconds
func (s *Session) Elapsed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// CameraInfo returns the diagnostics summary of the camera
func (s *Session) CameraInfo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Info()
}

// Snapshot copies the current scene without advancing time
func (s *Session) Snapshot() scene.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// NextFrame advances the simulated clock by dt, moves the planet and returns
// the frame to render. A zoom in flight is reported in this frame's snapshot
// and then settled.
func (s *Session) NextFrame(dt float64) FrameRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elapsed += dt
	req := FrameRequest{
		Number:   s.frame,
		Time:     s.elapsed,
		Width:    s.width,
		Height:   s.height,
		Snapshot: s.snapshotLocked(),
	}
	s.frame++
	s.controller.Settle()
	return req
}

func (s *Session) snapshotLocked() scene.Snapshot {
	state := s.propagator.At(s.elapsed)
	return scene.Snapshot{
		Camera: s.controller.Camera(),
		Disk:   s.disk,
		Planet: scene.Planet{
			Position: state.Position,
			Radius:   s.planetRadius,
		},
		Background: s.background,
	}
}
