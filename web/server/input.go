package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
)

// InputEvent is a pointer or wheel event forwarded from the browser
type InputEvent struct {
	Type   string  `json:"type"` // "down", "up", "move", "wheel"
	Button int     `json:"button"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

// CameraResponse is the diagnostics view of the camera
type CameraResponse struct {
	Info     string     `json:"info"`
	Position [3]float64 `json:"position"`
	Radius   float64    `json:"radius"`   // Physical units
	RadiusRs float64    `json:"radiusRs"` // In Schwarzschild radii
	Moving   bool       `json:"moving"`
	Time     float64    `json:"time"` // Simulated seconds
	Width    int        `json:"width"`
	Height   int        `json:"height"`
}

// InspectResponse describes how the ray through one pixel terminated
type InspectResponse struct {
	Outcome   string     `json:"outcome"`
	Plane     string     `json:"plane"`
	Steps     int        `json:"steps"`
	Direction [3]float64 `json:"direction"`
	Position  [3]float64 `json:"position"`
	Normal    [3]float64 `json:"normal"`
}

// handleInput applies one input event to the session camera
func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("input requires POST"))
		return
	}

	var event InputEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid input event: %w", err))
		return
	}

	switch event.Type {
	case "down":
		s.session.PointerDown(event.Button, event.X, event.Y)
	case "up":
		s.session.PointerUp(event.Button)
	case "move":
		s.session.PointerMove(event.X, event.Y)
	case "wheel":
		s.session.Wheel(event.DeltaY)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown input type: %q", event.Type))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleResize changes the viewport of the session
func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	currentWidth, currentHeight := s.session.Viewport()

	width, err := parseIntParam(query, "width", currentWidth, MinViewport, MaxViewport)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	height, err := parseIntParam(query, "height", currentHeight, MinViewport, MaxViewport)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.session.Resize(width, height); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"width": width, "height": height})
}

// handleCamera returns the camera diagnostics summary
func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	width, height := s.session.Viewport()
	pos := snap.Camera.Position

	writeJSON(w, http.StatusOK, CameraResponse{
		Info:     s.session.CameraInfo(),
		Position: vecArray(pos),
		Radius:   pos.Length(),
		RadiusRs: pos.Length() / core.SagARs,
		Moving:   snap.Camera.Moving,
		Time:     s.session.Elapsed(),
		Width:    width,
		Height:   height,
	})
}

// handleInspect traces a single pixel of the current view and reports the outcome
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	width, height := s.session.Viewport()
	query := r.URL.Query()

	x, err := parseIntParam(query, "x", width/2, 0, width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	y, err := parseIntParam(query, "y", height/2, 0, height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap := s.session.Snapshot()
	result := s.tracer.TracePixel(&snap, x, y, width, height)

	writeJSON(w, http.StatusOK, InspectResponse{
		Outcome:   result.Outcome.String(),
		Plane:     result.Plane.String(),
		Steps:     result.Steps,
		Direction: vecArray(result.Direction),
		Position:  vecArray(result.Position),
		Normal:    vecArray(result.Normal),
	})
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
