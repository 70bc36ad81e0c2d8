package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/geodesic"
	"github.com/df07/go-blackhole-raytracer/pkg/renderer"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
	"github.com/df07/go-blackhole-raytracer/pkg/shading"
)

// Viewport limits accepted from clients
const (
	MinViewport = 16
	MaxViewport = 2000
)

// Config configures the web server and the session it serves
type Config struct {
	Port          int
	Scene         scene.Config
	Background    scene.Background
	Width         int           // Initial viewport width
	Height        int           // Initial viewport height
	FrameInterval time.Duration // Minimum time between streamed frames
	TimeStep      float64       // Simulated seconds per frame
	Frame         renderer.FrameConfig
	Logger        core.Logger // Server-wide scene and camera log; stdout when nil
}

// DefaultConfig returns the server defaults: an 800x600 view at up to 30 frames per second
func DefaultConfig() Config {
	return Config{
		Port:          8080,
		Scene:         scene.DefaultConfig(),
		Background:    shading.NewStarField(2048, 1024, 1),
		Width:         800,
		Height:        600,
		FrameInterval: time.Second / 30,
		TimeStep:      1.0 / 30.0,
		Frame:         renderer.DefaultFrameConfig(),
	}
}

// Server handles web requests for the black hole viewer
type Server struct {
	config  Config
	session *renderer.Session
	tracer  geodesic.Tracer
	shader  shading.Shader
}

// NewServer creates a new web server with a fresh session
func NewServer(config Config) (*Server, error) {
	session, err := renderer.NewSession(config.Scene, config.Background, config.Width, config.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if config.Logger == nil {
		config.Logger = renderer.NewDefaultLogger()
	}
	session.SetLogger(config.Logger)
	session.LogScene()
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}

	return &Server{
		config:  config,
		session: session,
		tracer:  geodesic.DefaultTracer(),
		shader:  shading.DefaultShader(),
	}, nil
}

// Handler returns the HTTP handler with all API routes registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stream", s.handleStream)
	mux.HandleFunc("/api/input", s.handleInput)
	mux.HandleFunc("/api/resize", s.handleResize)
	mux.HandleFunc("/api/camera", s.handleCamera)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
