package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-blackhole-raytracer/pkg/renderer"
)

// SSEEvent represents a single Server-Sent Event
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "error"
	Data string `json:"data"` // JSON-encoded data
}

// FrameUpdate is one rendered frame sent via SSE
type FrameUpdate struct {
	Frame     int     `json:"frame"`
	Time      float64 `json:"time"` // Simulated seconds
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	ImageData string  `json:"imageData"` // Base64 encoded PNG
	Stats     Stats   `json:"stats"`
	ElapsedMs int64   `json:"elapsedMs"`
}

// Stats represents frame statistics
type Stats struct {
	TotalPixels  int     `json:"totalPixels"`
	Escaped      int     `json:"escaped"`
	BlackHole    int     `json:"blackHole"`
	Disk         int     `json:"disk"`
	Planet       int     `json:"planet"`
	AverageSteps float64 `json:"averageSteps"`
	MaxSteps     int     `json:"maxSteps"`
	Scale        int     `json:"scale"`
	RenderMs     int64   `json:"renderMs"`
}

// StreamRequest holds the validated stream parameters
type StreamRequest struct {
	FPS      int
	TimeStep float64
}

// handleStream renders frames continuously and streams them via SSE until
// the client disconnects. The handler goroutine is the only writer to w.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	req, err := s.parseStreamRequest(r)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()

	frameRenderer := renderer.NewFrameRenderer(s.tracer, s.shader, s.config.Frame, webLogger)
	defer frameRenderer.Close()

	webLogger.Printf("Streaming at up to %d fps, %.4f simulated s per frame\n", req.FPS, req.TimeStep)

	startTime := time.Now()
	interval := time.Second / time.Duration(req.FPS)
	budget := &frameBudget{interval: interval}
	frameChan, errChan := frameRenderer.RenderLoop(ctx, s.session, interval, req.TimeStep)

	for {
		select {
		case frame, ok := <-frameChan:
			if !ok {
				if err := <-errChan; err != nil {
					s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", err)})
				}
				return
			}
			budget.check(webLogger, frame)
			event, err := s.frameEvent(frame, startTime)
			if err != nil {
				webLogger.FrameErrorf(frame.Number, "Failed to encode frame %d: %v\n", frame.Number, err)
				continue
			}
			if err := s.writeSSEEvent(w, event); err != nil {
				// Client disconnected during write
				return
			}

		case consoleMsg := <-consoleChan:
			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			if err := s.writeSSEEvent(w, SSEEvent{Type: "console", Data: string(data)}); err != nil {
				return
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// parseStreamRequest parses stream parameters
func (s *Server) parseStreamRequest(r *http.Request) (*StreamRequest, error) {
	defaultFPS := max(1, int(time.Second/s.config.FrameInterval))

	req := &StreamRequest{}
	var err error
	if req.FPS, err = parseIntParam(r.URL.Query(), "fps", defaultFPS, 1, 120); err != nil {
		return nil, err
	}
	if req.TimeStep, err = parseFloatParam(r.URL.Query(), "timeStep", s.config.TimeStep, 0, 3600); err != nil {
		return nil, err
	}
	return req, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a stream
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, *WebLogger) {
	consoleChan := make(chan ConsoleMessage, 50)
	streamID := fmt.Sprintf("stream-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(streamID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvent writes and flushes a single SSE event
func (s *Server) writeSSEEvent(w http.ResponseWriter, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// frameEvent encodes a rendered frame as an SSE event
func (s *Server) frameEvent(frame renderer.FrameResult, startTime time.Time) (SSEEvent, error) {
	imageData, err := s.imageToBase64PNG(frame.Image)
	if err != nil {
		return SSEEvent{}, err
	}

	bounds := frame.Image.Bounds()
	update := FrameUpdate{
		Frame:     frame.Number,
		Time:      frame.Time,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		ImageData: imageData,
		Stats: Stats{
			TotalPixels:  frame.Stats.TotalPixels,
			Escaped:      frame.Stats.Escaped,
			BlackHole:    frame.Stats.BlackHole,
			Disk:         frame.Stats.Disk,
			Planet:       frame.Stats.Planet,
			AverageSteps: frame.Stats.AverageSteps,
			MaxSteps:     frame.Stats.MaxSteps,
			Scale:        frame.Stats.Scale,
			RenderMs:     frame.Stats.Duration.Milliseconds(),
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	}

	data, err := json.Marshal(update)
	if err != nil {
		return SSEEvent{}, err
	}
	return SSEEvent{Type: "frame", Data: string(data)}, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
