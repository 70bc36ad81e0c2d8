package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/df07/go-blackhole-raytracer/pkg/geodesic"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
	"github.com/df07/go-blackhole-raytracer/pkg/shading"
)

// silentLogger discards render progress output in tests
type silentLogger struct{}

func (silentLogger) Printf(format string, args ...interface{}) {}

// recordingLogger keeps every formatted line for inspection
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func (r *recordingLogger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

func newTestSession(t *testing.T, width, height int) *Session {
	t.Helper()
	session, err := NewSession(scene.DefaultConfig(), shading.NewStarField(64, 32, 7), width, height)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return session
}

func newTestRenderer(t *testing.T, config FrameConfig) *FrameRenderer {
	t.Helper()
	fr := NewFrameRenderer(geodesic.DefaultTracer(), shading.DefaultShader(), config, silentLogger{})
	t.Cleanup(fr.Close)
	return fr
}

func TestFrameConfig(t *testing.T) {
	config := DefaultFrameConfig()

	if config.TileSize != 32 {
		t.Errorf("Expected default tile size 32, got %d", config.TileSize)
	}
	if config.NumWorkers != 0 {
		t.Errorf("Expected auto-detected worker count, got %d", config.NumWorkers)
	}
	if config.MotionScale != 2 {
		t.Errorf("Expected default motion scale 2, got %d", config.MotionScale)
	}
}

func TestNewFrameRenderer_Workers(t *testing.T) {
	tests := []struct {
		name       string
		numWorkers int
		want       int
	}{
		{"explicit", 3, 3},
		{"auto detect", 0, runtime.NumCPU()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			config := DefaultFrameConfig()
			config.NumWorkers = tt.numWorkers

			fr := NewFrameRenderer(geodesic.DefaultTracer(), shading.DefaultShader(), config, logger)
			defer fr.Close()

			if got := fr.workerPool.GetNumWorkers(); got != tt.want {
				t.Errorf("Expected %d workers, got %d", tt.want, got)
			}
			if !logger.contains(fmt.Sprintf("%d workers, 32px tiles", tt.want)) {
				t.Errorf("Expected worker count in log, got %v", logger.lines)
			}
		})
	}
}

func TestNewTileGrid(t *testing.T) {
	// Test tile grid generation for a 400x225 image with 64x64 tiles
	width, height, tileSize := 400, 225, 64
	tiles := NewTileGrid(width, height, tileSize)

	expectedTilesX := (width + tileSize - 1) / tileSize   // 7 tiles
	expectedTilesY := (height + tileSize - 1) / tileSize  // 4 tiles
	expectedTotalTiles := expectedTilesX * expectedTilesY // 28 tiles

	if len(tiles) != expectedTotalTiles {
		t.Errorf("Expected %d tiles, got %d", expectedTotalTiles, len(tiles))
	}

	// Test that tiles cover the entire image without gaps or overlaps
	covered := make([][]bool, height)
	for y := range covered {
		covered[y] = make([]bool, width)
	}

	for _, tile := range tiles {
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				if x >= width || y >= height {
					t.Errorf("Tile %d extends beyond image bounds at (%d,%d)", tile.ID, x, y)
				}
				if covered[y][x] {
					t.Errorf("Pixel (%d,%d) is covered by multiple tiles", x, y)
				}
				covered[y][x] = true
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !covered[y][x] {
				t.Errorf("Pixel (%d,%d) is not covered by any tile", x, y)
			}
		}
	}
}

func TestFrameRenderer_MatchesSequentialTrace(t *testing.T) {
	const width, height = 40, 30
	session := newTestSession(t, width, height)
	snap := session.Snapshot()

	fr := newTestRenderer(t, FrameConfig{TileSize: 7, NumWorkers: 4, MotionScale: 2})
	img, stats, err := fr.Render(context.Background(), &snap, width, height)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if img.Bounds() != image.Rect(0, 0, width, height) {
		t.Fatalf("Expected %dx%d image, got %v", width, height, img.Bounds())
	}

	// Parallel tiles must produce exactly what a single loop would
	tracer := geodesic.DefaultTracer()
	shader := shading.DefaultShader()
	expected := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			result := tracer.TracePixel(&snap, x, y, width, height)
			expected.SetRGBA(x, y, shading.ToRGBA(shader.Shade(result, &snap)))
		}
	}
	if !bytes.Equal(img.Pix, expected.Pix) {
		t.Error("Expected parallel render to match sequential trace")
	}

	if stats.TotalPixels != width*height {
		t.Errorf("Expected %d pixels traced, got %d", width*height, stats.TotalPixels)
	}
	if sum := stats.Escaped + stats.BlackHole + stats.Disk + stats.Planet; sum != stats.TotalPixels {
		t.Errorf("Expected outcome counts to sum to %d, got %d", stats.TotalPixels, sum)
	}
	if stats.BlackHole == 0 {
		t.Error("Expected the default view to show the black hole")
	}
	if stats.Scale != 1 {
		t.Errorf("Expected full resolution for a still camera, got scale %d", stats.Scale)
	}
	if stats.AverageSteps <= 0 || stats.AverageSteps > float64(tracer.Steps) {
		t.Errorf("Expected average steps in (0, %d], got %f", tracer.Steps, stats.AverageSteps)
	}
}

func TestFrameRenderer_MotionScale(t *testing.T) {
	const width, height = 40, 30
	session := newTestSession(t, width, height)
	snap := session.Snapshot()
	snap.Camera.Moving = true

	fr := newTestRenderer(t, FrameConfig{TileSize: 16, NumWorkers: 2, MotionScale: 2})
	img, stats, err := fr.Render(context.Background(), &snap, width, height)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if img.Bounds() != image.Rect(0, 0, width, height) {
		t.Errorf("Expected upscaled %dx%d image, got %v", width, height, img.Bounds())
	}
	if stats.Scale != 2 {
		t.Errorf("Expected scale 2 while moving, got %d", stats.Scale)
	}
	if stats.TotalPixels != (width/2)*(height/2) {
		t.Errorf("Expected %d traced pixels, got %d", (width/2)*(height/2), stats.TotalPixels)
	}
}

func TestFrameRenderer_Cancellation(t *testing.T) {
	const width, height = 32, 24
	session := newTestSession(t, width, height)
	snap := session.Snapshot()
	fr := newTestRenderer(t, FrameConfig{TileSize: 8, NumWorkers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := fr.Render(ctx, &snap, width, height); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	// An abandoned frame must not affect the next one
	img, stats, err := fr.Render(context.Background(), &snap, width, height)
	if err != nil {
		t.Fatalf("Render after cancellation failed: %v", err)
	}
	if img == nil || stats.TotalPixels != width*height {
		t.Errorf("Expected a complete frame after cancellation, got %d pixels", stats.TotalPixels)
	}
}

func TestFrameRenderer_Errors(t *testing.T) {
	snap := newTestSession(t, 8, 8).Snapshot()
	fr := NewFrameRenderer(geodesic.DefaultTracer(), shading.DefaultShader(), DefaultFrameConfig(), silentLogger{})

	if _, _, err := fr.Render(context.Background(), &snap, 0, 10); err == nil {
		t.Error("Expected error for zero width")
	}

	fr.Close()
	fr.Close() // Closing twice is a no-op

	if _, _, err := fr.Render(context.Background(), &snap, 8, 8); err == nil {
		t.Error("Expected error rendering with a closed renderer")
	}
}

func TestFrameRenderer_RenderLoop(t *testing.T) {
	session := newTestSession(t, 16, 12)
	fr := newTestRenderer(t, FrameConfig{TileSize: 8, NumWorkers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const timeStep = 0.5
	frames, errs := fr.RenderLoop(ctx, session, time.Millisecond, timeStep)

	for want := 0; want < 3; want++ {
		select {
		case frame, ok := <-frames:
			if !ok {
				t.Fatalf("Frame channel closed early: %v", <-errs)
			}
			if frame.Number != want {
				t.Errorf("Expected frame %d, got %d", want, frame.Number)
			}
			if wantTime := timeStep * float64(want+1); frame.Time != wantTime {
				t.Errorf("Expected simulated time %.1f, got %.1f", wantTime, frame.Time)
			}
			if frame.Image.Bounds().Dx() != 16 || frame.Image.Bounds().Dy() != 12 {
				t.Errorf("Expected 16x12 frame, got %v", frame.Image.Bounds())
			}
		case <-time.After(30 * time.Second):
			t.Fatal("Timed out waiting for frame")
		}
	}

	cancel()
	for range frames {
	}
	if err, ok := <-errs; ok && err != nil {
		t.Errorf("Expected no error after cancellation, got %v", err)
	}
}
