package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/geodesic"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
	"github.com/df07/go-blackhole-raytracer/pkg/shading"
	xdraw "golang.org/x/image/draw"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// FrameConfig contains configuration for frame rendering
type FrameConfig struct {
	TileSize    int // Size of each tile (32x32 recommended)
	NumWorkers  int // Number of parallel workers (0 = use CPU count)
	MotionScale int // Trace at 1/MotionScale resolution while the camera moves (<= 1 disables)
}

// DefaultFrameConfig returns sensible default values
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		TileSize:    32,
		NumWorkers:  0, // Auto-detect CPU count
		MotionScale: 2,
	}
}

// FrameRenderer renders complete frames from immutable scene snapshots.
// Frames are independent: nothing is carried from one frame to the next.
type FrameRenderer struct {
	config       FrameConfig
	tileRenderer *TileRenderer
	workerPool   *WorkerPool
	logger       core.Logger

	mu     sync.Mutex // One frame in flight at a time
	closed bool
}

// NewFrameRenderer creates a frame renderer and starts its workers
func NewFrameRenderer(tracer geodesic.Tracer, shader shading.Shader, config FrameConfig, logger core.Logger) *FrameRenderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultFrameConfig().TileSize
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	tileRenderer := NewTileRenderer(tracer, shader)
	workerPool := NewWorkerPool(tileRenderer, config.NumWorkers)
	workerPool.Start()
	logger.Printf("Frame renderer: %d workers, %dpx tiles\n", workerPool.GetNumWorkers(), config.TileSize)

	return &FrameRenderer{
		config:       config,
		tileRenderer: tileRenderer,
		workerPool:   workerPool,
		logger:       logger,
	}
}

// Close stops the worker pool. The renderer cannot be used afterwards.
func (fr *FrameRenderer) Close() {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fr.closed {
		return
	}
	fr.closed = true
	fr.workerPool.Stop()
}

// Render traces every pixel of a width×height frame from snap. While the camera
// is moving the frame is traced at reduced resolution and scaled up.
// A cancelled context abandons the frame and returns ctx.Err().
func (fr *FrameRenderer) Render(ctx context.Context, snap *scene.Snapshot, width, height int) (*image.RGBA, FrameStats, error) {
	if width <= 0 || height <= 0 {
		return nil, FrameStats{}, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fr.closed {
		return nil, FrameStats{}, fmt.Errorf("frame renderer is closed")
	}

	startTime := time.Now()

	scale := 1
	if snap.Camera.Moving && fr.config.MotionScale > 1 {
		scale = fr.config.MotionScale
	}
	traceWidth := max(1, width/scale)
	traceHeight := max(1, height/scale)

	img, stats, err := fr.renderTiles(ctx, snap, traceWidth, traceHeight)
	if err != nil {
		return nil, FrameStats{}, err
	}

	if scale > 1 {
		full := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.ApproxBiLinear.Scale(full, full.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = full
	}

	stats.Scale = scale
	stats.Duration = time.Since(startTime)
	return img, stats, nil
}

// renderTiles dispatches one task per tile and waits for all of them
func (fr *FrameRenderer) renderTiles(ctx context.Context, snap *scene.Snapshot, width, height int) (*image.RGBA, FrameStats, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	tiles := NewTileGrid(width, height, fr.config.TileSize)

	// Submit from a separate goroutine so results can drain while tasks queue
	go func() {
		for taskID, tile := range tiles {
			fr.workerPool.SubmitTask(TileTask{
				Ctx:      ctx,
				Tile:     tile,
				TaskID:   taskID,
				Snapshot: snap,
				Image:    img,
			})
		}
	}()

	// Every task is acknowledged, even after cancellation, so no stale
	// result can leak into the next frame
	var stats FrameStats
	var firstErr error
	for i := 0; i < len(tiles); i++ {
		result, ok := fr.workerPool.GetResult()
		if !ok {
			return nil, FrameStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.Merge(result.Stats)
	}
	if firstErr != nil {
		return nil, FrameStats{}, firstErr
	}

	stats.finalize()
	return img, stats, nil
}

// FrameResult is one frame produced by RenderLoop
type FrameResult struct {
	Number int
	Time   float64 // Simulated time of the frame
	Image  *image.RGBA
	Stats  FrameStats
}

// RenderLoop renders frames from session continuously, advancing the simulated
// clock by timeStep per frame and starting at most one frame per interval.
// The frame channel is closed when ctx is cancelled or rendering fails.
func (fr *FrameRenderer) RenderLoop(ctx context.Context, session *Session, interval time.Duration, timeStep float64) (<-chan FrameResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			req := session.NextFrame(timeStep)
			img, stats, err := fr.Render(ctx, &req.Snapshot, req.Width, req.Height)
			if err != nil {
				if ctx.Err() == nil {
					errChan <- err
				}
				return
			}

			if req.Number%100 == 0 {
				fr.logger.Printf("Frame %d: %dx%d in %v (%.1f steps/ray, scale 1/%d)\n",
					req.Number, req.Width, req.Height, stats.Duration, stats.AverageSteps, stats.Scale)
			}

			select {
			case frameChan <- FrameResult{Number: req.Number, Time: req.Time, Image: img, Stats: stats}:
			case <-ctx.Done():
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return frameChan, errChan
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{ID: tileID, Bounds: image.Rect(x0, y0, x1, y1)})
			tileID++
		}
	}

	return tiles
}
