package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
	"github.com/df07/go-blackhole-raytracer/pkg/geodesic"
	"github.com/df07/go-blackhole-raytracer/pkg/loaders"
	"github.com/df07/go-blackhole-raytracer/pkg/renderer"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
	"github.com/df07/go-blackhole-raytracer/pkg/shading"
)

// Options holds the command line configuration
type Options struct {
	Width              int
	Height             int
	Frames             int
	TimeStep           float64 // Simulated seconds between frames
	Distance           float64 // Camera distance in Schwarzschild radii (0 = default)
	Azimuth            float64 // Degrees
	Polar              float64 // Degrees
	VFov               float64 // Degrees
	Background         string
	MaxBackgroundWidth int
	Workers            int
	OutputDir          string
}

func main() {
	opts := Options{}
	flag.IntVar(&opts.Width, "width", 800, "Image width")
	flag.IntVar(&opts.Height, "height", 600, "Image height")
	flag.IntVar(&opts.Frames, "frames", 1, "Number of frames to render")
	flag.Float64Var(&opts.TimeStep, "dt", 1.0/30.0, "Simulated seconds between frames")
	flag.Float64Var(&opts.Distance, "distance", 0, "Camera distance in Schwarzschild radii (0 = default)")
	flag.Float64Var(&opts.Azimuth, "azimuth", 0, "Camera azimuth around +Y in degrees")
	flag.Float64Var(&opts.Polar, "polar", math.NaN(), "Camera angle from +Y in degrees (default 95.1)")
	flag.Float64Var(&opts.VFov, "fov", 60, "Vertical field of view in degrees")
	flag.StringVar(&opts.Background, "background", "", "Equirectangular background image; procedural star field if empty")
	flag.IntVar(&opts.MaxBackgroundWidth, "background-max-width", 4096, "Downscale wider backgrounds to this width")
	flag.IntVar(&opts.Workers, "workers", 0, "Number of parallel workers (0 = use CPU count)")
	flag.StringVar(&opts.OutputDir, "output", "output", "Directory for rendered frames")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Black Hole Raytracer")
		fmt.Println("Usage: blackhole [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Output will be saved to <output>/frame_<number>.png")
		return
	}

	fmt.Println("Starting Black Hole Raytracer...")

	files, err := renderFrames(context.Background(), opts, renderer.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved %d frame(s) to %s\n", len(files), opts.OutputDir)
}

// buildConfig applies the command line overrides to the default scene
func buildConfig(opts Options) (scene.Config, error) {
	config := scene.DefaultConfig()

	if opts.Distance > 0 {
		config.Camera.Radius = opts.Distance * core.SagARs
	}
	config.Camera.Azimuth = opts.Azimuth * math.Pi / 180.0
	if !math.IsNaN(opts.Polar) {
		config.Camera.Polar = opts.Polar * math.Pi / 180.0
	}
	if opts.VFov > 0 {
		config.Camera.VFov = opts.VFov
	}

	if err := config.Validate(); err != nil {
		return scene.Config{}, err
	}
	return config, nil
}

// loadBackground loads the background image, or generates a star field
func loadBackground(path string, maxWidth int) (scene.Background, error) {
	if path == "" {
		return shading.NewStarField(2048, 1024, 1), nil
	}
	env, err := loaders.LoadEnvironment(path, maxWidth)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// renderFrames renders opts.Frames consecutive frames and writes them as PNG files
func renderFrames(ctx context.Context, opts Options, logger core.Logger) ([]string, error) {
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", opts.Frames)
	}

	config, err := buildConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	background, err := loadBackground(opts.Background, opts.MaxBackgroundWidth)
	if err != nil {
		return nil, err
	}

	session, err := renderer.NewSession(config, background, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	frameConfig := renderer.DefaultFrameConfig()
	frameConfig.NumWorkers = opts.Workers
	frameRenderer := renderer.NewFrameRenderer(geodesic.DefaultTracer(), shading.DefaultShader(), frameConfig, logger)
	defer frameRenderer.Close()

	session.SetLogger(logger)
	session.LogScene()
	logger.Printf("%s\n", session.CameraInfo())

	var files []string
	for i := 0; i < opts.Frames; i++ {
		// The first frame shows the scene at t = 0
		dt := opts.TimeStep
		if i == 0 {
			dt = 0
		}
		req := session.NextFrame(dt)

		startTime := time.Now()
		img, stats, err := frameRenderer.Render(ctx, &req.Snapshot, req.Width, req.Height)
		if err != nil {
			return files, fmt.Errorf("frame %d: %w", req.Number, err)
		}

		logger.Printf("Frame %d (t=%.3fs) rendered in %v: %d escaped, %d black hole, %d disk, %d planet, %.1f steps/ray\n",
			req.Number, req.Time, time.Since(startTime),
			stats.Escaped, stats.BlackHole, stats.Disk, stats.Planet, stats.AverageSteps)

		filename := filepath.Join(opts.OutputDir, fmt.Sprintf("frame_%04d.png", req.Number))
		if err := savePNG(filename, img); err != nil {
			return files, err
		}
		files = append(files, filename)
	}

	return files, nil
}

func savePNG(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return nil
}
