package renderer

import (
	"time"

	"github.com/df07/go-blackhole-raytracer/pkg/geodesic"
)

// FrameStats contains statistics about one rendered frame
type FrameStats struct {
	TotalPixels  int           // Number of pixels traced
	Escaped      int           // Rays that reached the background
	BlackHole    int           // Rays captured by the event horizon
	Disk         int           // Rays that hit the accretion disk
	Planet       int           // Rays that hit the planet
	Fallback     int           // Rays that needed the radial fallback plane
	TotalSteps   int           // Integration steps across all rays
	MaxSteps     int           // Most steps taken by a single ray
	AverageSteps float64       // Mean integration steps per ray
	Scale        int           // Downscale factor used for the trace (1 = full resolution)
	Duration     time.Duration // Wall time spent on the frame
}

// Record adds one traced ray to the statistics
func (s *FrameStats) Record(result geodesic.Result) {
	s.TotalPixels++
	s.TotalSteps += result.Steps
	s.MaxSteps = max(s.MaxSteps, result.Steps)

	switch result.Outcome {
	case geodesic.Escaped:
		s.Escaped++
	case geodesic.HitBlackHole:
		s.BlackHole++
	case geodesic.HitDisk:
		s.Disk++
	case geodesic.HitPlanet:
		s.Planet++
	}
	if result.Plane == geodesic.FallbackPlane {
		s.Fallback++
	}
}

// Merge folds the statistics of another tile into s
func (s *FrameStats) Merge(other FrameStats) {
	s.TotalPixels += other.TotalPixels
	s.Escaped += other.Escaped
	s.BlackHole += other.BlackHole
	s.Disk += other.Disk
	s.Planet += other.Planet
	s.Fallback += other.Fallback
	s.TotalSteps += other.TotalSteps
	s.MaxSteps = max(s.MaxSteps, other.MaxSteps)
}

// finalize calculates the derived statistics once all tiles are merged
func (s *FrameStats) finalize() {
	if s.TotalPixels == 0 {
		s.AverageSteps = 0
		return
	}
	s.AverageSteps = float64(s.TotalSteps) / float64(s.TotalPixels)
}
