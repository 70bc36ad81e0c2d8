package renderer

import (
	"testing"

	"github.com/df07/go-blackhole-raytracer/pkg/geodesic"
)

func TestFrameStats_RecordAndMerge(t *testing.T) {
	var a FrameStats
	a.Record(geodesic.Result{Outcome: geodesic.Escaped, Steps: 100})
	a.Record(geodesic.Result{Outcome: geodesic.HitBlackHole, Steps: 1, Plane: geodesic.FallbackPlane})

	var b FrameStats
	b.Record(geodesic.Result{Outcome: geodesic.HitDisk, Steps: 40})
	b.Record(geodesic.Result{Outcome: geodesic.HitPlanet, Steps: 259})

	a.Merge(b)
	a.finalize()

	if a.TotalPixels != 4 {
		t.Errorf("Expected 4 pixels, got %d", a.TotalPixels)
	}
	if a.Escaped != 1 || a.BlackHole != 1 || a.Disk != 1 || a.Planet != 1 {
		t.Errorf("Expected one of each outcome, got %+v", a)
	}
	if a.Fallback != 1 {
		t.Errorf("Expected 1 fallback ray, got %d", a.Fallback)
	}
	if a.MaxSteps != 259 {
		t.Errorf("Expected max steps 259, got %d", a.MaxSteps)
	}
	if a.AverageSteps != 100 {
		t.Errorf("Expected average steps 100, got %f", a.AverageSteps)
	}
}

func TestFrameStats_Empty(t *testing.T) {
	var s FrameStats
	s.finalize()
	if s.AverageSteps != 0 {
		t.Errorf("Expected zero average for an empty frame, got %f", s.AverageSteps)
	}
}
