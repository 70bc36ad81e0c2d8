package scene

import (
	"strings"
	"testing"

	"github.com/df07/go-blackhole-raytracer/pkg/core"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"inverted disk", func(c *Config) { c.Disk.InnerRadius, c.Disk.OuterRadius = c.Disk.OuterRadius, c.Disk.InnerRadius }, "disk radii"},
		{"negative thickness", func(c *Config) { c.Disk.Thickness = -1 }, "thickness"},
		{"min radius inside horizon", func(c *Config) { c.Camera.MinRadius = 0.5 * core.SagARs }, "event horizon"},
		{"radius outside zoom range", func(c *Config) { c.Camera.Radius = 2 * c.Camera.MaxRadius }, "camera radius"},
		{"zero fov", func(c *Config) { c.Camera.VFov = 0 }, "vfov"},
		{"hyperbolic orbit", func(c *Config) { c.Planet.Orbit.Eccentricity = 1.2 }, "eccentricity"},
		{"zero period", func(c *Config) { c.Planet.Orbit.Period = 0 }, "period"},
		{"zero planet radius", func(c *Config) { c.Planet.Radius = 0 }, "planet radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDiskNormalizedRadius(t *testing.T) {
	disk := DefaultConfig().NewDisk()

	if got := disk.NormalizedDiskRadius(disk.InnerRadius); got != 0 {
		t.Errorf("Expected 0 at inner radius, got %f", got)
	}
	if got := disk.NormalizedDiskRadius(disk.OuterRadius); got != 1 {
		t.Errorf("Expected 1 at outer radius, got %f", got)
	}
	if got := disk.NormalizedDiskRadius(0); got != 0 {
		t.Errorf("Expected clamp to 0 inside the disk, got %f", got)
	}
	if !disk.Contains((disk.InnerRadius + disk.OuterRadius) / 2) {
		t.Error("Expected mid radius to be on the disk")
	}
	if disk.Contains(disk.OuterRadius * 1.01) {
		t.Error("Expected radius beyond outer edge to miss the disk")
	}
}

func TestDiskInSlab(t *testing.T) {
	disk := Disk{InnerRadius: 10, OuterRadius: 20, Thickness: 2}

	tests := []struct {
		name  string
		disk  Disk
		point core.Vec3
		want  bool
	}{
		{"mid plane", disk, core.NewVec3(15, 0, 0), true},
		{"upper face", disk, core.NewVec3(0, 1, 15), true},
		{"lower face", disk, core.NewVec3(9, -1, 9), true},
		{"above slab", disk, core.NewVec3(15, 1.01, 0), false},
		{"inside inner radius", disk, core.NewVec3(5, 0, 0), false},
		{"beyond outer radius", disk, core.NewVec3(0, 0, 21), false},
		{"thin disk", Disk{InnerRadius: 10, OuterRadius: 20}, core.NewVec3(15, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.disk.InSlab(tt.point); got != tt.want {
				t.Errorf("InSlab(%v) = %t, want %t", tt.point, got, tt.want)
			}
		})
	}
}
