package renderer

import (
	"context"
	"image"

	"github.com/df07/go-blackhole-raytracer/pkg/geodesic"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
	"github.com/df07/go-blackhole-raytracer/pkg/shading"
)

// TileRenderer traces and shades the pixels of individual tiles
type TileRenderer struct {
	tracer geodesic.Tracer
	shader shading.Shader
}

// NewTileRenderer creates a new tile renderer with the given tracer and shader
func NewTileRenderer(tracer geodesic.Tracer, shader shading.Shader) *TileRenderer {
	return &TileRenderer{
		tracer: tracer,
		shader: shader,
	}
}

// RenderTileBounds renders pixels within bounds into img. Each pixel reads only
// the snapshot and writes only its own location, so tiles may run concurrently.
// The context is checked between rows; a cancelled tile is left partially drawn.
func (tr *TileRenderer) RenderTileBounds(ctx context.Context, snap *scene.Snapshot, bounds image.Rectangle, img *image.RGBA) (FrameStats, error) {
	var stats FrameStats
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			result := tr.tracer.TracePixel(snap, x, y, width, height)
			img.SetRGBA(x, y, shading.ToRGBA(tr.shader.Shade(result, snap)))
			stats.Record(result)
		}
	}

	stats.finalize()
	return stats, nil
}
