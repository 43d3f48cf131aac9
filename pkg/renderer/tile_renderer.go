package renderer

import (
	"image"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/integrator"
)

// TileRenderer renders tiles into a frame buffer. Each worker owns one, so
// its sampler and traversal counters are never shared.
type TileRenderer struct {
	sampler *core.RandomSampler
	stats   core.TraversalStats
}

// NewTileRenderer creates a tile renderer with its own sampler
func NewTileRenderer() *TileRenderer {
	return &TileRenderer{sampler: core.NewRandomSampler(0, 0)}
}

// renderJob is everything a tile needs from the renderer for one pass
type renderJob struct {
	integrator integrator.Integrator
	camera     *Camera
	buffer     *FrameBuffer
	samples    int
	seed       uint64
	aux        bool
}

// RenderTileBounds adds job.samples samples to every pixel inside bounds.
// Sample indices continue from each pixel's current count, so the result
// does not depend on how the samples are split into passes.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, job renderJob) {
	width := job.buffer.Width
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := job.buffer.pixel(x, y)
			shift := tr.pixelShift(x, y, width, job.seed)
			start := ps.SampleCount

			for i := start; i < start+job.samples; i++ {
				tr.sampler.Reseed(core.PixelSeed(x, y, width, i, job.seed))
				jitter := core.CranleyPatterson(core.Halton2D(i), shift)
				ray := job.camera.GetRay(x, y, jitter)
				ps.AddResult(job.integrator.Li(ray, tr.sampler, &tr.stats), job.aux)
			}
		}
	}
}

// pixelShift draws the pixel's constant Cranley-Patterson offset from a stream
// that no sample index uses
func (tr *TileRenderer) pixelShift(x, y, width int, seed uint64) core.Vec2 {
	seed1, _ := core.PixelSeed(x, y, width, 0, seed)
	tr.sampler.Reseed(seed1, ^seed1)
	return tr.sampler.Get2D()
}

// TakeStats returns the traversal counters collected since the last call
func (tr *TileRenderer) TakeStats() core.TraversalStats {
	stats := tr.stats
	tr.stats = core.TraversalStats{}
	return stats
}
