package renderer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/geometry"
	"github.com/df07/go-raydiance/pkg/integrator"
	"github.com/df07/go-raydiance/pkg/material"
	"github.com/df07/go-raydiance/pkg/scene"
	"github.com/df07/go-raydiance/pkg/sky"
)

// ProgressiveRenderer accumulates samples into a frame buffer over repeated
// passes. Its methods must be called from one goroutine; each pass fans out
// to the worker pool internally.
type ProgressiveRenderer struct {
	world    *geometry.World
	textures []*material.Texture
	config   Config

	// Parameters that reset the accumulator when changed
	camera    *Camera
	materials []material.Material
	skyModel  string
	skyParams sky.Params
	tracer    *integrator.PathTracer

	tiles      []*Tile
	buffer     *FrameBuffer
	workerPool *WorkerPool
	pass       int
	last       RenderStats // Traversal counters and timing of the last pass
	closed     bool
	logger     core.Logger
}

// NewProgressiveRenderer creates a renderer for world, which must have been
// built from s. The worker pool is started immediately; call Close to stop it.
func NewProgressiveRenderer(world *geometry.World, s *scene.Scene, config Config, logger core.Logger) (*ProgressiveRenderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if world == nil {
		return nil, fmt.Errorf("%w: nil world", ErrInvalidConfig)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	pr := &ProgressiveRenderer{
		world:     world,
		textures:  s.Textures,
		config:    config,
		camera:    NewCamera(s.Camera, config.Width, config.Height),
		materials: slices.Clone(s.Materials),
		tiles:     NewTileGrid(config.Width, config.Height, config.TileSize),
		buffer:    NewFrameBuffer(config.Width, config.Height),
		logger:    logger,
	}
	if err := pr.setSky(s.SkyModel, s.Sky); err != nil {
		return nil, err
	}

	pr.workerPool = NewWorkerPool(config.NumWorkers, len(pr.tiles))
	pr.workerPool.Start()
	logger.Infof("renderer: %dx%d in %d tiles of %d px, %d workers, %d bounces, %s",
		config.Width, config.Height, len(pr.tiles), config.TileSize, pr.workerPool.GetNumWorkers(),
		config.MaxBounces, config.Visualization)
	return pr, nil
}

// Config returns the renderer's current configuration
func (pr *ProgressiveRenderer) Config() Config {
	return pr.config
}

// Tiles returns the tile grid
func (pr *ProgressiveRenderer) Tiles() []*Tile {
	return pr.tiles
}

// rebuildTracer binds the current materials, sky and settings to a new integrator
func (pr *ProgressiveRenderer) rebuildTracer(env *sky.Environment) {
	pr.tracer = integrator.NewPathTracer(pr.world, pr.materials, pr.textures, env, pr.config.integratorConfig())
}

func (pr *ProgressiveRenderer) setSky(model string, params sky.Params) error {
	radiance, err := sky.Lookup(model)
	if err != nil {
		return err
	}
	env, err := sky.NewEnvironment(radiance, params)
	if err != nil {
		return err
	}
	pr.skyModel = model
	pr.skyParams = params
	pr.rebuildTracer(env)
	return nil
}

func (pr *ProgressiveRenderer) job(samples int) renderJob {
	return renderJob{
		integrator: pr.tracer,
		camera:     pr.camera,
		buffer:     pr.buffer,
		samples:    samples,
		seed:       pr.config.Seed,
		aux:        pr.config.AuxBuffers,
	}
}

// RenderPass adds samples samples to every pixel and returns the updated
// frame. It blocks until every tile is done.
func (pr *ProgressiveRenderer) RenderPass(samples int) (*Frame, error) {
	if pr.closed {
		return nil, ErrClosed
	}
	if samples <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrZeroSampleBudget, samples)
	}

	start := time.Now()
	job := pr.job(samples)
	for i, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{Tile: tile, TaskID: i, job: job})
	}

	// Wait for all tiles to complete
	last := RenderStats{}
	for range pr.tiles {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, fmt.Errorf("renderer: worker pool closed unexpectedly")
		}
		pr.tiles[result.TaskID].PassesCompleted++
		last.addTraversal(result.Stats)
	}

	pr.pass++
	last.PassTime = time.Since(start)
	pr.last = last

	frame := pr.Frame()
	pr.logger.Debugf("pass %d: %d samples/pixel in %v, %d rays", pr.pass, frame.SampleCount, last.PassTime, last.Rays)
	return frame, nil
}

// RenderTile adds samples samples to the pixels of one tile, on the caller's goroutine
func (pr *ProgressiveRenderer) RenderTile(id, samples int) error {
	if pr.closed {
		return ErrClosed
	}
	if id < 0 || id >= len(pr.tiles) {
		return fmt.Errorf("%w: %d (have %d)", ErrTileOutOfRange, id, len(pr.tiles))
	}
	if samples <= 0 {
		return fmt.Errorf("%w: got %d", ErrZeroSampleBudget, samples)
	}

	tr := NewTileRenderer()
	tr.RenderTileBounds(pr.tiles[id].Bounds, pr.job(samples))
	pr.tiles[id].PassesCompleted++
	return nil
}

// SetCamera moves the camera and resets the accumulator
func (pr *ProgressiveRenderer) SetCamera(c scene.Camera) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %v", scene.ErrInvalidScene, err)
	}
	pr.camera = NewCamera(c, pr.config.Width, pr.config.Height)
	pr.Reset()
	return nil
}

// SetMaterials replaces the material table and resets the accumulator.
// The table must keep every index the world's triangles refer to.
func (pr *ProgressiveRenderer) SetMaterials(materials []material.Material) error {
	if len(materials) < len(pr.materials) {
		return fmt.Errorf("%w: %d materials, scene uses %d", scene.ErrInvalidScene, len(materials), len(pr.materials))
	}
	for _, m := range materials {
		if err := m.Validate(len(pr.textures)); err != nil {
			return fmt.Errorf("%w: %v", scene.ErrInvalidScene, err)
		}
	}
	pr.materials = slices.Clone(materials)
	pr.rebuildTracer(pr.tracerEnv())
	pr.Reset()
	return nil
}

// SetSky switches the sky model and parameters and resets the accumulator
func (pr *ProgressiveRenderer) SetSky(model string, params sky.Params) error {
	if err := pr.setSky(model, params); err != nil {
		return err
	}
	pr.Reset()
	return nil
}

// SetVisualization switches the visualization mode and resets the accumulator
func (pr *ProgressiveRenderer) SetVisualization(v integrator.Visualization) error {
	config := pr.config
	config.Visualization = v
	if err := config.Validate(); err != nil {
		return err
	}
	pr.config = config
	pr.rebuildTracer(pr.tracerEnv())
	pr.Reset()
	return nil
}

func (pr *ProgressiveRenderer) tracerEnv() *sky.Environment {
	return pr.tracer.Environment()
}

// Materials returns a copy of the current material table
func (pr *ProgressiveRenderer) Materials() []material.Material {
	return slices.Clone(pr.materials)
}

// Sky returns the current sky model and parameters
func (pr *ProgressiveRenderer) Sky() (string, sky.Params) {
	return pr.skyModel, pr.skyParams
}

// Reset discards every accumulated sample
func (pr *ProgressiveRenderer) Reset() {
	pr.buffer.Reset()
	pr.pass = 0
	pr.last = RenderStats{}
	for _, tile := range pr.tiles {
		tile.PassesCompleted = 0
	}
}

// Frame returns a snapshot of the accumulated image
func (pr *ProgressiveRenderer) Frame() *Frame {
	return newFrame(pr.buffer, pr.config.AuxBuffers, pr.pass)
}

// PixelStats returns the accumulator of one pixel
func (pr *ProgressiveRenderer) PixelStats(x, y int) (PixelStats, error) {
	return pr.buffer.At(x, y)
}

// Stats returns sample statistics of the accumulated image and the
// traversal counters of the last pass
func (pr *ProgressiveRenderer) Stats() RenderStats {
	stats := pr.buffer.Stats()
	stats.Pass = pr.pass
	stats.Rays = pr.last.Rays
	stats.BoxTests = pr.last.BoxTests
	stats.BoxHits = pr.last.BoxHits
	stats.TriangleTests = pr.last.TriangleTests
	stats.TriangleHits = pr.last.TriangleHits
	stats.PassTime = pr.last.PassTime
	return stats
}

// Close stops the worker pool. Further passes fail with ErrClosed.
func (pr *ProgressiveRenderer) Close() {
	if pr.closed {
		return
	}
	pr.closed = true
	pr.workerPool.Stop()
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRenderer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// For the final pass, use all remaining samples
	if passNumber == pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Frame      *Frame
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive runs the pass schedule on its own goroutine and streams
// each pass's frame. Cancellation is checked between passes. Both channels
// are closed when rendering stops; the error channel carries at most one error.
func (pr *ProgressiveRenderer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		pr.logger.Infof("starting progressive rendering: %d passes up to %d samples/pixel", pr.config.MaxPasses, pr.config.MaxSamplesPerPixel)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Noticef("rendering cancelled before pass %d", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			current := pr.buffer.Stats().MinSamples
			samples := pr.getSamplesForPass(pass) - current
			if samples <= 0 {
				continue
			}

			frame, err := pr.RenderPass(samples)
			if err != nil {
				errChan <- err
				return
			}
			stats := pr.Stats()
			pr.logger.Infof("pass %d completed in %v (%d samples/pixel)", pass, stats.PassTime, frame.SampleCount)

			isLast := pass == pr.config.MaxPasses || frame.SampleCount >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Frame: frame, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				return
			}
		}
	}()

	return passChan, errChan
}
