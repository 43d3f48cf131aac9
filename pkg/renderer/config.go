package renderer

import (
	"fmt"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/integrator"
)

// Config is the immutable configuration of a progressive renderer
type Config struct {
	// Frame dims.
	Width  int
	Height int

	TileSize   int // Edge length of the square tiles handed to workers
	NumWorkers int // Parallel workers (0 = one per physical core)

	MaxBounces    int // Scattering events per path
	Hemisphere    core.HemisphereSampler
	Visualization integrator.Visualization

	SamplesPerPass     int // Samples per pixel per interactive pass
	InitialSamples     int // Samples for the first progressive pass
	MaxSamplesPerPixel int // Total samples at which progressive rendering stops
	MaxPasses          int // Passes in the progressive schedule

	AuxBuffers bool   // Accumulate first-hit normals and texcoords alongside radiance
	Seed       uint64 // Base of every per-pixel random stream
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:              400,
		Height:             225,
		TileSize:           16,
		NumWorkers:         0,
		MaxBounces:         5,
		Hemisphere:         core.CosineHemisphere,
		Visualization:      integrator.Shaded,
		SamplesPerPass:     1,
		InitialSamples:     1,
		MaxSamplesPerPixel: 64,
		MaxPasses:          7, // 1, then even steps up to 64
	}
}

// Validate reports the first out-of-range setting
func (c Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Width > 0 && c.Height > 0, fmt.Sprintf("frame size %dx%d must be positive", c.Width, c.Height)},
		{c.TileSize > 0, fmt.Sprintf("tile size %d must be positive", c.TileSize)},
		{c.NumWorkers >= 0, fmt.Sprintf("worker count %d must not be negative", c.NumWorkers)},
		{c.MaxBounces >= 0, fmt.Sprintf("max bounces %d must not be negative", c.MaxBounces)},
		{c.SamplesPerPass > 0, fmt.Sprintf("samples per pass %d must be positive", c.SamplesPerPass)},
		{c.InitialSamples > 0, fmt.Sprintf("initial samples %d must be positive", c.InitialSamples)},
		{c.MaxSamplesPerPixel >= c.InitialSamples, fmt.Sprintf("max samples per pixel %d below initial samples %d", c.MaxSamplesPerPixel, c.InitialSamples)},
		{c.MaxPasses > 0, fmt.Sprintf("max passes %d must be positive", c.MaxPasses)},
		{c.Visualization >= integrator.Shaded && c.Visualization <= integrator.TexCoords, fmt.Sprintf("unknown visualization %v", c.Visualization)},
		{c.Hemisphere == core.CosineHemisphere || c.Hemisphere == core.UniformHemisphere, fmt.Sprintf("unknown hemisphere sampler %v", c.Hemisphere)},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, check.msg)
		}
	}
	return nil
}

// integratorConfig returns the integrator settings carried by c
func (c Config) integratorConfig() integrator.Config {
	return integrator.Config{
		MaxBounces:    c.MaxBounces,
		Hemisphere:    c.Hemisphere,
		Visualization: c.Visualization,
	}
}
