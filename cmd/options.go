package cmd

import (
	"fmt"
	"math"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/integrator"
	"github.com/df07/go-raydiance/pkg/loaders"
	"github.com/df07/go-raydiance/pkg/renderer"
	"github.com/df07/go-raydiance/pkg/scene"
	"github.com/urfave/cli"
)

// loadScene builds the requested built-in scene and applies the sky and
// texture overrides given on the command line
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	s, err := scene.Builtin(ctx.String("scene"))
	if err != nil {
		return nil, err
	}

	if model := ctx.String("sky"); model != "" {
		s.SkyModel = model
	}
	if ctx.IsSet("sun-elevation") {
		s.Sky.Elevation = ctx.Float64("sun-elevation") * math.Pi / 180
	}
	if ctx.IsSet("sun-azimuth") {
		s.Sky.Azimuth = ctx.Float64("sun-azimuth") * math.Pi / 180
	}
	if ctx.IsSet("turbidity") {
		s.Sky.Turbidity = ctx.Float64("turbidity")
	}

	if path := ctx.String("texture"); path != "" {
		space, err := loaders.ParseColorSpace(ctx.String("texture-space"))
		if err != nil {
			return nil, err
		}
		tex, err := loaders.LoadTexture(path, space)
		if err != nil {
			return nil, err
		}
		logger.Infof("loaded %dx%d texture %q from %s", tex.Width, tex.Height, tex.Name, path)
		s.ApplyBaseColorTexture(tex)
	}

	return s, nil
}

// rendererConfig translates the render flags into a renderer configuration
func rendererConfig(ctx *cli.Context) (renderer.Config, error) {
	config := renderer.DefaultConfig()
	config.Width = ctx.Int("width")
	config.Height = ctx.Int("height")
	config.TileSize = ctx.Int("tile-size")
	config.NumWorkers = ctx.Int("workers")
	config.MaxBounces = ctx.Int("bounces")
	config.MaxSamplesPerPixel = ctx.Int("spp")
	config.MaxPasses = ctx.Int("passes")
	config.SamplesPerPass = ctx.Int("samples-per-pass")
	config.AuxBuffers = ctx.Bool("aux")
	config.Seed = ctx.Uint64("seed")

	var err error
	if config.Hemisphere, err = core.ParseHemisphereSampler(ctx.String("hemisphere")); err != nil {
		return config, err
	}
	if config.Visualization, err = integrator.ParseVisualization(ctx.String("mode")); err != nil {
		return config, err
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid render options: %w", err)
	}
	return config, nil
}
