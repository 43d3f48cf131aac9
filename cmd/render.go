package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/df07/go-raydiance/pkg/geometry"
	"github.com/df07/go-raydiance/pkg/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame progressively, saving the image after the final pass.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}
	config, err := rendererConfig(ctx)
	if err != nil {
		return err
	}
	outDir, err := createOutputDir(ctx.String("out"), sc.Name)
	if err != nil {
		return err
	}

	world, err := geometry.NewWorld(sc, logger)
	if err != nil {
		return err
	}
	r, err := renderer.NewProgressiveRenderer(world, sc, config, logger)
	if err != nil {
		return err
	}
	defer r.Close()

	// Ctrl-C stops after the current pass and keeps what has been rendered
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering scene %q at %dx%d, up to %d samples/pixel", sc.Name, config.Width, config.Height, config.MaxSamplesPerPixel)
	start := time.Now()

	passes, errs := r.RenderProgressive(runCtx)
	var last *renderer.PassResult
	var passStats []renderer.RenderStats
	for result := range passes {
		logger.Infof("pass %d/%d: %d samples/pixel", result.PassNumber, config.MaxPasses, result.Frame.SampleCount)
		passStats = append(passStats, result.Stats)
		last = &result
	}
	if err := <-errs; err != nil && runCtx.Err() == nil {
		return err
	}
	if last == nil {
		return fmt.Errorf("rendering interrupted before the first pass completed")
	}

	displayFrameStats(passStats, time.Since(start))
	return saveFrame(last.Frame, outDir, ctx.Float64("exposure"), config.AuxBuffers)
}

// saveFrame writes the tonemapped image, plus the normal buffer when present
func saveFrame(frame *renderer.Frame, dir string, exposure float64, aux bool) error {
	now := time.Now()
	filename := outputFilename(dir, "render", now)
	if err := renderer.SavePNG(filename, renderer.ToImage(frame, exposure)); err != nil {
		return err
	}
	logger.Noticef("render saved as %s", filename)

	if !aux {
		return nil
	}
	img, err := renderer.AuxImage(frame)
	if err != nil {
		return err
	}
	filename = outputFilename(dir, "normals", now)
	if err := renderer.SavePNG(filename, img); err != nil {
		return err
	}
	logger.Noticef("normals saved as %s", filename)
	return nil
}

func displayFrameStats(passes []renderer.RenderStats, total time.Duration) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Samples/pixel", "Rays", "Box tests", "Triangle tests", "Invalid", "Pass time"})
	var rays uint64
	for _, stat := range passes {
		rays += stat.Rays
		table.Append([]string{
			fmt.Sprintf("%d", stat.Pass),
			fmt.Sprintf("%d", stat.MinSamples),
			fmt.Sprintf("%d", stat.Rays),
			fmt.Sprintf("%d", stat.BoxTests),
			fmt.Sprintf("%d", stat.TriangleTests),
			fmt.Sprintf("%d", stat.InvalidSamples),
			stat.PassTime.String(),
		})
	}
	table.SetFooter([]string{"", "", fmt.Sprintf("%d", rays), "", "", "TOTAL", total.Round(time.Millisecond).String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
