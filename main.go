package main

import (
	"fmt"
	"os"

	"github.com/df07/go-raydiance/cmd"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "raydiance"
	app.Usage = "render triangle scenes lit by a sky using progressive path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "scenes",
			Usage:  "list built-in scenes and sky models",
			Action: cmd.ListScenes,
		},
		{
			Name:   "info",
			Usage:  "show the CPU and memory available for rendering",
			Action: cmd.SystemInfo,
		},
		{
			Name:  "serve",
			Usage: "stream progressive renders to web clients",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "port to serve on",
				},
			},
			Action: cmd.Serve,
		},
		{
			Name:  "render",
			Usage: "render scene",
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render a single frame progressively",
					Description: `
Render passes of increasing sample counts until the per-pixel budget is
reached, then tonemap the result and save it as a PNG under the output
directory. Interrupting the render saves the last completed pass.`,
					Flags:  cmd.RenderFlags,
					Action: cmd.RenderFrame,
				},
				{
					Name:  "interactive",
					Usage: "keep refining while commands on stdin change the scene",
					Description: `
Render one pass at a time. Commands typed on stdin move the camera, edit
materials, change the sky or switch the visualization mode; each change
restarts accumulation. Type help for the command list.`,
					Flags:  cmd.RenderFlags,
					Action: cmd.RenderInteractive,
				},
			},
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
