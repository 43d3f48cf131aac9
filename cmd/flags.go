package cmd

import "github.com/urfave/cli"

// RenderFlags are shared by the frame and interactive render commands
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "cornell",
		Usage: "built-in scene to render (see the scenes command)",
	},
	cli.IntFlag{
		Name:  "width",
		Value: 400,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Value: 225,
		Usage: "frame height",
	},
	cli.IntFlag{
		Name:  "spp",
		Value: 64,
		Usage: "samples per pixel at which rendering stops",
	},
	cli.IntFlag{
		Name:  "passes",
		Value: 7,
		Usage: "progressive passes to reach the sample budget",
	},
	cli.IntFlag{
		Name:  "samples-per-pass",
		Value: 1,
		Usage: "samples per pixel added by each interactive pass",
	},
	cli.IntFlag{
		Name:  "bounces",
		Value: 5,
		Usage: "scattering events per path",
	},
	cli.IntFlag{
		Name:  "tile-size",
		Value: 16,
		Usage: "edge length of the tiles handed to workers",
	},
	cli.IntFlag{
		Name:  "workers",
		Value: 0,
		Usage: "parallel workers (0 = one per physical core)",
	},
	cli.Uint64Flag{
		Name:  "seed",
		Value: 0,
		Usage: "base of the per-pixel random streams",
	},
	cli.Float64Flag{
		Name:  "exposure",
		Value: 0,
		Usage: "exposure in stops; each stop halves the brightness",
	},
	cli.StringFlag{
		Name:  "mode",
		Value: "shaded",
		Usage: "visualization: shaded, normals or texcoords",
	},
	cli.StringFlag{
		Name:  "hemisphere",
		Value: "cosine",
		Usage: "diffuse sampling: cosine or uniform",
	},
	cli.StringFlag{
		Name:  "sky",
		Usage: "sky model overriding the scene's",
	},
	cli.Float64Flag{
		Name:  "sun-elevation",
		Usage: "sun elevation in degrees",
	},
	cli.Float64Flag{
		Name:  "sun-azimuth",
		Usage: "sun azimuth in degrees around +Y, 0 = +X",
	},
	cli.Float64Flag{
		Name:  "turbidity",
		Usage: "atmospheric turbidity in [1, 10]",
	},
	cli.StringFlag{
		Name:  "texture",
		Usage: "image applied as the base color texture of every material",
	},
	cli.StringFlag{
		Name:  "texture-space",
		Value: "srgb",
		Usage: "color space of the texture image: srgb or linear",
	},
	cli.BoolFlag{
		Name:  "aux",
		Usage: "also write the first-hit normal buffer",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "output",
		Usage: "root directory for rendered images",
	},
}
