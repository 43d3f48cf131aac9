package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/geometry"
	"github.com/df07/go-raydiance/pkg/integrator"
	"github.com/df07/go-raydiance/pkg/material"
	"github.com/df07/go-raydiance/pkg/renderer"
	"github.com/df07/go-raydiance/pkg/scene"
	"github.com/df07/go-raydiance/pkg/sky"
	"github.com/urfave/cli"
)

const interactiveHelp = `commands:
  eye X Y Z          move the camera
  look X Y Z         aim the camera
  fov DEGREES        vertical field of view
  color N R G B      base color of material N
  rough N VALUE      roughness of material N
  sky MODEL          switch sky model
  sun ELEV AZIMUTH   sun angles in degrees
  mode NAME          shaded, normals or texcoords
  save               write the latest frame
  quit`

type commandKind int

const (
	commandUpdate commandKind = iota
	commandSave
	commandQuit
	commandHelp
)

// commandState tracks the parameters the user has set so each command can
// send a complete camera, material table or sky
type commandState struct {
	camera    scene.Camera
	materials []material.Material
	sky       sky.Params
}

func newCommandState(s *scene.Scene) *commandState {
	return &commandState{
		camera:    s.Camera,
		materials: slices.Clone(s.Materials),
		sky:       s.Sky,
	}
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}

// materialArg parses a material index and n following numbers
func (st *commandState) materialArg(args []string, n int) (int, []float64, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("missing material index")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 0 || idx >= len(st.materials) {
		return 0, nil, fmt.Errorf("material index %q outside [0, %d)", args[0], len(st.materials))
	}
	values, err := parseFloats(args[1:], n)
	return idx, values, err
}

// parse turns one input line into a session update or a control command
func (st *commandState) parse(line string) (renderer.Update, commandKind, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return renderer.Update{}, commandHelp, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "save":
		return renderer.Update{}, commandSave, nil
	case "quit", "exit":
		return renderer.Update{}, commandQuit, nil
	case "help", "?":
		return renderer.Update{}, commandHelp, nil

	case "eye", "look":
		v, err := parseFloats(args, 3)
		if err != nil {
			return renderer.Update{}, 0, err
		}
		camera := st.camera
		if name == "eye" {
			camera.Position = core.NewVec3(v[0], v[1], v[2])
		} else {
			camera.LookAt = core.NewVec3(v[0], v[1], v[2])
		}
		st.camera = camera
		return renderer.Update{Camera: &camera}, commandUpdate, nil

	case "fov":
		v, err := parseFloats(args, 1)
		if err != nil {
			return renderer.Update{}, 0, err
		}
		camera := st.camera
		camera.VFov = v[0]
		st.camera = camera
		return renderer.Update{Camera: &camera}, commandUpdate, nil

	case "color", "rough":
		n := 3
		if name == "rough" {
			n = 1
		}
		idx, v, err := st.materialArg(args, n)
		if err != nil {
			return renderer.Update{}, 0, err
		}
		materials := slices.Clone(st.materials)
		if name == "color" {
			materials[idx].BaseColor = core.NewVec3(v[0], v[1], v[2])
		} else {
			materials[idx].Roughness = v[0]
		}
		st.materials = materials
		return renderer.Update{Materials: materials}, commandUpdate, nil

	case "sky":
		if len(args) != 1 {
			return renderer.Update{}, 0, fmt.Errorf("expected one of %s", strings.Join(sky.Models(), ", "))
		}
		return renderer.Update{SkyModel: args[0]}, commandUpdate, nil

	case "sun":
		v, err := parseFloats(args, 2)
		if err != nil {
			return renderer.Update{}, 0, err
		}
		params := st.sky
		params.Elevation = v[0] * math.Pi / 180
		params.Azimuth = v[1] * math.Pi / 180
		st.sky = params
		return renderer.Update{Sky: &params}, commandUpdate, nil

	case "mode":
		if len(args) != 1 {
			return renderer.Update{}, 0, fmt.Errorf("expected a visualization mode")
		}
		mode, err := integrator.ParseVisualization(args[0])
		if err != nil {
			return renderer.Update{}, 0, err
		}
		return renderer.Update{Visualization: &mode}, commandUpdate, nil
	}

	return renderer.Update{}, 0, fmt.Errorf("unknown command %q", name)
}

// readLines forwards input lines until r is exhausted or ctx is done
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// Render interactively: the image keeps refining while commands typed on
// stdin change the camera, materials, sky or visualization.
func RenderInteractive(ctx *cli.Context) error {
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

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := renderer.NewSession(r)
	session.Start(runCtx)
	logger.Noticef("interactive session on scene %q; type help for commands", sc.Name)

	state := newCommandState(sc)
	lines := readLines(runCtx, os.Stdin)
	exposure := ctx.Float64("exposure")
	var latest *renderer.Frame

	for {
		select {
		case frame := <-session.Frames():
			latest = frame
			logger.Debugf("frame: pass %d, %d samples/pixel", frame.Pass, frame.SampleCount)

		case line, ok := <-lines:
			if !ok {
				// End of input ends the session
				stop()
				lines = nil
				continue
			}
			update, kind, err := state.parse(line)
			if err != nil {
				logger.Warningf("%v", err)
				continue
			}
			switch kind {
			case commandUpdate:
				session.Update(update)
			case commandSave:
				if latest == nil {
					logger.Warning("no frame rendered yet")
					continue
				}
				if err := saveFrame(latest, outDir, exposure, config.AuxBuffers); err != nil {
					logger.Errorf("%v", err)
				}
			case commandQuit:
				stop()
			case commandHelp:
				logger.Notice(interactiveHelp)
			}

		case <-session.Done():
			if err := session.Err(); err != nil {
				return err
			}
			select {
			case frame := <-session.Frames():
				latest = frame
			default:
			}
			if latest != nil {
				return saveFrame(latest, outDir, exposure, config.AuxBuffers)
			}
			return nil
		}
	}
}
