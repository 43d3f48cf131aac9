package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/df07/go-raydiance/web/server"
	"github.com/urfave/cli"
)

// Serve progressive renders over HTTP as Server-Sent Events.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	port := ctx.Int("port")
	logger.Noticef("visit http://localhost:%d/api/scenes to list scenes, /api/render?scene=NAME to render", port)
	return server.NewServer(port, logger).Start(runCtx)
}
