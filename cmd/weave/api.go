package main

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	cli "github.com/urfave/cli/v3"

	"github.com/nodeweave/weave/pkg/cmd"
	"github.com/nodeweave/weave/pkg/engine"
	"github.com/nodeweave/weave/pkg/log"
	"github.com/nodeweave/weave/pkg/recorder"
	"github.com/nodeweave/weave/pkg/web"
)

const defaultPort = 9091

func apiCommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Serve the workflow execution HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel, empty to disable)",
				Value:   "",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing API")

			store := cmd.NewHistoryStore(ctx, logger, command.String("history-url"))
			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close history store", "error", err)
				}
			}()

			bus := cmd.NewEventBus(command.String("event-bus"), logger)
			if bus != nil {
				defer func() {
					if err := bus.Close(); err != nil {
						logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
					}
				}()
			}

			reg := cmd.NewRegistry(ctx, logger, command.String("plugins-path"))
			eng := engine.NewEngine(logger, reg, recorder.NewRecorder(logger, store), bus)

			app := fiber.New(fiber.Config{AppName: "weave"})
			web.NewAPIHandlers(eng, reg, store).Register(app)

			return app.Listen(fmt.Sprintf(":%d", command.Int("port")))
		},
	}
}
