package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/nodeweave/weave/pkg/cmd"
	"github.com/nodeweave/weave/pkg/engine"
	"github.com/nodeweave/weave/pkg/log"
	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/persistence/file"
	"github.com/nodeweave/weave/pkg/recorder"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Aliases:   []string{"r"},
		Usage:     "Execute a workflow definition from a JSON file",
		ArgsUsage: "<workflow.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Run mode (manual or trigger)",
				Value: string(models.RunModeManual),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel, empty to disable)",
				Value:   "",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			path := command.Args().First()
			if path == "" {
				return fmt.Errorf("workflow file argument is required")
			}

			logger := log.WithModule("run")

			workflow, err := file.LoadWorkflow(path)
			if err != nil {
				return err
			}

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

			summary, err := eng.Execute(ctx, workflow, models.RunMode(command.String("mode")))
			if summary != nil {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				if encodeErr := encoder.Encode(summary); encodeErr != nil {
					return encodeErr
				}
			}

			return err
		},
	}
}
