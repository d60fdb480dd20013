package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/nodeweave/weave/pkg/cmd"
	"github.com/nodeweave/weave/pkg/log"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "Show recent runs of a workflow",
		ArgsUsage: "<workflow-id>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print full run records as JSON",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			workflowID := command.Args().First()
			if workflowID == "" {
				return fmt.Errorf("workflow-id argument is required")
			}

			logger := log.WithModule("history")

			store := cmd.NewHistoryStore(ctx, logger, command.String("history-url"))
			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close history store", "error", err)
				}
			}()

			runs, err := store.Runs(ctx, workflowID, command.Int("limit"))
			if err != nil {
				return err
			}

			if command.Bool("json") {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(runs)
			}

			if len(runs) == 0 {
				fmt.Printf("no recorded runs for workflow %s\n", workflowID)

				return nil
			}

			for _, run := range runs {
				duration := int64(0)
				if run.StoppedAt != nil {
					duration = run.StoppedAt.Sub(run.StartedAt).Milliseconds()
				}

				fmt.Printf("%s  %-7s  %s  %4dms  %d nodes\n",
					run.ID,
					run.Status,
					run.StartedAt.Format("2006-01-02 15:04:05"),
					duration,
					len(run.NodeResults))
			}

			return nil
		},
	}
}
