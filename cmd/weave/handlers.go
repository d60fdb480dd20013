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

func handlersCommand() *cli.Command {
	return &cli.Command{
		Name:  "handlers",
		Usage: "List registered node handlers",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the catalog with parameter schemas as JSON",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("handlers")
			reg := cmd.NewRegistry(ctx, logger, command.String("plugins-path"))

			factories := reg.Factories()

			if command.Bool("json") {
				type entry struct {
					ID          string         `json:"id"`
					Name        string         `json:"name"`
					Description string         `json:"description"`
					Schema      map[string]any `json:"schema"`
				}

				catalog := make([]entry, 0, len(factories))
				for _, factory := range factories {
					catalog = append(catalog, entry{
						ID:          factory.ID(),
						Name:        factory.Name(),
						Description: factory.Description(),
						Schema:      factory.Schema(),
					})
				}

				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(catalog)
			}

			for _, factory := range factories {
				fmt.Printf("%-18s %s\n", factory.ID(), factory.Description())
			}

			return nil
		},
	}
}
