package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"github.com/xeipuuv/gojsonschema"

	"github.com/nodeweave/weave/pkg/cmd"
	"github.com/nodeweave/weave/pkg/log"
	"github.com/nodeweave/weave/pkg/persistence/file"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a workflow definition without executing it",
		ArgsUsage: "<workflow.json>",
		Action: func(ctx context.Context, command *cli.Command) error {
			path := command.Args().First()
			if path == "" {
				return fmt.Errorf("workflow file argument is required")
			}

			logger := log.WithModule("validate")

			workflow, err := file.LoadWorkflow(path)
			if err != nil {
				return err
			}

			reg := cmd.NewRegistry(ctx, logger, command.String("plugins-path"))

			problems := 0

			for _, node := range workflow.Nodes {
				factory, ok := reg.Factory(node.Type)
				if !ok {
					problems++

					fmt.Printf("node %s: unknown type %s\n", node.ID, node.Type)

					continue
				}

				params := node.Parameters
				if params == nil {
					params = map[string]any{}
				}

				result, err := gojsonschema.Validate(
					gojsonschema.NewGoLoader(factory.Schema()),
					gojsonschema.NewGoLoader(params),
				)
				if err != nil {
					return fmt.Errorf("node %s: %w", node.ID, err)
				}

				for _, desc := range result.Errors() {
					problems++

					fmt.Printf("node %s: %s\n", node.ID, desc.String())
				}
			}

			if len(workflow.EntryPoints()) == 0 {
				problems++

				fmt.Println("workflow has no entry point")
			}

			if problems > 0 {
				return fmt.Errorf("%d validation problem(s)", problems)
			}

			fmt.Printf("workflow %s is valid (%d nodes)\n", workflow.ID, len(workflow.Nodes))

			return nil
		},
	}
}
