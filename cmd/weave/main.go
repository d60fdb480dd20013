package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/nodeweave/weave/pkg/log"
)

func main() {
	root := &cli.Command{
		Name:                  "weave",
		Usage:                 "Execute and inspect workflow graphs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "history-url",
				Usage:   "Run-history store URL (memory, file://<dir>, redis://..., postgres://...)",
				Value:   "memory",
				Sources: cli.EnvVars("HISTORY_URL"),
			},
			&cli.StringFlag{
				Name:    "plugins-path",
				Usage:   "Directory containing handler plugins",
				Value:   "",
				Sources: cli.EnvVars("PLUGINS_PATH"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			runCommand(),
			apiCommand(),
			validateCommand(),
			historyCommand(),
			handlersCommand(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
