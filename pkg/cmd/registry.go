// Package cmd provides common initialization for the command-line binaries.
package cmd

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nodeweave/weave/pkg/registry"
)

// NewRegistry builds the handler registry with every built-in handler, plus
// any plugin handlers found under pluginsPath.
func NewRegistry(ctx context.Context, logger *slog.Logger, pluginsPath string) *registry.Registry {
	reg := registry.NewWithDefaults(logger, http.DefaultClient)

	if pluginsPath != "" {
		if err := reg.LoadPlugins(pluginsPath); err != nil {
			logger.WarnContext(ctx, "Failed to load handler plugins",
				slog.String("path", pluginsPath),
				slog.String("error", err.Error()))
		}
	}

	return reg
}
