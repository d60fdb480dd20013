package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nodeweave/weave/pkg/persistence"
	"github.com/nodeweave/weave/pkg/persistence/file"
	"github.com/nodeweave/weave/pkg/persistence/memory"
	"github.com/nodeweave/weave/pkg/persistence/postgres"
	"github.com/nodeweave/weave/pkg/persistence/redis"
)

// NewHistoryStore creates the run-history store named by url: redis://...,
// postgres://..., file://<dir>, or "memory" (the default when url is empty).
func NewHistoryStore(ctx context.Context, logger *slog.Logger, url string) persistence.HistoryStore {
	switch parseProvider(url) {
	case "redis":
		store, err := redis.NewHistoryStore(url)
		if err != nil {
			panic(fmt.Errorf("failed to create redis history store: %w", err))
		}

		return store
	case "postgres":
		store, err := postgres.NewHistoryStore(ctx, logger, url)
		if err != nil {
			panic(fmt.Errorf("failed to create postgres history store: %w", err))
		}

		return store
	case "file":
		store, err := file.NewHistoryStore(url)
		if err != nil {
			panic(fmt.Errorf("failed to create file history store: %w", err))
		}

		return store
	default:
		return memory.NewHistoryStore()
	}
}

func parseProvider(url string) string {
	if url == "" || url == "memory" {
		return "memory"
	}

	provider, _, found := strings.Cut(url, "://")
	if !found {
		return "file"
	}

	switch provider {
	case "redis", "rediss":
		return "redis"
	case "postgres", "postgresql":
		return "postgres"
	default:
		return "file"
	}
}
