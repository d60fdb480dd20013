// Package registry maps node type tags to handler factories. The dispatch
// table is built at engine-construction time and injectable for testing;
// nothing in the engine hardcodes a node type.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"plugin"
	"sort"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/protocol"
)

// ErrUnknownHandler marks a node type with no registered factory.
var ErrUnknownHandler = errors.New("handler type not registered")

// Registry holds the type-tag to factory table.
type Registry struct {
	logger    *slog.Logger
	factories map[string]protocol.HandlerFactory
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[string]protocol.HandlerFactory),
	}
}

// Register adds a handler factory. A later registration for the same type
// tag replaces the earlier one, which lets tests swap built-ins for fakes.
func (r *Registry) Register(factory protocol.HandlerFactory) {
	r.factories[factory.ID()] = factory
}

// CreateHandler builds the handler for one node, parsing its parameters.
func (r *Registry) CreateHandler(ctx context.Context, node *models.Node) (protocol.Handler, error) {
	factory, ok := r.factories[node.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandler, node.Type)
	}

	handler, err := factory.Create(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s handler for node %s: %w", node.Type, node.ID, err)
	}

	return handler, nil
}

// Factory returns the factory for a type tag.
func (r *Registry) Factory(nodeType string) (protocol.HandlerFactory, bool) {
	factory, ok := r.factories[nodeType]

	return factory, ok
}

// Factories returns every registered factory sorted by type tag, for the
// handler catalog and schema validation.
func (r *Registry) Factories() []protocol.HandlerFactory {
	out := make([]protocol.HandlerFactory, 0, len(r.factories))
	for _, factory := range r.factories {
		out = append(out, factory)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })

	return out
}

// LoadPlugins loads handler factories from .so plugins under path. Each
// plugin exports a symbol named Handler implementing protocol.HandlerFactory.
func (r *Registry) LoadPlugins(path string) error {
	root := os.DirFS(path)

	pluginPaths, err := fs.Glob(root, "**/*.so")
	if err != nil {
		return err
	}

	logger := r.logger.With(slog.String("path", path))
	logger.Info("Loading handler plugins")

	for _, p := range pluginPaths {
		plg, err := plugin.Open(path + "/" + p)
		if err != nil {
			return fmt.Errorf("failed to open plugin %s: %w", p, err)
		}

		symbol, err := plg.Lookup("Handler")
		if err != nil {
			return fmt.Errorf("plugin %s has no Handler symbol: %w", p, err)
		}

		factory, ok := symbol.(protocol.HandlerFactory)
		if !ok {
			return fmt.Errorf("plugin %s Handler symbol is not a HandlerFactory", p)
		}

		r.Register(factory)
		logger.Info("Loaded handler plugin", slog.String("plugin", p), slog.String("type", factory.ID()))
	}

	return nil
}
