// Package protocol defines the contracts between the engine and pluggable
// node handlers.
package protocol

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
)

// Handler implements one node type's behavior. Execute receives the node's
// input items and returns the output items handed to the node's successors.
//
// Handlers must not mutate the input sequence in place: every output item's
// payload must be a fresh map (input shallow-merged with handler-added
// fields). Expected, recoverable conditions are attached to the output
// item's payload as an error marker; a returned error aborts the whole run.
type Handler interface {
	Execute(ctx context.Context, run models.RunContext, items []models.Item) ([]models.Item, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, run models.RunContext, items []models.Item) ([]models.Item, error)

// Execute calls f.
func (f HandlerFunc) Execute(ctx context.Context, run models.RunContext, items []models.Item) ([]models.Item, error) {
	return f(ctx, run, items)
}

// HandlerFactory creates handler instances for one node type and describes
// it for validation and catalog purposes.
type HandlerFactory interface {
	// Create builds a handler bound to one node: the node's parameters are
	// parsed here, before the run reaches the node.
	Create(ctx context.Context, node *models.Node) (Handler, error)

	// ID returns the type tag this factory serves.
	ID() string

	// Name returns the human-readable name for this node type.
	Name() string

	// Description explains what the node type does.
	Description() string

	// Schema returns the JSON schema for the node type's parameters.
	Schema() map[string]any
}
