// Package noop provides the identity handler, useful as a placeholder or
// graph landmark.
package noop

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/protocol"
)

// NoopHandler forwards its input unchanged.
type NoopHandler struct{}

func (h *NoopHandler) Execute(_ context.Context, _ models.RunContext, items []models.Item) ([]models.Item, error) {
	return models.CloneItems(items), nil
}

// Factory builds noop handlers.
type Factory struct{}

// NewFactory creates a noop handler factory.
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, _ *models.Node) (protocol.Handler, error) {
	return &NoopHandler{}, nil
}

func (f *Factory) ID() string {
	return "noop"
}

func (f *Factory) Name() string {
	return "No Operation"
}

func (f *Factory) Description() string {
	return "Forwards items unchanged"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
