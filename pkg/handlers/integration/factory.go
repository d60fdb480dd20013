package integration

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/protocol"
)

// Factory builds the stub handler for one service.
type Factory struct {
	service string
}

// NewFactory creates a stub factory for the given service name.
func NewFactory(service string) *Factory {
	return &Factory{service: service}
}

// Factories returns one stub factory per known service.
func Factories() []*Factory {
	out := make([]*Factory, 0, len(Services))
	for _, service := range Services {
		out = append(out, NewFactory(service))
	}

	return out
}

func (f *Factory) Create(_ context.Context, node *models.Node) (protocol.Handler, error) {
	return NewIntegrationHandler(f.service, node.Parameters), nil
}

func (f *Factory) ID() string {
	return f.service
}

func (f *Factory) Name() string {
	return f.service
}

func (f *Factory) Description() string {
	return "Simulated " + f.service + " integration, stamps items with a processed marker"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"default":     "default",
				"description": "Operation the real connector would perform, recorded on each item",
			},
		},
	}
}
