package wait

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/protocol"
)

// Factory builds wait handlers.
type Factory struct{}

// NewFactory creates a wait handler factory.
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, node *models.Node) (protocol.Handler, error) {
	return NewWaitHandler(node.ID, node.Parameters)
}

func (f *Factory) ID() string {
	return "wait"
}

func (f *Factory) Name() string {
	return "Wait"
}

func (f *Factory) Description() string {
	return "Pauses the run for a configured, capped delay before forwarding items"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"amount": map[string]any{
				"type":        "number",
				"minimum":     0,
				"default":     0,
				"description": "How long to wait, in the configured unit",
			},
			"unit": map[string]any{
				"type":    "string",
				"enum":    []string{"seconds", "minutes", "hours", "days"},
				"default": "seconds",
			},
		},
	}
}
