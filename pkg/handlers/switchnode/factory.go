package switchnode

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/protocol"
)

// Factory builds switch handlers.
type Factory struct{}

// NewFactory creates a switch handler factory.
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, node *models.Node) (protocol.Handler, error) {
	return NewSwitchHandler(node.ID, node.Parameters)
}

func (f *Factory) ID() string {
	return "switch"
}

func (f *Factory) Name() string {
	return "Switch"
}

func (f *Factory) Description() string {
	return "Tags each item with the first matching rule's output index and label"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value": map[string]any{
				"type":        "string",
				"description": "Value to match: template, item path, or literal",
			},
			"rules": map[string]any{
				"type":        "array",
				"description": "Candidate outputs, first match wins",
				"minItems":    1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"value": map[string]any{
							"type":        "string",
							"description": "Value this rule matches against",
						},
						"label": map[string]any{
							"type":        "string",
							"description": "Label recorded on matched items, defaults to value",
						},
					},
					"required": []string{"value"},
				},
			},
		},
		"required": []string{"value", "rules"},
	}
}
