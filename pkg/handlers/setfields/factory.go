package setfields

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/protocol"
)

// Factory builds set-fields handlers.
type Factory struct{}

// NewFactory creates a set-fields handler factory.
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, node *models.Node) (protocol.Handler, error) {
	return NewSetFieldsHandler(node.ID, node.Parameters)
}

func (f *Factory) ID() string {
	return "setfields"
}

func (f *Factory) Name() string {
	return "Set Fields"
}

func (f *Factory) Description() string {
	return "Assigns templated, typed fields onto each item"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"fields": map[string]any{
				"type":        "array",
				"description": "Assignments applied to every item in order",
				"minItems":    1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "Key to set on the item payload",
						},
						"value": map[string]any{
							"type":        "string",
							"description": "Templated value, interpolated against the item",
						},
						"type": map[string]any{
							"type":    "string",
							"enum":    []string{TypeString, TypeNumber, TypeBoolean},
							"default": TypeString,
						},
					},
					"required": []string{"name", "value"},
				},
			},
		},
		"required": []string{"fields"},
	}
}
