package conditional

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/protocol"
)

// Factory builds conditional handlers.
type Factory struct{}

// NewFactory creates a conditional handler factory.
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, node *models.Node) (protocol.Handler, error) {
	return NewConditionalHandler(node.ID, node.Parameters)
}

func (f *Factory) ID() string {
	return "conditional"
}

func (f *Factory) Name() string {
	return "If"
}

func (f *Factory) Description() string {
	return "Evaluates a list of comparisons against each item and tags it with the branch taken"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"conditions": map[string]any{
				"type":        "array",
				"description": "Comparisons that must all hold for the true branch",
				"minItems":    1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"value1": map[string]any{
							"type":        "string",
							"description": "Left operand: template, item path, or literal",
						},
						"operation": map[string]any{
							"type": "string",
							"enum": []string{
								OpEqual, OpNotEqual, OpContains, OpNotContains,
								OpStartsWith, OpEndsWith, OpRegex,
							},
							"default": OpEqual,
						},
						"value2": map[string]any{
							"type":        "string",
							"description": "Right operand: template, item path, or literal",
						},
					},
					"required": []string{"value1", "value2"},
				},
			},
		},
		"required": []string{"conditions"},
	}
}
