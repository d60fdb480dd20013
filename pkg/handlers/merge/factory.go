package merge

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/protocol"
)

// Factory builds merge handlers.
type Factory struct{}

// NewFactory creates a merge handler factory.
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, node *models.Node) (protocol.Handler, error) {
	return NewMergeHandler(node.ID, node.Parameters), nil
}

func (f *Factory) ID() string {
	return "merge"
}

func (f *Factory) Name() string {
	return "Merge"
}

func (f *Factory) Description() string {
	return "Joins converging branches, stamping items with the merge mode and time"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mode": map[string]any{
				"type":        "string",
				"enum":        []string{ModeAppend, ModeCombine},
				"default":     ModeAppend,
				"description": "How the join was configured, recorded on each item",
			},
		},
	}
}
