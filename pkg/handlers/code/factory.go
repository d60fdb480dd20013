package code

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/protocol"
	"github.com/nodeweave/weave/pkg/script"
)

// Factory builds code handlers sharing one sandbox, so compiled programs are
// cached across nodes and runs.
type Factory struct {
	sandbox *script.Sandbox
}

// NewFactory creates a code handler factory.
func NewFactory() *Factory {
	return &Factory{sandbox: script.NewSandbox()}
}

func (f *Factory) Create(_ context.Context, node *models.Node) (protocol.Handler, error) {
	return NewCodeHandler(node.ID, node.Parameters, f.sandbox), nil
}

func (f *Factory) ID() string {
	return "code"
}

func (f *Factory) Name() string {
	return "Code"
}

func (f *Factory) Description() string {
	return "Evaluates a sandboxed expression over the item sequence"
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"code": map[string]any{
				"type":        "string",
				"description": "Expression evaluated in the sandbox; empty code passes items through",
			},
			"mode": map[string]any{
				"type":        "string",
				"enum":        []string{string(script.ModeAllItems), string(script.ModePerItem)},
				"default":     string(script.ModeAllItems),
				"description": "Run once over all items, or once per item",
			},
		},
	}
}
