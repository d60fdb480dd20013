// Package code provides the inline-expression handler, backed by the script
// sandbox.
package code

import (
	"context"
	"time"

	"github.com/spf13/cast"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/script"
)

// CodeHandler evaluates a user expression over the item sequence.
type CodeHandler struct {
	nodeID  string
	code    string
	mode    script.Mode
	sandbox *script.Sandbox
}

// NewCodeHandler builds the handler from node parameters. The sandbox is
// shared across invocations so compiled programs are reused.
func NewCodeHandler(nodeID string, params map[string]any, sandbox *script.Sandbox) *CodeHandler {
	if sandbox == nil {
		sandbox = script.NewSandbox()
	}

	mode := script.Mode(cast.ToString(params["mode"]))
	if mode == "" {
		mode = script.ModeAllItems
	}

	return &CodeHandler{
		nodeID:  nodeID,
		code:    cast.ToString(params["code"]),
		mode:    mode,
		sandbox: sandbox,
	}
}

func (h *CodeHandler) Execute(_ context.Context, run models.RunContext, items []models.Item) ([]models.Item, error) {
	now := time.Now().UTC()

	return h.sandbox.Run(h.code, h.mode, script.Bindings{
		Items:     items,
		Vars:      run.Vars,
		Workflow:  run.WorkflowScope(),
		Execution: run.ExecutionScope(),
		Now:       now.Format(time.RFC3339),
		Today:     now.Format("2006-01-02"),
	})
}
