// Package trigger provides the handlers for the trigger node family. The
// engine synthesizes the seed items before a trigger node runs; the handler
// itself performs no external effect and passes the seed through untouched.
package trigger

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
)

// TriggerHandler echoes its seed items.
type TriggerHandler struct {
	nodeID string
}

// NewTriggerHandler creates the pass-through handler for one trigger node.
func NewTriggerHandler(nodeID string) *TriggerHandler {
	return &TriggerHandler{nodeID: nodeID}
}

// Execute returns a copy of the synthesized seed items.
func (h *TriggerHandler) Execute(_ context.Context, _ models.RunContext, items []models.Item) ([]models.Item, error) {
	return models.CloneItems(items), nil
}
