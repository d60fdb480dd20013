// Package merge provides the join handler for fan-in points. With one item
// sequence per node execution, merging is a first-arrival pass-through: the
// node runs once regardless of how many edges point at it, and the items it
// receives are stamped and forwarded.
package merge

import (
	"context"
	"time"

	"github.com/spf13/cast"

	"github.com/nodeweave/weave/pkg/models"
)

// Merge modes accepted by the node. They are recorded on the items so
// downstream consumers can tell how a join was configured.
const (
	ModeAppend  = "append"
	ModeCombine = "combine"
)

// MergeHandler stamps and forwards the arriving item sequence.
type MergeHandler struct {
	nodeID string
	mode   string
	now    func() time.Time
}

// NewMergeHandler builds the handler from node parameters.
func NewMergeHandler(nodeID string, params map[string]any) *MergeHandler {
	mode := cast.ToString(params["mode"])
	if mode == "" {
		mode = ModeAppend
	}

	return &MergeHandler{nodeID: nodeID, mode: mode, now: time.Now}
}

func (h *MergeHandler) Execute(_ context.Context, _ models.RunContext, items []models.Item) ([]models.Item, error) {
	stamp := h.now().UTC().Format(time.RFC3339)
	out := make([]models.Item, 0, len(items))

	for _, item := range items {
		out = append(out, item.With(map[string]any{
			"mergeMode": h.mode,
			"mergedAt":  stamp,
		}))
	}

	return out, nil
}
