// Package wait provides the delay handler. Configured delays are capped so a
// misconfigured node cannot stall a whole run.
package wait

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/nodeweave/weave/pkg/models"
)

// MaxDelay caps the effective pause regardless of configuration.
const MaxDelay = 5 * time.Second

// WaitHandler pauses the run, then forwards its input tagged with the
// delay actually applied.
type WaitHandler struct {
	nodeID string
	delay  time.Duration
}

// NewWaitHandler parses amount/unit parameters into a capped delay.
func NewWaitHandler(nodeID string, params map[string]any) (*WaitHandler, error) {
	amount := cast.ToFloat64(params["amount"])
	if amount < 0 {
		return nil, fmt.Errorf("amount must not be negative, got %v", amount)
	}

	unit := cast.ToString(params["unit"])
	if unit == "" {
		unit = "seconds"
	}

	var per time.Duration

	switch unit {
	case "seconds":
		per = time.Second
	case "minutes":
		per = time.Minute
	case "hours":
		per = time.Hour
	case "days":
		per = 24 * time.Hour
	default:
		return nil, fmt.Errorf("unknown unit %q", unit)
	}

	delay := time.Duration(amount * float64(per))
	if delay > MaxDelay {
		delay = MaxDelay
	}

	return &WaitHandler{nodeID: nodeID, delay: delay}, nil
}

func (h *WaitHandler) Execute(ctx context.Context, _ models.RunContext, items []models.Item) ([]models.Item, error) {
	if h.delay > 0 {
		timer := time.NewTimer(h.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		out = append(out, item.With(map[string]any{
			"waitCompleted": true,
			"waitDuration":  h.delay.String(),
		}))
	}

	return out, nil
}
