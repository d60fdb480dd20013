// Package integration provides placeholder handlers for external-service
// nodes. Each service gets its own registered type; executing one simulates
// the call by stamping items with a processed marker instead of reaching the
// real API.
package integration

import (
	"context"
	"time"

	"github.com/spf13/cast"

	"github.com/nodeweave/weave/pkg/expression"
	"github.com/nodeweave/weave/pkg/models"
)

// Services receiving a stub handler. Matching the catalog keeps workflow
// definitions portable while real connectors land one by one.
var Services = []string{
	"gmail",
	"slack",
	"discord",
	"telegram",
	"notion",
	"airtable",
	"googlesheets",
	"mysql",
	"postgres",
	"mongodb",
	"redis",
	"openai",
	"anthropic",
	"stripe",
	"paypal",
	"hubspot",
	"salesforce",
	"twitter",
	"github",
	"jira",
}

// IntegrationHandler simulates one external-service call per execution.
type IntegrationHandler struct {
	service   string
	operation string
	now       func() time.Time
}

// NewIntegrationHandler builds the stub for a given service.
func NewIntegrationHandler(service string, params map[string]any) *IntegrationHandler {
	operation := cast.ToString(params["operation"])
	if operation == "" {
		operation = "default"
	}

	return &IntegrationHandler{service: service, operation: operation, now: time.Now}
}

// Execute stamps each item with "<service>Processed": true plus the operation
// and time, interpolating nothing away: the original payload is preserved.
func (h *IntegrationHandler) Execute(_ context.Context, run models.RunContext, items []models.Item) ([]models.Item, error) {
	resolver := expression.NewResolver(run.Vars)
	stamp := h.now().UTC().Format(time.RFC3339)
	out := make([]models.Item, 0, len(items))

	for _, item := range items {
		out = append(out, item.With(map[string]any{
			h.service + "Processed": true,
			"integration": map[string]any{
				"service":     h.service,
				"operation":   resolver.Interpolate(h.operation, item.JSON),
				"processedAt": stamp,
				"simulated":   true,
			},
		}))
	}

	return out, nil
}
