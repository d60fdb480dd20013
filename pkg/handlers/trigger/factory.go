package trigger

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/protocol"
)

// Factory creates trigger handlers for one trigger type tag.
type Factory struct {
	id          string
	name        string
	description string
	schema      map[string]any
}

// NewManualFactory creates the manual trigger factory.
func NewManualFactory() protocol.HandlerFactory {
	return &Factory{
		id:          models.NodeTypeTriggerManual,
		name:        "Manual Trigger",
		description: "Starts a run when explicitly executed by a user",
		schema:      map[string]any{"type": "object", "properties": map[string]any{}},
	}
}

// NewScheduleFactory creates the schedule trigger factory.
func NewScheduleFactory() protocol.HandlerFactory {
	return &Factory{
		id:          models.NodeTypeTriggerSchedule,
		name:        "Schedule Trigger",
		description: "Starts a run on a cron schedule",
		schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"cron_expression": map[string]any{
					"type":        "string",
					"description": "Standard 5-field cron expression",
					"default":     "0 * * * *",
					"examples":    []string{"0 * * * *", "*/5 * * * *", "0 9 * * 1-5"},
				},
			},
		},
	}
}

// NewWebhookFactory creates the inbound-request trigger factory.
func NewWebhookFactory() protocol.HandlerFactory {
	return &Factory{
		id:          models.NodeTypeTriggerWebhook,
		name:        "Webhook Trigger",
		description: "Starts a run from an inbound HTTP request payload",
		schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"headers": map[string]any{"type": "object", "description": "Sample request headers for manual runs"},
				"query":   map[string]any{"type": "object", "description": "Sample query parameters for manual runs"},
				"body":    map[string]any{"type": "object", "description": "Sample request body for manual runs"},
			},
		},
	}
}

// NewFormFactory creates the form submission trigger factory.
func NewFormFactory() protocol.HandlerFactory {
	return &Factory{
		id:          models.NodeTypeTriggerForm,
		name:        "Form Trigger",
		description: "Starts a run from a form submission",
		schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"fields": map[string]any{"type": "object", "description": "Sample form field values for manual runs"},
			},
		},
	}
}

// NewChatFactory creates the chat message trigger factory.
func NewChatFactory() protocol.HandlerFactory {
	return &Factory{
		id:          models.NodeTypeTriggerChat,
		name:        "Chat Trigger",
		description: "Starts a run from an inbound chat message",
		schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message":   map[string]any{"type": "string", "description": "Sample message for manual runs"},
				"sessionId": map[string]any{"type": "string", "description": "Conversation session identifier"},
			},
		},
	}
}

// NewEmailFactory creates the inbound email trigger factory.
func NewEmailFactory() protocol.HandlerFactory {
	return &Factory{
		id:          models.NodeTypeTriggerEmail,
		name:        "Email Trigger",
		description: "Starts a run from an inbound email",
		schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"from":    map[string]any{"type": "string", "description": "Sample sender address for manual runs"},
				"subject": map[string]any{"type": "string", "description": "Sample subject line for manual runs"},
			},
		},
	}
}

// Create creates a pass-through handler for the node.
func (f *Factory) Create(_ context.Context, node *models.Node) (protocol.Handler, error) {
	return NewTriggerHandler(node.ID), nil
}

// ID returns the trigger type tag.
func (f *Factory) ID() string { return f.id }

// Name returns the factory name.
func (f *Factory) Name() string { return f.name }

// Description returns the factory description.
func (f *Factory) Description() string { return f.description }

// Schema returns the JSON schema for the trigger's parameters.
func (f *Factory) Schema() map[string]any { return f.schema }
