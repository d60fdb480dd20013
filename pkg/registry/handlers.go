package registry

import (
	"log/slog"
	"net/http"

	"github.com/nodeweave/weave/pkg/handlers/code"
	"github.com/nodeweave/weave/pkg/handlers/conditional"
	"github.com/nodeweave/weave/pkg/handlers/httprequest"
	"github.com/nodeweave/weave/pkg/handlers/integration"
	"github.com/nodeweave/weave/pkg/handlers/merge"
	"github.com/nodeweave/weave/pkg/handlers/noop"
	"github.com/nodeweave/weave/pkg/handlers/setfields"
	"github.com/nodeweave/weave/pkg/handlers/switchnode"
	"github.com/nodeweave/weave/pkg/handlers/trigger"
	"github.com/nodeweave/weave/pkg/handlers/wait"
)

// NewWithDefaults creates a registry preloaded with every built-in handler.
func NewWithDefaults(logger *slog.Logger, client *http.Client) *Registry {
	r := NewRegistry(logger)
	r.RegisterDefaults(client)

	return r
}

// RegisterDefaults registers the built-in handler set: trigger types, flow
// control, data shaping, HTTP, code, and the simulated integrations.
func (r *Registry) RegisterDefaults(client *http.Client) {
	r.Register(trigger.NewManualFactory())
	r.Register(trigger.NewScheduleFactory())
	r.Register(trigger.NewWebhookFactory())
	r.Register(trigger.NewFormFactory())
	r.Register(trigger.NewChatFactory())
	r.Register(trigger.NewEmailFactory())

	r.Register(conditional.NewFactory())
	r.Register(switchnode.NewFactory())
	r.Register(merge.NewFactory())
	r.Register(wait.NewFactory())
	r.Register(noop.NewFactory())

	r.Register(setfields.NewFactory())
	r.Register(code.NewFactory())
	r.Register(httprequest.NewFactory(client))

	for _, factory := range integration.Factories() {
		r.Register(factory)
	}
}
