package httprequest

import (
	"context"
	"net/http"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/protocol"
)

// Factory creates HTTPRequestHandler instances sharing one HTTP client.
type Factory struct {
	client *http.Client
}

// NewFactory creates the HTTP request handler factory. A nil client falls
// back to http.DefaultClient.
func NewFactory(client *http.Client) protocol.HandlerFactory {
	return &Factory{client: client}
}

// Create parses the node parameters and builds the handler.
func (f *Factory) Create(_ context.Context, node *models.Node) (protocol.Handler, error) {
	return NewHTTPRequestHandler(node.ID, node.Parameters, f.client)
}

// ID returns the factory ID.
func (f *Factory) ID() string {
	return "httprequest"
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "HTTP Request"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Performs one HTTP request per input item with templated url, headers, and body"
}

// Schema returns the JSON schema for HTTP request node parameters.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "HTTP URL to request. Supports {{ path }} templating against the item payload",
				"examples": []string{
					"https://api.example.com/users",
					"https://api.example.com/orders/{{order.id}}",
				},
			},
			"method": map[string]any{
				"type":    "string",
				"default": "GET",
				"enum":    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "HTTP headers. Values support templating",
				"examples": []map[string]any{
					{"Authorization": "Bearer {{$vars.api_token}}"},
				},
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Request body for POST/PUT/PATCH. Supports templating",
			},
			"timeout": map[string]any{
				"type":        "number",
				"description": "Request timeout in seconds",
				"default":     30,
				"minimum":     1,
				"maximum":     300,
			},
		},
		"required": []string{"url"},
	}
}
