// Package httprequest provides the HTTP call handler. One network call is
// issued per input item, in order; network-level and non-2xx outcomes are
// attached to the item as a soft error marker so the run continues past them.
package httprequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/nodeweave/weave/pkg/expression"
	"github.com/nodeweave/weave/pkg/models"
)

// ResponseKey is the fixed payload key the HTTP outcome is attached under.
const ResponseKey = "httpResponse"

const maxResponseBytes = 4 << 20

// Config is the parsed node parameter set.
type Config struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
	Timeout time.Duration
}

// HTTPRequestHandler performs one HTTP request per input item.
type HTTPRequestHandler struct {
	nodeID string
	config Config
	client *http.Client
}

// NewHTTPRequestHandler parses the node parameters and builds the handler.
func NewHTTPRequestHandler(nodeID string, params map[string]any, client *http.Client) (*HTTPRequestHandler, error) {
	config := Config{
		Method:  http.MethodGet,
		Headers: make(map[string]string),
		Timeout: 30 * time.Second,
	}

	url := cast.ToString(params["url"])
	if url == "" {
		return nil, errors.New("missing required field 'url'")
	}

	config.URL = url

	if method, ok := params["method"]; ok {
		config.Method = strings.ToUpper(cast.ToString(method))
	}

	if headers, ok := params["headers"].(map[string]any); ok {
		for k, v := range headers {
			config.Headers[k] = cast.ToString(v)
		}
	}

	if body, ok := params["body"]; ok {
		config.Body = cast.ToString(body)
	}

	if timeout, ok := params["timeout"]; ok {
		seconds := cast.ToInt(timeout)
		if seconds > 0 {
			config.Timeout = time.Duration(seconds) * time.Second
		}
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPRequestHandler{nodeID: nodeID, config: config, client: client}, nil
}

// Execute resolves url, headers, and body against each item's payload,
// issues the request, and attaches the outcome under ResponseKey.
func (h *HTTPRequestHandler) Execute(ctx context.Context, run models.RunContext, items []models.Item) ([]models.Item, error) {
	resolver := expression.NewResolver(run.Vars)
	out := make([]models.Item, 0, len(items))

	for _, item := range items {
		url := resolver.Interpolate(h.config.URL, item.JSON)

		response, err := h.call(ctx, resolver, url, item)
		if err != nil {
			// A request that cannot even be constructed is a hard failure:
			// the configuration is broken for every item.
			var build *buildError
			if errors.As(err, &build) {
				return nil, err
			}

			out = append(out, item.With(map[string]any{
				"error": err.Error(),
				ResponseKey: map[string]any{
					"error":  true,
					"url":    url,
					"method": h.config.Method,
				},
			}))

			continue
		}

		out = append(out, item.With(map[string]any{ResponseKey: response}))
	}

	return out, nil
}

type buildError struct{ err error }

func (e *buildError) Error() string { return e.err.Error() }
func (e *buildError) Unwrap() error { return e.err }

func (h *HTTPRequestHandler) call(ctx context.Context, resolver *expression.Resolver, url string, item models.Item) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	var body io.Reader

	if h.config.Body != "" && methodHasBody(h.config.Method) {
		body = strings.NewReader(resolver.Interpolate(h.config.Body, item.JSON))
	}

	req, err := http.NewRequestWithContext(ctx, h.config.Method, url, body)
	if err != nil {
		return nil, &buildError{err: fmt.Errorf("invalid HTTP request for node %s: %w", h.nodeID, err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "weave/1.0")

	for k, v := range h.config.Headers {
		req.Header.Set(k, resolver.Interpolate(v, item.JSON))
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return map[string]any{
		"status":  resp.StatusCode,
		"headers": flattenHeaders(resp.Header),
		"data":    decodeBody(resp.Header.Get("Content-Type"), raw),
		"url":     url,
		"method":  h.config.Method,
	}, nil
}

func methodHasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

func flattenHeaders(header http.Header) map[string]any {
	out := make(map[string]any, len(header))
	for k := range header {
		out[k] = header.Get(k)
	}

	return out
}

func decodeBody(contentType string, raw []byte) any {
	if strings.Contains(contentType, "application/json") {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			return decoded
		}
	}

	return string(raw)
}
