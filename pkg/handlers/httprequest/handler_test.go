package httprequest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeweave/weave/pkg/models"
)

func TestHTTPRequestHandler_MissingURL(t *testing.T) {
	_, err := NewHTTPRequestHandler("h", map[string]any{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}

func TestHTTPRequestHandler_OneCallPerItem(t *testing.T) {
	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"path": r.URL.Path})
	}))
	defer server.Close()

	handler, err := NewHTTPRequestHandler("h", map[string]any{
		"url": server.URL + "/users/{{user.id}}",
	}, server.Client())
	require.NoError(t, err)

	items := []models.Item{
		models.NewItem(map[string]any{"user": map[string]any{"id": "1"}}),
		models.NewItem(map[string]any{"user": map[string]any{"id": "2"}}),
	}

	out, err := handler.Execute(context.Background(), models.RunContext{}, items)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2, calls)

	first := out[0].JSON[ResponseKey].(map[string]any)
	assert.Equal(t, 200, first["status"])
	assert.Equal(t, map[string]any{"path": "/users/1"}, first["data"])

	second := out[1].JSON[ResponseKey].(map[string]any)
	assert.Equal(t, map[string]any{"path": "/users/2"}, second["data"])
}

func TestHTTPRequestHandler_NonSuccessStatusIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	handler, err := NewHTTPRequestHandler("h", map[string]any{"url": server.URL}, server.Client())
	require.NoError(t, err)

	out, err := handler.Execute(context.Background(), models.RunContext{}, []models.Item{models.NewItem(nil)})
	require.NoError(t, err, "non-2xx must not abort the run")
	require.Len(t, out, 1)

	assert.Contains(t, out[0].JSON["error"], "HTTP 500")

	response := out[0].JSON[ResponseKey].(map[string]any)
	assert.Equal(t, true, response["error"])
}

func TestHTTPRequestHandler_InvalidURLIsHard(t *testing.T) {
	handler, err := NewHTTPRequestHandler("h", map[string]any{"url": "://not-a-url"}, nil)
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), models.RunContext{}, []models.Item{models.NewItem(nil)})
	require.Error(t, err, "an unbuildable request aborts the node")
}

func TestHTTPRequestHandler_BodyAndHeadersTemplated(t *testing.T) {
	var (
		gotBody   string
		gotHeader string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		gotBody = string(buf)
		gotHeader = r.Header.Get("X-Token")

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler, err := NewHTTPRequestHandler("h", map[string]any{
		"url":     server.URL,
		"method":  "POST",
		"body":    `{"name": "{{name}}"}`,
		"headers": map[string]any{"X-Token": "{{$vars.token}}"},
	}, server.Client())
	require.NoError(t, err)

	run := models.RunContext{Vars: map[string]any{"token": "t-123"}}
	items := []models.Item{models.NewItem(map[string]any{"name": "ada"})}

	_, err = handler.Execute(context.Background(), run, items)
	require.NoError(t, err)

	assert.Equal(t, `{"name": "ada"}`, gotBody)
	assert.Equal(t, "t-123", gotHeader)
}

func TestHTTPRequestHandler_DoesNotMutateInput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler, err := NewHTTPRequestHandler("h", map[string]any{"url": server.URL}, server.Client())
	require.NoError(t, err)

	input := models.NewItem(map[string]any{"keep": "original"})

	out, err := handler.Execute(context.Background(), models.RunContext{}, []models.Item{input})
	require.NoError(t, err)

	_, polluted := input.JSON[ResponseKey]
	assert.False(t, polluted, "handler must not write into its input payload")
	assert.Contains(t, out[0].JSON, ResponseKey)
}
