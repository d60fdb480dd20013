package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeweave/weave/pkg/engine"
	"github.com/nodeweave/weave/pkg/persistence/memory"
	"github.com/nodeweave/weave/pkg/recorder"
	"github.com/nodeweave/weave/pkg/registry"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := slog.Default()
	reg := registry.NewWithDefaults(logger, nil)
	store := memory.NewHistoryStore()
	eng := engine.NewEngine(logger, reg, recorder.NewRecorder(logger, store), nil)

	app := fiber.New()
	NewAPIHandlers(eng, reg, store).Register(app)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var decoded map[string]any

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if len(data) > 0 && data[0] == '{' {
		require.NoError(t, json.Unmarshal(data, &decoded))
	}

	return resp, decoded
}

func inlineWorkflow() map[string]any {
	return map[string]any{
		"workflow": map[string]any{
			"id":   "wf-api",
			"name": "api test",
			"nodes": []any{
				map[string]any{"id": "start", "type": "trigger:manual"},
				map[string]any{"id": "set", "type": "setfields", "parameters": map[string]any{
					"fields": []any{
						map[string]any{"name": "greeting", "value": "hello"},
					},
				}},
			},
			"connections": []any{
				map[string]any{"source": "start", "target": "set"},
			},
		},
	}
}

func TestExecuteWorkflow(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/runs", inlineWorkflow())

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 2, body["nodes_executed"])
	assert.NotEmpty(t, body["run_id"])
}

func TestExecuteWorkflow_StructuralErrorIs400(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/runs", map[string]any{
		"workflow": map[string]any{
			"id":   "wf-bad",
			"name": "bad",
			"nodes": []any{
				map[string]any{"id": "start", "type": "trigger:manual"},
			},
			"connections": []any{
				map[string]any{"source": "start", "target": "ghost"},
			},
		},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExecuteWorkflow_NodeFailureIs422(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/runs", map[string]any{
		"workflow": map[string]any{
			"id":   "wf-fail",
			"name": "fail",
			"nodes": []any{
				map[string]any{"id": "start", "type": "trigger:manual"},
				map[string]any{"id": "set", "type": "setfields", "parameters": map[string]any{
					"fields": []any{
						map[string]any{"name": "n", "value": "oops", "type": "number"},
					},
				}},
			},
			"connections": []any{
				map[string]any{"source": "start", "target": "set"},
			},
		},
	})

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestRunHistoryEndpoints(t *testing.T) {
	app := newTestApp(t)

	_, executed := doJSON(t, app, http.MethodPost, "/runs", inlineWorkflow())
	runID := executed["run_id"].(string)

	resp, record := doJSON(t, app, http.MethodGet, "/runs/"+runID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", record["status"])
	assert.Equal(t, "wf-api", record["workflow_id"])

	resp, history := doJSON(t, app, http.MethodGet, "/workflows/wf-api/runs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, history["count"])

	resp, _ = doJSON(t, app, http.MethodGet, "/runs/run-missing1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetHandlers(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/handlers", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var catalog []HandlerInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&catalog))

	assert.NotEmpty(t, catalog)

	ids := make(map[string]bool)
	for _, info := range catalog {
		ids[info.ID] = true
		assert.NotNil(t, info.Schema)
	}

	assert.True(t, ids["httprequest"])
	assert.True(t, ids["conditional"])
	assert.True(t, ids["trigger:manual"])
}

func TestValidateWorkflow(t *testing.T) {
	app := newTestApp(t)

	t.Run("valid graph", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/validate", inlineWorkflow())

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["valid"])
	})

	t.Run("missing required parameter", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/validate", map[string]any{
			"workflow": map[string]any{
				"id":   "wf-invalid",
				"name": "invalid",
				"nodes": []any{
					map[string]any{"id": "start", "type": "trigger:manual"},
					map[string]any{"id": "http", "type": "httprequest"},
				},
				"connections": []any{
					map[string]any{"source": "start", "target": "http"},
				},
			},
		})

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["valid"])
	})

	t.Run("unknown node type", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/validate", map[string]any{
			"workflow": map[string]any{
				"id":   "wf-unknown",
				"name": "unknown",
				"nodes": []any{
					map[string]any{"id": "x", "type": "no-such-type"},
				},
			},
		})

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["valid"])
	})
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}
