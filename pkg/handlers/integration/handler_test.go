package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeweave/weave/pkg/models"
)

func TestIntegrationHandler_StampsProcessedMarker(t *testing.T) {
	handler := NewIntegrationHandler("slack", map[string]any{"operation": "postMessage"})
	handler.now = func() time.Time {
		return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	}

	out, err := handler.Execute(context.Background(), models.RunContext{}, []models.Item{
		models.NewItem(map[string]any{"channel": "#alerts"}),
	})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, true, out[0].JSON["slackProcessed"])
	assert.Equal(t, "#alerts", out[0].JSON["channel"])

	meta, ok := out[0].JSON["integration"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "slack", meta["service"])
	assert.Equal(t, "postMessage", meta["operation"])
	assert.Equal(t, "2026-03-01T09:00:00Z", meta["processedAt"])
	assert.Equal(t, true, meta["simulated"])
}

func TestIntegrationHandler_TemplatedOperation(t *testing.T) {
	handler := NewIntegrationHandler("postgres", map[string]any{"operation": "insert:{{table}}"})

	out, err := handler.Execute(context.Background(), models.RunContext{}, []models.Item{
		models.NewItem(map[string]any{"table": "orders"}),
	})
	require.NoError(t, err)

	meta := out[0].JSON["integration"].(map[string]any)
	assert.Equal(t, "insert:orders", meta["operation"])
}

func TestFactories_CoverAllServices(t *testing.T) {
	factories := Factories()
	require.Len(t, factories, len(Services))

	seen := make(map[string]bool)
	for _, f := range factories {
		seen[f.ID()] = true
	}

	for _, service := range Services {
		assert.True(t, seen[service], "missing factory for %s", service)
	}
}
