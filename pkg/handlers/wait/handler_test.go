package wait

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeweave/weave/pkg/models"
)

func TestWaitHandler_DelaysAndTags(t *testing.T) {
	handler, err := NewWaitHandler("wait-1", map[string]any{"amount": 0.05, "unit": "seconds"})
	require.NoError(t, err)

	start := time.Now()
	out, err := handler.Execute(context.Background(), models.RunContext{}, []models.Item{
		models.NewItem(map[string]any{"k": "v"}),
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, true, out[0].JSON["waitCompleted"])
	assert.Equal(t, "50ms", out[0].JSON["waitDuration"])
	assert.Equal(t, "v", out[0].JSON["k"])
}

func TestWaitHandler_CapsLongDelays(t *testing.T) {
	handler, err := NewWaitHandler("wait-1", map[string]any{"amount": 2, "unit": "days"})
	require.NoError(t, err)

	assert.Equal(t, MaxDelay, handler.delay)
}

func TestWaitHandler_CancelledContext(t *testing.T) {
	handler, err := NewWaitHandler("wait-1", map[string]any{"amount": 5, "unit": "seconds"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = handler.Execute(ctx, models.RunContext{}, []models.Item{models.NewItem(nil)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWaitHandler_BadConfig(t *testing.T) {
	_, err := NewWaitHandler("wait-1", map[string]any{"amount": -1})
	require.Error(t, err)

	_, err = NewWaitHandler("wait-1", map[string]any{"amount": 1, "unit": "fortnights"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fortnights")
}

func TestWaitHandler_ZeroDelayPassesThrough(t *testing.T) {
	handler, err := NewWaitHandler("wait-1", nil)
	require.NoError(t, err)

	out, err := handler.Execute(context.Background(), models.RunContext{}, []models.Item{models.NewItem(nil)})
	require.NoError(t, err)
	assert.Equal(t, true, out[0].JSON["waitCompleted"])
	assert.Equal(t, "0s", out[0].JSON["waitDuration"])
}
