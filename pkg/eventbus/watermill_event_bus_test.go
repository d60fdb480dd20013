package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeweave/weave/pkg/channels/gochannel"
	"github.com/nodeweave/weave/pkg/events"
)

func newBus(t *testing.T) EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)

	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func TestWatermillEventBus_PublishAndReceive(t *testing.T) {
	bus := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *events.RunStarted, 1)

	err := bus.Handle(events.RunStartedEvent, func(_ context.Context, event interface{}) error {
		started, ok := event.(*events.RunStarted)
		require.True(t, ok)
		received <- started

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ctx))

	err = bus.Publish(ctx, "wf-1", events.RunStarted{
		BaseEvent: events.NewBaseEvent(events.RunStartedEvent, "wf-1"),
		RunID:     "run-1",
	})
	require.NoError(t, err)

	select {
	case started := <-received:
		assert.Equal(t, "run-1", started.RunID)
		assert.Equal(t, "wf-1", started.WorkflowID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatermillEventBus_UnhandledTypesAreAcked(t *testing.T) {
	bus := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	// No handler is registered for run.finished; publishing must not error.
	err := bus.Publish(ctx, "wf-1", events.RunFinished{
		BaseEvent: events.NewBaseEvent(events.RunFinishedEvent, "wf-1"),
		RunID:     "run-1",
		Status:    "success",
	})
	require.NoError(t, err)
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
