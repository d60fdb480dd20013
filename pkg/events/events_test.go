package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeweave/weave/pkg/models"
)

func TestNewBaseEvent(t *testing.T) {
	base := NewBaseEvent(RunStartedEvent, "wf-1")

	assert.NotEmpty(t, base.ID)
	assert.Equal(t, RunStartedEvent, base.Type)
	assert.Equal(t, "wf-1", base.WorkflowID)
	assert.False(t, base.Timestamp.IsZero())
	assert.NotNil(t, base.Metadata)
}

func TestEventTypes(t *testing.T) {
	assert.Equal(t, RunStartedEvent, RunStarted{}.GetType())
	assert.Equal(t, NodeCompletedEvent, NodeCompleted{}.GetType())
	assert.Equal(t, RunFinishedEvent, RunFinished{}.GetType())
	assert.Equal(t, RunFailedEvent, RunFailed{}.GetType())
}

func TestRunStarted_JSONShape(t *testing.T) {
	event := RunStarted{
		BaseEvent:    NewBaseEvent(RunStartedEvent, "wf-1"),
		RunID:        "run-1",
		WorkflowName: "greeting",
		Mode:         models.RunModeManual,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "run.started", decoded["type"])
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, "manual", decoded["mode"])
}
