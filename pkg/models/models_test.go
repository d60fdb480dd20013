package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_With_DoesNotShareJSON(t *testing.T) {
	original := NewItem(map[string]any{"a": 1})
	derived := original.With(map[string]any{"b": 2})

	derived.JSON["a"] = 99

	assert.Equal(t, 1, original.JSON["a"], "derived item must not share the payload map")
	assert.Equal(t, 2, derived.JSON["b"])
}

func TestNewItem_NilPayload(t *testing.T) {
	item := NewItem(nil)
	require.NotNil(t, item.JSON)

	item.JSON["x"] = true
	assert.Equal(t, true, item.JSON["x"])
}

func TestIsTriggerType(t *testing.T) {
	tests := []struct {
		nodeType string
		want     bool
	}{
		{NodeTypeTriggerManual, true},
		{NodeTypeTriggerSchedule, true},
		{NodeTypeTriggerWebhook, true},
		{"httprequest", false},
		{"noop", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.nodeType, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTriggerType(tc.nodeType))
		})
	}
}

func TestWorkflow_Validation(t *testing.T) {
	validate := validator.New()

	valid := &Workflow{
		ID:   "wf-1",
		Name: "Test Workflow",
		Nodes: []*Node{
			{ID: "t", Type: NodeTypeTriggerManual},
		},
	}
	assert.NoError(t, validate.Struct(valid))

	missingNodes := &Workflow{ID: "wf-2", Name: "Empty"}
	assert.Error(t, validate.Struct(missingNodes))

	badNode := &Workflow{
		ID:    "wf-3",
		Name:  "Bad node",
		Nodes: []*Node{{ID: "", Type: "noop"}},
	}
	assert.Error(t, validate.Struct(badNode))
}

func TestWorkflow_EntryPoints_TriggerTyped(t *testing.T) {
	wf := &Workflow{
		Nodes: []*Node{
			{ID: "t1", Type: NodeTypeTriggerManual},
			{ID: "a", Type: "noop"},
			{ID: "t2", Type: NodeTypeTriggerWebhook},
		},
		Connections: []*Connection{
			{Source: "t1", Target: "a"},
		},
	}

	entries := wf.EntryPoints()
	require.Len(t, entries, 2)
	assert.Equal(t, "t1", entries[0].ID)
	assert.Equal(t, "t2", entries[1].ID)
}

func TestWorkflow_EntryPoints_FallbackToRoots(t *testing.T) {
	wf := &Workflow{
		Nodes: []*Node{
			{ID: "a", Type: "noop"},
			{ID: "b", Type: "noop"},
			{ID: "c", Type: "noop"},
		},
		Connections: []*Connection{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
		},
	}

	entries := wf.EntryPoints()
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ID)
}

func TestWorkflow_EntryPoints_FullCycle(t *testing.T) {
	wf := &Workflow{
		Nodes: []*Node{
			{ID: "a", Type: "noop"},
			{ID: "b", Type: "noop"},
		},
		Connections: []*Connection{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "a"},
		},
	}

	assert.Empty(t, wf.EntryPoints())
}

func TestWorkflow_WithNodeParameters_Immutable(t *testing.T) {
	wf := &Workflow{
		ID:   "wf-1",
		Name: "Immutable",
		Nodes: []*Node{
			{ID: "s", Type: "setfields", Parameters: map[string]any{"old": true}},
		},
	}

	updated, err := wf.WithNodeParameters("s", map[string]any{"new": true})
	require.NoError(t, err)

	original, _ := wf.NodeByID("s")
	changed, _ := updated.NodeByID("s")

	assert.Equal(t, map[string]any{"old": true}, original.Parameters)
	assert.Equal(t, map[string]any{"new": true}, changed.Parameters)

	_, err = wf.WithNodeParameters("missing", nil)
	assert.Error(t, err)
}

func TestRunRecord_Summary(t *testing.T) {
	started := time.Now().UTC()
	stopped := started.Add(1500 * time.Millisecond)

	record := &RunRecord{
		ID:         "run-1",
		WorkflowID: "wf-1",
		Status:     RunStatusSuccess,
		Mode:       RunModeManual,
		StartedAt:  started,
		StoppedAt:  &stopped,
		NodeResults: map[string]NodeResult{
			"a": {NodeID: "a", Success: true, Attempts: 1},
			"b": {NodeID: "b", Success: true, Attempts: 1},
		},
		ExecutionOrder: []string{"a", "b"},
	}

	summary := record.Summary()
	assert.True(t, summary.Success)
	assert.Equal(t, int64(1500), summary.DurationMs)
	assert.Equal(t, 2, summary.NodesExecuted)
	assert.Equal(t, []string{"a", "b"}, summary.ExecutionOrder)
}

func TestRunRecord_JSONRoundTrip(t *testing.T) {
	record := &RunRecord{
		ID:         "run-9",
		WorkflowID: "wf-9",
		Status:     RunStatusError,
		Mode:       RunModeTrigger,
		StartedAt:  time.Now().UTC().Truncate(time.Millisecond),
		NodeResults: map[string]NodeResult{
			"h": {NodeID: "h", Success: false, Error: "boom", Attempts: 3},
		},
		ExecutionOrder: []string{},
		Error:          "boom",
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded RunRecord

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, record.ID, decoded.ID)
	assert.Equal(t, record.Status, decoded.Status)
	assert.Equal(t, "boom", decoded.NodeResults["h"].Error)
	assert.Equal(t, 3, decoded.NodeResults["h"].Attempts)
}

func TestNode_MaxTries(t *testing.T) {
	plain := &Node{ID: "n", Type: "noop"}
	assert.Equal(t, 1, plain.MaxTries())

	withRetry := &Node{ID: "n", Type: "noop", RetryPolicy: &RetryPolicy{MaxTries: 4}}
	assert.Equal(t, 4, withRetry.MaxTries())
}
