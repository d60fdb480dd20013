// Package events defines the run-lifecycle notifications published while a
// workflow executes.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/nodeweave/weave/pkg/models"
)

type EventType string

// Topic carries every run-lifecycle event.
const Topic = "weave.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	RunStartedEvent    EventType = "run.started"
	NodeCompletedEvent EventType = "node.completed"
	RunFinishedEvent   EventType = "run.finished"
	RunFailedEvent     EventType = "run.failed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type RunStarted struct {
	BaseEvent

	RunID        string         `json:"run_id"`
	WorkflowName string         `json:"workflow_name"`
	Mode         models.RunMode `json:"mode"`
	Variables    map[string]any `json:"variables,omitempty"`
}

func (e RunStarted) GetType() EventType {
	return RunStartedEvent
}

type NodeCompleted struct {
	BaseEvent

	RunID      string `json:"run_id"`
	NodeID     string `json:"node_id"`
	NodeType   string `json:"node_type"`
	Success    bool   `json:"success"`
	ItemCount  int    `json:"item_count"`
	Attempts   int    `json:"attempts"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func (e NodeCompleted) GetType() EventType {
	return NodeCompletedEvent
}

type RunFinished struct {
	BaseEvent

	RunID         string `json:"run_id"`
	Status        string `json:"status"`
	DurationMs    int64  `json:"duration_ms"`
	NodesExecuted int    `json:"nodes_executed"`
}

func (e RunFinished) GetType() EventType {
	return RunFinishedEvent
}

type RunFailed struct {
	BaseEvent

	RunID         string `json:"run_id"`
	Status        string `json:"status"`
	DurationMs    int64  `json:"duration_ms"`
	NodesExecuted int    `json:"nodes_executed"`
	FailedNodeID  string `json:"failed_node_id,omitempty"`
	Error         string `json:"error"`
}

func (e RunFailed) GetType() EventType {
	return RunFailedEvent
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Metadata:   make(map[string]any),
	}
}
