package models

import "time"

// RunMode distinguishes user-initiated runs from trigger-initiated ones.
type RunMode string

const (
	RunModeManual  RunMode = "manual"
	RunModeTrigger RunMode = "trigger"
)

// RunStatus is the lifecycle state of one run. A run transitions exactly once
// from running to a terminal state.
type RunStatus string

const (
	RunStatusNew     RunStatus = "new"
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
)

// Terminal reports whether the status is an end state.
func (s RunStatus) Terminal() bool {
	return s == RunStatusSuccess || s == RunStatusError
}

// NodeResult is the recorded outcome of executing one node within one run.
type NodeResult struct {
	NodeID     string    `json:"node_id"`
	Success    bool      `json:"success"`
	Data       []Item    `json:"data,omitempty"`
	Error      string    `json:"error,omitempty"`
	ExecutedAt time.Time `json:"executed_at"`
	DurationMs int64     `json:"duration_ms"`
	Attempts   int       `json:"attempts"`
}

// RunRecord is one end-to-end execution of a graph. The engine exclusively
// owns the in-flight record; once terminal it is handed to the run recorder
// and becomes read-only.
type RunRecord struct {
	ID             string                `json:"id"`
	WorkflowID     string                `json:"workflow_id"`
	Status         RunStatus             `json:"status"`
	Mode           RunMode               `json:"mode"`
	StartedAt      time.Time             `json:"started_at"`
	StoppedAt      *time.Time            `json:"stopped_at,omitempty"`
	NodeResults    map[string]NodeResult `json:"node_results"`
	ExecutionOrder []string              `json:"execution_order"`
	Error          string                `json:"error,omitempty"`
}

// Summary condenses the record into the shape returned by Engine.Execute.
func (r *RunRecord) Summary() *RunSummary {
	var durationMs int64
	if r.StoppedAt != nil {
		durationMs = r.StoppedAt.Sub(r.StartedAt).Milliseconds()
	}

	return &RunSummary{
		RunID:          r.ID,
		Success:        r.Status == RunStatusSuccess,
		DurationMs:     durationMs,
		NodesExecuted:  len(r.NodeResults),
		NodeResults:    r.NodeResults,
		ExecutionOrder: r.ExecutionOrder,
		ExecutedAt:     r.StartedAt,
		Error:          r.Error,
	}
}

// RunSummary is the caller-facing result of one run.
type RunSummary struct {
	RunID          string                `json:"run_id"`
	Success        bool                  `json:"success"`
	DurationMs     int64                 `json:"duration_ms"`
	NodesExecuted  int                   `json:"nodes_executed"`
	NodeResults    map[string]NodeResult `json:"node_results"`
	ExecutionOrder []string              `json:"execution_order"`
	ExecutedAt     time.Time             `json:"executed_at"`
	Error          string                `json:"error,omitempty"`
}

// RunContext is the per-run scope handed to handlers: run identity plus the
// reserved-variable table resolved by expressions and the scripting sandbox.
type RunContext struct {
	RunID        string         `json:"run_id"`
	WorkflowID   string         `json:"workflow_id"`
	WorkflowName string         `json:"workflow_name"`
	Mode         RunMode        `json:"mode"`
	Vars         map[string]any `json:"vars,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
}

// WorkflowScope returns the $workflow reserved variable payload.
func (rc RunContext) WorkflowScope() map[string]any {
	return map[string]any{
		"id":     rc.WorkflowID,
		"name":   rc.WorkflowName,
		"active": true,
	}
}

// ExecutionScope returns the $execution reserved variable payload.
func (rc RunContext) ExecutionScope() map[string]any {
	return map[string]any{
		"id":   rc.RunID,
		"mode": string(rc.Mode),
	}
}
