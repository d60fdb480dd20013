// Package web provides the HTTP API: inline execution, run history, the
// handler catalog, and workflow validation.
package web

import "github.com/nodeweave/weave/pkg/models"

// ExecuteRequest is the request body for executing an inline workflow graph.
type ExecuteRequest struct {
	Workflow *models.Workflow `json:"workflow" validate:"required"`
	Mode     models.RunMode   `json:"mode"     validate:"omitempty,oneof=manual trigger"`
}

// ValidateRequest is the request body for validating a workflow without
// running it.
type ValidateRequest struct {
	Workflow *models.Workflow `json:"workflow" validate:"required"`
}

// ValidateResponse reports the validation outcome per node.
type ValidateResponse struct {
	Valid  bool            `json:"valid"`
	Errors []ValidateIssue `json:"errors,omitempty"`
}

// ValidateIssue is one validation finding.
type ValidateIssue struct {
	NodeID string `json:"node_id,omitempty"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail"`
}

// HandlerInfo describes one registered node type in the catalog.
type HandlerInfo struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}
