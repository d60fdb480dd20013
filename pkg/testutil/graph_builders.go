// Package testutil provides test data builders for nodes and workflow graphs.
package testutil

import (
	"github.com/google/uuid"

	"github.com/nodeweave/weave/pkg/models"
)

// CreateTestNode creates a Node with sensible defaults that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:         uuid.New().String(),
		Type:       "noop",
		Label:      "Test Node",
		Parameters: map[string]any{},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithManualTrigger configures the node as a manual trigger entry point.
func WithManualTrigger() func(*models.Node) {
	return func(n *models.Node) {
		n.Type = models.NodeTypeTriggerManual
		n.Label = "Manual Trigger"
	}
}

// WithID sets the node ID.
func WithID(id string) func(*models.Node) {
	return func(n *models.Node) {
		n.ID = id
	}
}

// WithType sets the node type.
func WithType(nodeType string) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = nodeType
	}
}

// WithLabel sets the node label.
func WithLabel(label string) func(*models.Node) {
	return func(n *models.Node) {
		n.Label = label
	}
}

// WithParameters sets the node parameters.
func WithParameters(params map[string]any) func(*models.Node) {
	return func(n *models.Node) {
		n.Parameters = params
	}
}

// WithDisabled marks the node as disabled.
func WithDisabled() func(*models.Node) {
	return func(n *models.Node) {
		n.Disabled = true
	}
}

// WithContinueOnFail lets the node absorb handler errors instead of
// aborting the run.
func WithContinueOnFail() func(*models.Node) {
	return func(n *models.Node) {
		n.ContinueOnFail = true
	}
}

// WithRetryPolicy sets the retry budget for the node.
func WithRetryPolicy(maxTries, waitMS int) func(*models.Node) {
	return func(n *models.Node) {
		n.RetryPolicy = &models.RetryPolicy{
			MaxTries:         maxTries,
			WaitBetweenTries: waitMS,
		}
	}
}

// CreateTestWorkflow creates a Workflow with default values that can be
// overridden. The default graph has a manual trigger wired to a noop node,
// which is the smallest graph the engine accepts.
func CreateTestWorkflow(overrides ...func(*models.Workflow)) *models.Workflow {
	trigger := CreateTestNode(WithManualTrigger(), WithID("start"))
	step := CreateTestNode(WithID("step"))

	workflow := &models.Workflow{
		ID:    uuid.New().String(),
		Name:  "Test Workflow",
		Nodes: []*models.Node{trigger, step},
		Connections: []*models.Connection{
			{Source: "start", Target: "step"},
		},
	}

	for _, override := range overrides {
		override(workflow)
	}

	return workflow
}

// WithWorkflowID sets the workflow ID.
func WithWorkflowID(id string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.ID = id
	}
}

// WithNodes replaces the workflow node list.
func WithNodes(nodes ...*models.Node) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Nodes = nodes
	}
}

// WithConnections replaces the workflow connection list.
func WithConnections(connections ...*models.Connection) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Connections = connections
	}
}

// WithVariables sets the workflow variables.
func WithVariables(vars map[string]any) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Variables = vars
	}
}

// Connect builds a connection between two node IDs.
func Connect(source, target string) *models.Connection {
	return &models.Connection{Source: source, Target: target}
}
