package models

import "strings"

// Built-in trigger node types. A node with one of these types is an entry
// point: it seeds the initial Item sequence and starts a run.
const (
	NodeTypeTriggerManual   = "trigger:manual"
	NodeTypeTriggerSchedule = "trigger:schedule"
	NodeTypeTriggerWebhook  = "trigger:webhook"
	NodeTypeTriggerForm     = "trigger:form"
	NodeTypeTriggerChat     = "trigger:chat"
	NodeTypeTriggerEmail    = "trigger:email"
)

const triggerTypePrefix = "trigger:"

// IsTriggerType reports whether a node type tag belongs to the trigger family.
func IsTriggerType(nodeType string) bool {
	return strings.HasPrefix(nodeType, triggerTypePrefix)
}

// RetryPolicy controls walker-level retries for a single node.
type RetryPolicy struct {
	// MaxTries is the total number of attempts, including the first one.
	MaxTries int `json:"max_tries"          validate:"min=1,max=10"`
	// WaitBetweenTries is the pause between attempts in milliseconds.
	WaitBetweenTries int `json:"wait_between_tries" validate:"min=0,max=30000"`
}

// Node is a typed, parameterized unit of work in a workflow graph. Nodes are
// created by the graph author before a run starts and are immutable for the
// duration of one run; the engine never mutates Parameters.
type Node struct {
	ID             string         `json:"id"                         validate:"required"`
	Type           string         `json:"type"                       validate:"required"`
	Label          string         `json:"label"`
	Parameters     map[string]any `json:"parameters,omitempty"`
	Disabled       bool           `json:"disabled,omitempty"`
	ContinueOnFail bool           `json:"continue_on_fail,omitempty"`
	RetryPolicy    *RetryPolicy   `json:"retry_policy,omitempty"`
}

// IsTrigger reports whether this node is an entry point for a run.
func (n *Node) IsTrigger() bool {
	return IsTriggerType(n.Type)
}

// MaxTries returns the effective attempt budget for the node.
func (n *Node) MaxTries() int {
	if n.RetryPolicy == nil || n.RetryPolicy.MaxTries < 1 {
		return 1
	}

	return n.RetryPolicy.MaxTries
}

// WithParameters returns a copy of the node carrying the given parameters.
// The receiver is left untouched: live parameter editing goes through this
// instead of writing into a shared map.
func (n *Node) WithParameters(params map[string]any) *Node {
	clone := *n

	copied := make(map[string]any, len(params))
	for k, v := range params {
		copied[k] = v
	}

	clone.Parameters = copied

	return &clone
}
