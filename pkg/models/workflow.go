package models

import "fmt"

// Connection is a directed link from one node's output to another node's
// input. OutputSlot is an advisory hint produced by branching nodes
// (conditional, switch); it is preserved as data for callers and not
// enforced by the walker.
type Connection struct {
	Source     string `json:"source"                validate:"required"`
	Target     string `json:"target"                validate:"required"`
	OutputSlot string `json:"output_slot,omitempty"`
}

// Workflow is the unit of execution input: an ordered sequence of nodes plus
// the directed connections between them. The engine only ever reads a frozen
// snapshot of the graph for the duration of one run.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Nodes       []*Node        `json:"nodes"       validate:"required,min=1,dive,required"`
	Connections []*Connection  `json:"connections" validate:"dive,required"`
	Variables   map[string]any `json:"variables,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NodeByID finds a node in the graph.
func (w *Workflow) NodeByID(id string) (*Node, bool) {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node, true
		}
	}

	return nil, false
}

// Successors returns the outgoing connections of a node, in graph order.
func (w *Workflow) Successors(nodeID string) []*Connection {
	var out []*Connection

	for _, conn := range w.Connections {
		if conn.Source == nodeID {
			out = append(out, conn)
		}
	}

	return out
}

// EntryPoints returns the run's entry nodes in graph order: every node with a
// trigger type, or, for graphs authored without typed triggers, every node
// with no incoming connection.
func (w *Workflow) EntryPoints() []*Node {
	var triggers []*Node

	for _, node := range w.Nodes {
		if node.IsTrigger() {
			triggers = append(triggers, node)
		}
	}

	if len(triggers) > 0 {
		return triggers
	}

	incoming := make(map[string]int, len(w.Nodes))
	for _, conn := range w.Connections {
		incoming[conn.Target]++
	}

	var roots []*Node

	for _, node := range w.Nodes {
		if incoming[node.ID] == 0 {
			roots = append(roots, node)
		}
	}

	return roots
}

// WithNodeParameters returns a copy of the workflow in which one node carries
// new parameters. The original workflow and its nodes are not modified.
func (w *Workflow) WithNodeParameters(nodeID string, params map[string]any) (*Workflow, error) {
	clone := *w
	clone.Nodes = make([]*Node, len(w.Nodes))

	found := false

	for n, node := range w.Nodes {
		if node.ID == nodeID {
			clone.Nodes[n] = node.WithParameters(params)
			found = true

			continue
		}

		clone.Nodes[n] = node
	}

	if !found {
		return nil, fmt.Errorf("node %s not found in workflow %s", nodeID, w.ID)
	}

	return &clone, nil
}
