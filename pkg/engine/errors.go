package engine

import (
	"errors"
	"fmt"
)

// Structural validation errors, detected before any node runs.
var (
	// ErrNoEntryPoint indicates a graph with no trigger node and no root.
	ErrNoEntryPoint = errors.New("workflow has no entry point")

	// ErrDanglingEdge indicates a connection naming a node that does not exist.
	ErrDanglingEdge = errors.New("connection references unknown node")

	// ErrDuplicateNodeID indicates two nodes sharing one identifier.
	ErrDuplicateNodeID = errors.New("duplicate node id")
)

// NodeExecutionError reports which node aborted a run.
type NodeExecutionError struct {
	NodeID string
	Type   string
	Err    error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %s (%s) failed: %v", e.NodeID, e.Type, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}
