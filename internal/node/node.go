// Package node defines a vertex of a validated graph and the outcome of
// executing it.
package node

import (
	"time"

	"github.com/specialistvlad/mediagrid/internal/config"
	"github.com/specialistvlad/mediagrid/internal/handle"
)

// Node is a single vertex in the execution graph, one configured invocation
// of a capability.
type Node struct {
	// ID is the unique node id from the definition.
	ID string
	// Kind is the task kind, i.e. the registry key of the capability.
	Kind string
	// Index is the declaration position, used to break scheduling ties.
	Index int
	// Spec is the node exactly as authored.
	Spec *config.NodeSpec
	// Contract is the capability's declared handle set.
	Contract handle.Contract

	// Deps are the distinct upstream nodes this node consumes, in declaration order.
	Deps []*Node
	// Dependents are the distinct downstream nodes, in declaration order.
	Dependents []*Node
}

// Status is the terminal or transient execution state of a node.
type Status int

const (
	// Pending indicates the node is waiting for its dependencies to complete.
	Pending Status = iota
	// Running indicates the node is currently being executed by a worker.
	Running
	// Succeeded indicates the capability returned without error.
	Succeeded
	// Failed indicates the capability returned an error.
	Failed
	// Skipped indicates the node was never invoked because an input could not
	// be resolved or an upstream node did not succeed.
	Skipped
	// Cancelled indicates the run was cancelled before the node finished.
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s >= Succeeded
}

// Result is the recorded outcome of one node.
type Result struct {
	Status  Status
	Outputs handle.Outputs
	// Err is the failure cause for Failed nodes, or the skip/cancel cause.
	Err error
	// Reason is a human-readable explanation for Skipped and Cancelled nodes.
	Reason   string
	Started  time.Time
	Finished time.Time
}

// Duration returns how long the invocation ran, or 0 if it never started.
func (r Result) Duration() time.Duration {
	if r.Started.IsZero() || r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}
