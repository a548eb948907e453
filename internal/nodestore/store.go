// Package nodestore defines the interface for recording node results during
// one execution.
//
// # Why Node Store Exists
//
// The store is the only shared mutable structure of a run. It isolates the
// per-node outcomes (status, outputs, errors) written by workers from the
// immutable graph structure owned by `dag`, and it is what the resolver reads
// when it looks up an upstream output.
//
// # Write-Once Semantics
//
// Every node's result is recorded exactly once. Because a downstream node is
// only dispatched after its producers are recorded, outputs are never
// observed half-written and never change after they become visible.
package nodestore

import (
	"errors"

	"github.com/specialistvlad/mediagrid/internal/node"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// ErrAlreadyRecorded is returned when a node's result is written a second time.
var ErrAlreadyRecorded = errors.New("nodestore: result already recorded")

// Store records node results. Implementations must be safe for concurrent use.
type Store interface {
	// Record stores the result of a node. A second call for the same node
	// returns ErrAlreadyRecorded and leaves the first result in place.
	Record(nodeID string, res node.Result) error

	// Result returns the recorded result of a node.
	Result(nodeID string) (node.Result, bool)

	// Output returns one produced output value. It reports false when the
	// node has no recorded result or did not produce that handle.
	Output(ref nodeid.Ref) (cty.Value, bool)

	// Snapshot returns a copy of every recorded result keyed by node id.
	Snapshot() map[string]node.Result
}
