package executor

import (
	"maps"
	"time"

	"github.com/specialistvlad/mediagrid/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Report is the outcome of one execution.
type Report struct {
	RunID string
	// Results holds every node's outcome. Outputs of nodes that save a file
	// carry the path in the run's work directory until the app relocates
	// them to the saved copy once the session closes.
	Results map[string]node.Result
	// Order lists node ids in the order they were dispatched.
	Order     []string
	Cancelled bool
	Started   time.Time
	Finished  time.Time
}

// Relocate points a node's output at path, leaving the other outputs alone.
// Unknown nodes and outputs are ignored.
func (r *Report) Relocate(nodeID, output, path string) {
	res, ok := r.Results[nodeID]
	if !ok {
		return
	}
	if _, ok := res.Outputs[output]; !ok {
		return
	}
	outs := maps.Clone(res.Outputs)
	outs[output] = cty.StringVal(path)
	res.Outputs = outs
	r.Results[nodeID] = res
}

// Succeeded reports whether the run completed with no Failed node.
func (r *Report) Succeeded() bool {
	if r.Cancelled {
		return false
	}
	for _, res := range r.Results {
		if res.Status == node.Failed {
			return false
		}
	}
	return true
}

// Statuses returns the status of every node.
func (r *Report) Statuses() map[string]node.Status {
	out := make(map[string]node.Status, len(r.Results))
	for id, res := range r.Results {
		out[id] = res.Status
	}
	return out
}

// Count returns how many nodes ended with the given status.
func (r *Report) Count(status node.Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Outcome is a one-word summary used in logs and metrics.
func (r *Report) Outcome() string {
	switch {
	case r.Cancelled:
		return "cancelled"
	case !r.Succeeded():
		return "failed"
	default:
		return "succeeded"
	}
}
