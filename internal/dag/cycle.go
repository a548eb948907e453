package dag

import (
	"github.com/specialistvlad/mediagrid/internal/config"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
)

// findCycle runs a depth-first traversal over the edge relation, visiting
// roots and dependents in declaration order. It returns the first cycle found
// as a node sequence with the first node repeated at the end, or nil.
func findCycle(specs []*config.NodeSpec) []string {
	dependents := make(map[string][]string, len(specs))
	for _, spec := range specs {
		seen := make(map[string]bool)
		for _, b := range spec.Inputs {
			for _, ref := range b.From {
				if seen[ref.Node] {
					continue
				}
				seen[ref.Node] = true
				dependents[ref.Node] = append(dependents[ref.Node], spec.ID)
			}
		}
	}

	// Classic three-color DFS: done nodes are known to be outside any cycle,
	// onStack nodes are on the current traversal path.
	done := make(map[string]bool)
	onStack := make(map[string]int)
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		if done[id] {
			return nil
		}
		if pos, ok := onStack[id]; ok {
			cycle := append([]string(nil), stack[pos:]...)
			return append(cycle, id)
		}
		onStack[id] = len(stack)
		stack = append(stack, id)

		for _, next := range dependents[id] {
			if cycle := visit(next); cycle != nil {
				return cycle
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, id)
		done[id] = true
		return nil
	}

	for _, spec := range specs {
		if cycle := visit(spec.ID); cycle != nil {
			return cycle
		}
	}
	return nil
}

// cycleRef returns the edge that closes a cycle: the last node consuming the
// first one.
func cycleRef(specs map[string]*config.NodeSpec, cycle []string) nodeid.Ref {
	if len(cycle) < 2 {
		return nodeid.Ref{}
	}
	from, to := cycle[len(cycle)-2], cycle[len(cycle)-1]
	for _, b := range specs[to].Inputs {
		for _, ref := range b.From {
			if ref.Node == from {
				return ref
			}
		}
	}
	return nodeid.Ref{}
}
