package dag

import (
	"slices"

	"github.com/specialistvlad/mediagrid/internal/node"
)

// Graph is a validated, immutable set of nodes and edges.
type Graph struct {
	nodes []*node.Node
	byID  map[string]*node.Node
}

// Nodes returns every node in declaration order.
func (g *Graph) Nodes() []*node.Node {
	return slices.Clone(g.nodes)
}

// Node returns a node by id.
func (g *Graph) Node(id string) (*node.Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Order returns a topological order of the graph. Among nodes whose
// dependencies are all satisfied, the one declared first comes first.
func (g *Graph) Order() []*node.Node {
	indegree := make(map[string]int, len(g.nodes))
	var ready []*node.Node
	for _, n := range g.nodes {
		indegree[n.ID] = len(n.Deps)
		if len(n.Deps) == 0 {
			ready = append(ready, n)
		}
	}

	order := make([]*node.Node, 0, len(g.nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, d := range n.Dependents {
			indegree[d.ID]--
			if indegree[d.ID] == 0 {
				ready = InsertByIndex(ready, d)
			}
		}
	}
	return order
}

// InsertByIndex inserts n into a slice kept sorted by declaration index.
func InsertByIndex(s []*node.Node, n *node.Node) []*node.Node {
	i, _ := slices.BinarySearchFunc(s, n, func(a, b *node.Node) int { return a.Index - b.Index })
	return slices.Insert(s, i, n)
}
