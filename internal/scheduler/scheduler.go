package scheduler

import (
	"github.com/specialistvlad/mediagrid/internal/dag"
	"github.com/specialistvlad/mediagrid/internal/node"
)

// Blocked is a node that will never run because an upstream node did not succeed.
type Blocked struct {
	Node *node.Node
	// Cause is the id of the upstream node whose failure blocked this one.
	Cause string
}

type state int

const (
	waiting state = iota
	ready
	dispatched
	completed
	blocked
)

// Scheduler tracks dependency satisfaction for one execution.
type Scheduler struct {
	graph   *dag.Graph
	unmet   map[string]int
	states  map[string]state
	ready   []*node.Node
	settled int
}

// New creates a scheduler with every dependency-free node ready.
func New(g *dag.Graph) *Scheduler {
	s := &Scheduler{
		graph:  g,
		unmet:  make(map[string]int, g.Len()),
		states: make(map[string]state, g.Len()),
	}
	for _, n := range g.Nodes() {
		s.unmet[n.ID] = len(n.Deps)
		if len(n.Deps) == 0 {
			s.states[n.ID] = ready
			s.ready = append(s.ready, n)
		}
	}
	return s
}

// Next pops the ready node declared first. It reports false when nothing is
// ready right now.
func (s *Scheduler) Next() (*node.Node, bool) {
	if len(s.ready) == 0 {
		return nil, false
	}
	n := s.ready[0]
	s.ready = s.ready[1:]
	s.states[n.ID] = dispatched
	return n, true
}

// Complete records the outcome of a dispatched node. On success its
// dependents may become ready; otherwise every transitive dependent is
// blocked and returned.
func (s *Scheduler) Complete(n *node.Node, succeeded bool) []Blocked {
	s.states[n.ID] = completed
	s.settled++

	if succeeded {
		for _, d := range n.Dependents {
			s.unmet[d.ID]--
			if s.unmet[d.ID] == 0 && s.states[d.ID] == waiting {
				s.states[d.ID] = ready
				s.ready = dag.InsertByIndex(s.ready, d)
			}
		}
		return nil
	}
	return s.block(n)
}

func (s *Scheduler) block(root *node.Node) []Blocked {
	var out []Blocked
	queue := append([]*node.Node(nil), root.Dependents...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if st := s.states[n.ID]; st != waiting {
			continue
		}
		s.states[n.ID] = blocked
		s.settled++
		out = append(out, Blocked{Node: n, Cause: root.ID})
		queue = append(queue, n.Dependents...)
	}
	return out
}

// Pending returns, in declaration order, every node that has not been
// dispatched, completed or blocked, and marks them settled. Used when a run
// is cancelled.
func (s *Scheduler) Pending() []*node.Node {
	var out []*node.Node
	for _, n := range s.graph.Nodes() {
		if st := s.states[n.ID]; st == waiting || st == ready {
			s.states[n.ID] = blocked
			s.settled++
			out = append(out, n)
		}
	}
	s.ready = nil
	return out
}

// Done reports whether every node has been completed or blocked.
func (s *Scheduler) Done() bool {
	return s.settled == s.graph.Len()
}
