package dag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/mediagrid/internal/nodeid"
)

var (
	// ErrUnknownReference reports an edge, binding or task kind that does not resolve.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrDuplicateNode reports a node id declared more than once.
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrCyclicGraph reports a dependency cycle.
	ErrCyclicGraph = errors.New("cyclic graph")
	// ErrUnsatisfiedInput reports a required input with no literal, edge or default.
	ErrUnsatisfiedInput = errors.New("unsatisfied input")
	// ErrTypeMismatch reports an edge or literal incompatible with the input type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ValidationError is one structural problem, tagged with where it was found.
type ValidationError struct {
	// Kind is one of the sentinel errors of this package.
	Kind   error
	NodeID string
	// Handle is the input handle involved, if any.
	Handle string
	// Ref is the offending edge source, if any.
	Ref nodeid.Ref
	// Cycle is the node sequence of a cycle, first node repeated at the end.
	Cycle  []string
	Detail string
	// Origin is the source location of the node, e.g. "graph.hcl:4,1".
	Origin string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.NodeID != "" {
		fmt.Fprintf(&b, "node '%s'", e.NodeID)
		if e.Origin != "" {
			fmt.Fprintf(&b, " (%s)", e.Origin)
		}
	}
	if e.Handle != "" {
		fmt.Fprintf(&b, ", input '%s'", e.Handle)
	}
	if !e.Ref.IsZero() {
		fmt.Fprintf(&b, ", edge from '%s'", e.Ref)
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// ValidationErrors is the list of problems found by Validate.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("graph validation failed:\n- %s", strings.Join(msgs, "\n- "))
}

// Unwrap exposes each entry to errors.Is and errors.As.
func (es ValidationErrors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}
