package config

import (
	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// Definition is the unified, format-agnostic representation of one graph.
type Definition struct {
	Nodes []*NodeSpec
}

// NodeSpec is one node as authored.
type NodeSpec struct {
	ID   string
	Task string
	// Description is free text carried for logs and listings.
	Description string
	Inputs      []*Binding
	// Origin points at the source location, e.g. "graph.hcl:12,1".
	Origin string
}

// Binding attaches a literal and/or upstream sources to one input handle.
type Binding struct {
	Handle string
	// Value is nil when no literal was written.
	Value *cty.Value
	// From lists upstream outputs in declared order.
	From []nodeid.Ref
}

// HasLiteral reports whether a literal was written for the binding, even an
// empty one.
func (b *Binding) HasLiteral() bool {
	return b != nil && b.Value != nil
}

// Binding returns the binding for a handle, or nil.
func (n *NodeSpec) Binding(handle string) *Binding {
	for _, b := range n.Inputs {
		if b.Handle == handle {
			return b
		}
	}
	return nil
}

// Merge appends the nodes of other definitions after the nodes of d.
func (d *Definition) Merge(others ...*Definition) *Definition {
	out := &Definition{Nodes: append([]*NodeSpec(nil), d.Nodes...)}
	for _, o := range others {
		if o == nil {
			continue
		}
		out.Nodes = append(out.Nodes, o.Nodes...)
	}
	return out
}

// Literal is a convenience for building bindings in code.
func Literal(v cty.Value) *cty.Value {
	return &v
}
