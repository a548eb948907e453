// Package resolver decides the effective value of every input handle of a
// node just before it is invoked.
//
// Precedence, first applicable wins:
//
//  1. a non-empty literal configured on the binding;
//  2. the output of the single bound edge;
//  3. with several edges, the first one in declared order whose output is non-empty;
//  4. the handle's declared default;
//  5. ErrMissingValue for a required handle, the absent marker for an optional one.
//
// Several edges never concatenate. Combining sources is the job of a merge
// capability.
package resolver

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/node"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ErrMissingValue is returned when a required input resolves to nothing.
var ErrMissingValue = errors.New("missing value")

// MissingValueError names the node and handle that could not be resolved.
type MissingValueError struct {
	NodeID string
	Handle string
	// Tried lists the edges that were consulted and found empty.
	Tried []nodeid.Ref
}

func (e *MissingValueError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("node '%s': input '%s': %v", e.NodeID, e.Handle, ErrMissingValue)
	}
	return fmt.Sprintf("node '%s': input '%s': %v (no upstream produced a value: %v)", e.NodeID, e.Handle, ErrMissingValue, e.Tried)
}

func (e *MissingValueError) Unwrap() error { return ErrMissingValue }

// OutputReader gives read access to produced upstream outputs.
type OutputReader interface {
	Output(ref nodeid.Ref) (cty.Value, bool)
}

// Resolve computes the effective value of one input handle of n.
func Resolve(n *node.Node, handleName string, state OutputReader) (handle.Value, error) {
	h, ok := n.Contract.Input(handleName)
	if !ok {
		return handle.Value{}, fmt.Errorf("node '%s': task '%s' declares no input '%s'", n.ID, n.Kind, handleName)
	}

	v, err := pick(n, h, state)
	if err != nil || v.IsAbsent() {
		return v, err
	}

	converted, err := convert.Convert(v.Data, h.Type.Cty())
	if err != nil {
		return handle.Value{}, fmt.Errorf("node '%s': input '%s': value is not a valid %s: %w", n.ID, h.Name, h.Type, err)
	}
	v.Data = converted
	return v, nil
}

func pick(n *node.Node, h handle.Handle, state OutputReader) (handle.Value, error) {
	b := n.Spec.Binding(h.Name)

	if b.HasLiteral() && !handle.IsEmpty(*b.Value) {
		return handle.Value{Source: handle.Literal, Data: *b.Value}, nil
	}

	var tried []nodeid.Ref
	if b != nil {
		for _, ref := range b.From {
			out, ok := state.Output(ref)
			if ok && !handle.IsEmpty(out) {
				return handle.Value{Source: handle.Edge, Data: out, From: ref}, nil
			}
			tried = append(tried, ref)
		}
	}

	if h.HasDefault() {
		return handle.Value{Source: handle.Default, Data: *h.Default}, nil
	}
	if h.Optional {
		return handle.AbsentValue(), nil
	}
	return handle.Value{}, &MissingValueError{NodeID: n.ID, Handle: h.Name, Tried: tried}
}

// ResolveAll resolves every declared input of n. On failure it returns the
// first error in declaration order.
func ResolveAll(n *node.Node, state OutputReader) (handle.Values, error) {
	values := make(handle.Values, len(n.Contract.Inputs))
	for _, h := range n.Contract.Inputs {
		v, err := Resolve(n, h.Name, state)
		if err != nil {
			return nil, err
		}
		values[h.Name] = v
	}
	return values, nil
}
