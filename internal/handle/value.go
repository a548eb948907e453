package handle

import (
	"fmt"

	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Source records which resolution rule produced a Value.
type Source int

const (
	// Absent marks an optional input that nothing supplied.
	Absent Source = iota
	// Literal values were configured directly on the binding.
	Literal
	// Edge values were produced by an upstream node.
	Edge
	// Default values come from the capability contract.
	Default
)

func (s Source) String() string {
	switch s {
	case Literal:
		return "literal"
	case Edge:
		return "edge"
	case Default:
		return "default"
	default:
		return "absent"
	}
}

// Value is the effective runtime value of one input handle.
type Value struct {
	Source Source
	Data   cty.Value
	// From is set when Source is Edge.
	From nodeid.Ref
}

// AbsentValue is the explicit marker for an unsupplied optional input.
func AbsentValue() Value {
	return Value{Source: Absent, Data: cty.NullVal(cty.DynamicPseudoType)}
}

// IsAbsent reports whether the value is the absent marker.
func (v Value) IsAbsent() bool {
	return v.Source == Absent
}

// IsEmpty reports whether v carries no usable data: null, unknown, the empty
// string, or an empty collection. Zero numbers and false are not empty.
func IsEmpty(v cty.Value) bool {
	if v.IsNull() || !v.IsKnown() {
		return true
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString() == ""
	case ty.IsListType(), ty.IsSetType(), ty.IsMapType(), ty.IsTupleType():
		return v.LengthInt() == 0
	case ty.IsObjectType():
		return len(ty.AttributeTypes()) == 0
	}
	return false
}

// Values holds the resolved inputs of one node invocation, keyed by handle name.
type Values map[string]Value

// Get returns the raw value of a handle that was supplied.
func (vs Values) Get(name string) (cty.Value, bool) {
	v, ok := vs[name]
	if !ok || v.IsAbsent() || v.Data.IsNull() {
		return cty.NilVal, false
	}
	return v.Data, true
}

// Has reports whether the handle resolved to a non-absent value.
func (vs Values) Has(name string) bool {
	_, ok := vs.Get(name)
	return ok
}

// Decode converts the handle's value into target, which must be a pointer.
func (vs Values) Decode(name string, target any) error {
	v, ok := vs.Get(name)
	if !ok {
		return fmt.Errorf("input %q has no value", name)
	}
	if err := gocty.FromCtyValue(v, target); err != nil {
		return fmt.Errorf("decoding input %q: %w", name, err)
	}
	return nil
}

// Reader returns a Reader over vs.
func (vs Values) Reader() *Reader {
	return &Reader{vs: vs}
}

// Reader reads typed inputs and keeps the first decoding error. Unset
// handles read as the zero value and are not an error; a value that does not
// fit the requested Go type, such as 90.5 read as an int, is.
type Reader struct {
	vs  Values
	err error
}

func (r *Reader) read(name string, target any) {
	if r.err != nil || !r.vs.Has(name) {
		return
	}
	r.err = r.vs.Decode(name, target)
}

// String reads a string input.
func (r *Reader) String(name string) string {
	var s string
	r.read(name, &s)
	return s
}

// Float reads a number input as a float64.
func (r *Reader) Float(name string) float64 {
	var f float64
	r.read(name, &f)
	return f
}

// Int reads a number input that must be a whole number.
func (r *Reader) Int(name string) int {
	var i int
	r.read(name, &i)
	return i
}

// Bool reads a bool input.
func (r *Reader) Bool(name string) bool {
	var b bool
	r.read(name, &b)
	return b
}

// Strings reads a list input as a string slice.
func (r *Reader) Strings(name string) []string {
	var out []string
	r.read(name, &out)
	return out
}

// Err returns the first decoding error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Outputs are the values a capability produced, keyed by output handle name.
type Outputs map[string]cty.Value
