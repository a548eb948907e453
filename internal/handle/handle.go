package handle

import (
	"github.com/zclconf/go-cty/cty"
)

// Direction tags a handle as an input or an output.
type Direction int

const (
	// Input handles receive values.
	Input Direction = iota
	// Output handles produce values.
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Handle is a named, typed slot on a node.
type Handle struct {
	Name        string
	Direction   Direction
	Type        *Type
	Description string
	// Default is used only when no literal and no edge supply a value.
	Default *cty.Value
	// Optional inputs resolve to the absent marker instead of failing.
	Optional bool
}

// In declares a required input handle.
func In(name string, t *Type) Handle {
	return Handle{Name: name, Direction: Input, Type: t}
}

// Out declares an output handle.
func Out(name string, t *Type) Handle {
	return Handle{Name: name, Direction: Output, Type: t}
}

// WithDefault returns a copy of h with a declared default.
func (h Handle) WithDefault(v cty.Value) Handle {
	h.Default = &v
	return h
}

// AsOptional returns a copy of h that may remain unset.
func (h Handle) AsOptional() Handle {
	h.Optional = true
	return h
}

// Describe returns a copy of h with a human-readable description.
func (h Handle) Describe(desc string) Handle {
	h.Description = desc
	return h
}

// Required reports whether the input must be covered by a literal, an edge or
// a default.
func (h Handle) Required() bool {
	return h.Direction == Input && !h.Optional
}

// HasDefault reports whether a default value is declared.
func (h Handle) HasDefault() bool {
	return h.Default != nil
}

// Contract is the declared handle set of a capability.
type Contract struct {
	Description string
	Inputs      []Handle
	Outputs     []Handle
}

// Input looks up a declared input handle by name.
func (c Contract) Input(name string) (Handle, bool) {
	return find(c.Inputs, name)
}

// Output looks up a declared output handle by name.
func (c Contract) Output(name string) (Handle, bool) {
	return find(c.Outputs, name)
}

func find(hs []Handle, name string) (Handle, bool) {
	for _, h := range hs {
		if h.Name == name {
			return h, true
		}
	}
	return Handle{}, false
}
