package testutil

import (
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/zclconf/go-cty/cty"
)

// Inputs builds the resolved inputs a capability would receive for the given
// literals: supplied names become literals, the rest fall back to the
// contract defaults or the absent marker.
func Inputs(c handle.Contract, literals map[string]cty.Value) handle.Values {
	vs := make(handle.Values, len(c.Inputs))
	for _, h := range c.Inputs {
		switch v, ok := literals[h.Name]; {
		case ok:
			vs[h.Name] = handle.Value{Source: handle.Literal, Data: v}
		case h.HasDefault():
			vs[h.Name] = handle.Value{Source: handle.Default, Data: *h.Default}
		default:
			vs[h.Name] = handle.AbsentValue()
		}
	}
	return vs
}
