// Package env_var reads a single environment variable into the graph.
package env_var

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Lookup replaces os.LookupEnv, mainly for tests.
	Lookup func(string) (string, bool)
}

var contract = handle.Contract{
	Description: "Reads an environment variable.",
	Inputs: []handle.Handle{
		handle.In("name", handle.String),
		handle.In("fallback", handle.String).AsOptional().
			Describe("Used when the variable is unset. Without it an unset variable fails the node."),
	},
	Outputs: []handle.Handle{
		handle.Out("value", handle.String),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	lookup := m.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	in := inv.Inputs.Reader()
	name := in.String("name")
	fallback := in.String("fallback")
	if err := in.Err(); err != nil {
		return nil, err
	}
	value, ok := lookup(name)
	if !ok {
		if !inv.Inputs.Has("fallback") {
			return nil, fmt.Errorf("environment variable '%s' is not set", name)
		}
		value = fallback
	}
	return handle.Outputs{"value": cty.StringVal(value)}, nil
}

// Register registers the capability with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("env_var", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
