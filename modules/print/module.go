// Package print logs the value it receives. It is mostly useful for
// inspecting what an upstream node produced.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the printed lines. Defaults to stdout.
	Out io.Writer
}

var contract = handle.Contract{
	Description: "Prints a value.",
	Inputs: []handle.Handle{
		handle.In("value", handle.Any).AsOptional(),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	ctxlog.FromContext(ctx).Info("Printing input")
	out := m.Out
	if out == nil {
		out = os.Stdout
	}

	v, ok := inv.Inputs.Get("value")
	if !ok || v.IsNull() {
		fmt.Fprintln(out, "      (null)")
		return nil, nil
	}
	for _, line := range render(v) {
		fmt.Fprintf(out, "      %s\n", line)
	}
	return nil, nil
}

// render flattens maps and objects into sorted key = value lines.
func render(v cty.Value) []string {
	if !v.IsKnown() {
		return []string{"(unknown)"}
	}
	t := v.Type()
	if !t.IsMapType() && !t.IsObjectType() {
		return []string{scalar(v)}
	}

	lines := make([]string, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		k, e := it.Element()
		lines = append(lines, fmt.Sprintf("%s = %s", k.AsString(), scalar(e)))
	}
	sort.Strings(lines)
	return lines
}

func scalar(v cty.Value) string {
	switch {
	case v.IsNull():
		return "null"
	case v.Type() == cty.String:
		return fmt.Sprintf("%q", v.AsString())
	case v.Type() == cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case v.Type() == cty.Bool:
		return fmt.Sprintf("%t", v.True())
	default:
		return v.GoString()
	}
}

// Register registers the capability with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("print", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
