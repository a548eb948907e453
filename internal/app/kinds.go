package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/zclconf/go-cty/cty"
)

// WriteKinds lists every registered task kind with its handles.
func (a *App) WriteKinds(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, kind := range a.registry.Kinds() {
		c, _ := a.registry.Lookup(kind)
		contract := c.Contract()
		fmt.Fprintf(tw, "%s\t%s\n", kind, contract.Description)
		for _, h := range contract.Inputs {
			fmt.Fprintf(tw, "  in  %s\t%s\t%s\n", h.Name, h.Type, inputNote(h))
		}
		for _, h := range contract.Outputs {
			fmt.Fprintf(tw, "  out %s\t%s\t\n", h.Name, h.Type)
		}
	}
	return tw.Flush()
}

func inputNote(h handle.Handle) string {
	var notes []string
	switch {
	case h.HasDefault():
		notes = append(notes, "default "+literal(*h.Default))
	case h.Optional:
		notes = append(notes, "optional")
	default:
		notes = append(notes, "required")
	}
	if h.Description != "" {
		notes = append(notes, h.Description)
	}
	return strings.Join(notes, ", ")
}

func literal(v cty.Value) string {
	switch v.Type() {
	case cty.String:
		return fmt.Sprintf("%q", v.AsString())
	case cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case cty.Bool:
		return fmt.Sprintf("%t", v.True())
	default:
		return v.GoString()
	}
}
