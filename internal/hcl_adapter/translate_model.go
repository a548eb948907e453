// This file contains the logic for translating HCL schema structs into the
// format-agnostic graph definition defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/mediagrid/internal/config"
	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// translateNode converts the HCL-specific node schema into the agnostic model.
func (l *Loader) translateNode(ctx context.Context, n *Node, origin string) (*config.NodeSpec, error) {
	logger := ctxlog.FromContext(ctx).With("task", n.Task, "node_id", n.ID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL node to internal config model.")

	spec := &config.NodeSpec{
		ID:     n.ID,
		Task:   n.Task,
		Origin: origin,
	}
	if n.Description != nil {
		spec.Description = *n.Description
	}

	for _, in := range n.Inputs {
		b, err := l.translateInput(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("node '%s' (%s), input '%s': %w", n.ID, origin, in.Handle, err)
		}
		spec.Inputs = append(spec.Inputs, b)
	}
	return spec, nil
}

// translateInput evaluates the literal and the source list of one binding.
func (l *Loader) translateInput(ctx context.Context, in *Input) (*config.Binding, error) {
	b := &config.Binding{Handle: in.Handle}

	if isExprDefined(ctx, in.Value, "value") {
		val, diags := in.Value.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid literal value: %w", diags)
		}
		b.Value = &val
	}

	if isExprDefined(ctx, in.From, "from") {
		refs, err := parseSources(in.From)
		if err != nil {
			return nil, err
		}
		b.From = refs
	}

	return b, nil
}

// parseSources accepts `from = [a.out, b.out]`, a single `from = a.out`, or
// the quoted forms of either.
func parseSources(expr hcl.Expression) ([]nodeid.Ref, error) {
	items, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		items = []hcl.Expression{expr}
	}

	refs := make([]nodeid.Ref, 0, len(items))
	for _, item := range items {
		ref, err := parseSource(item)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func parseSource(expr hcl.Expression) (nodeid.Ref, error) {
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if !diags.HasErrors() {
		if len(traversal) != 2 {
			return nodeid.Ref{}, fmt.Errorf("invalid source %s: expected <node_id>.<output_handle>", expr.Range())
		}
		attr, ok := traversal[1].(hcl.TraverseAttr)
		if !ok {
			return nodeid.Ref{}, fmt.Errorf("invalid source %s: expected <node_id>.<output_handle>", expr.Range())
		}
		return nodeid.NewRef(traversal.RootName(), attr.Name), nil
	}

	val, valDiags := expr.Value(nil)
	if valDiags.HasErrors() || val.IsNull() || !val.Type().Equals(cty.String) {
		return nodeid.Ref{}, fmt.Errorf("invalid source %s: must be a reference like extract.audio_file", expr.Range())
	}
	return nodeid.ParseRef(val.AsString())
}
