package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/node"
	"github.com/specialistvlad/mediagrid/internal/nodestore"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/specialistvlad/mediagrid/internal/resolver"
	"github.com/specialistvlad/mediagrid/internal/session"
	"github.com/zclconf/go-cty/cty/convert"
)

// runNode resolves and invokes one node. It runs on a worker goroutine and
// never touches run state other than reading the store.
func (e *Executor) runNode(ctx context.Context, n *node.Node, store nodestore.Store, sess *session.Session) node.Result {
	logger := ctxlog.FromContext(ctx).With("nodeID", n.ID, "kind", n.Kind)
	ctx = ctxlog.WithLogger(ctx, logger)

	if err := ctx.Err(); err != nil {
		return node.Result{Status: node.Cancelled, Err: err, Reason: "run cancelled before the node started"}
	}

	inputs, err := resolver.ResolveAll(n, store)
	if err != nil {
		if errors.Is(err, resolver.ErrMissingValue) {
			logger.Warn("Skipping node, an input has no value.", "error", err)
			return node.Result{Status: node.Skipped, Err: err, Reason: err.Error()}
		}
		logger.Error("Resolving node inputs failed.", "error", err)
		return node.Result{Status: node.Failed, Err: err}
	}
	logger.Debug("Node inputs resolved.", "inputs", formatValuesForLogs(inputs))

	capability, ok := e.registry.Lookup(n.Kind)
	if !ok {
		return node.Result{Status: node.Failed, Err: fmt.Errorf("task kind '%s' is not registered", n.Kind)}
	}

	logger.Info("▶️ Starting node")
	res := node.Result{Started: e.now()}
	outputs, err := invoke(ctx, capability, &registry.Invocation{NodeID: n.ID, Inputs: inputs, Session: sess})
	res.Finished = e.now()
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Node interrupted by cancellation.", "error", err)
			res.Status, res.Err, res.Reason = node.Cancelled, err, "run cancelled while the node was running"
			return res
		}
		logger.Error("Node execution failed.", "error", err, "duration", res.Duration())
		res.Status, res.Err = node.Failed, err
		return res
	}

	res.Outputs = declaredOutputs(ctx, n, outputs)
	res.Status = node.Succeeded
	logger.Info("✅ Finished node", "duration", res.Duration())
	return res
}

// invoke calls the capability, turning a panic into an error.
func invoke(ctx context.Context, c registry.Capability, inv *registry.Invocation) (out handle.Outputs, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Capability panicked.", "panic", r, "stack", string(debug.Stack()))
			out, err = nil, fmt.Errorf("capability panicked: %v", r)
		}
	}()
	return c.Invoke(ctx, inv)
}

// declaredOutputs keeps only the outputs the contract declares, converted to
// their declared type.
func declaredOutputs(ctx context.Context, n *node.Node, outputs handle.Outputs) handle.Outputs {
	logger := ctxlog.FromContext(ctx)
	kept := make(handle.Outputs, len(outputs))
	for name, v := range outputs {
		h, ok := n.Contract.Output(name)
		if !ok {
			logger.Warn("Dropping undeclared output.", "output", name)
			continue
		}
		converted, err := convert.Convert(v, h.Type.Cty())
		if err != nil {
			logger.Warn("Dropping output of the wrong type.", "output", name, "type", h.Type, "error", err)
			continue
		}
		kept[name] = converted
	}
	return kept
}

func formatValuesForLogs(vs handle.Values) map[string]string {
	out := make(map[string]string, len(vs))
	for name, v := range vs {
		if v.IsAbsent() {
			out[name] = "<absent>"
			continue
		}
		out[name] = fmt.Sprintf("%s=%s", v.Source, v.Data.GoString())
	}
	return out
}
