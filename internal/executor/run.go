package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/dag"
	"github.com/specialistvlad/mediagrid/internal/node"
	"github.com/specialistvlad/mediagrid/internal/nodestore"
	"github.com/specialistvlad/mediagrid/internal/scheduler"
	"github.com/specialistvlad/mediagrid/internal/session"
	"golang.org/x/sync/errgroup"
)

// ErrUpstream is the cause recorded on nodes skipped because an upstream node
// did not succeed.
var ErrUpstream = errors.New("upstream node did not succeed")

type completion struct {
	node   *node.Node
	result node.Result
}

// Execute runs every node of g. The returned report is never nil. The error
// is non-nil when a node failed or the context was cancelled.
func (e *Executor) Execute(ctx context.Context, g *dag.Graph, sess *session.Session) (*Report, error) {
	logger := ctxlog.FromContext(ctx).With("runID", sess.RunID())
	ctx = ctxlog.WithLogger(ctx, logger)

	run := &runState{
		Executor: e,
		sess:     sess,
		sched:    scheduler.New(g),
		store:    e.newStore(),
		report: &Report{
			RunID:   sess.RunID(),
			Results: make(map[string]node.Result, g.Len()),
			Started: e.now(),
		},
	}

	logger.Info("🚀 Starting concurrent execution...", "nodes", g.Len(), "workers", e.workers)

	results := make(chan completion, g.Len())
	var eg errgroup.Group
	eg.SetLimit(e.workers)

	inflight := 0
	done := ctx.Done()
	for !run.sched.Done() {
		if !run.report.Cancelled && ctx.Err() != nil {
			run.cancel(ctx)
			done = nil
			continue
		}

		for !run.report.Cancelled && inflight < e.workers {
			n, ok := run.sched.Next()
			if !ok {
				break
			}
			inflight++
			run.report.Order = append(run.report.Order, n.ID)
			for _, o := range e.observers {
				o.NodeStarted(ctx, n)
			}
			eg.Go(func() error {
				results <- completion{node: n, result: e.runNode(ctx, n, run.store, sess)}
				return nil
			})
		}

		if inflight == 0 {
			// Nothing running and nothing ready; only reachable after cancellation.
			break
		}

		select {
		case c := <-results:
			inflight--
			run.settle(ctx, c)
		case <-done:
			run.cancel(ctx)
			done = nil
		}
	}

	_ = eg.Wait()
	run.report.Finished = e.now()
	logger.Info("🏁 Execution finished.",
		"outcome", run.report.Outcome(),
		"succeeded", run.report.Count(node.Succeeded),
		"failed", run.report.Count(node.Failed),
		"skipped", run.report.Count(node.Skipped),
		"cancelled", run.report.Count(node.Cancelled),
		"duration", run.report.Finished.Sub(run.report.Started),
	)
	for _, o := range e.observers {
		o.RunFinished(ctx, run.report)
	}

	return run.report, run.err(ctx, g)
}

// runState is the mutable state of one execution, owned by the dispatch loop.
type runState struct {
	*Executor
	sess   *session.Session
	sched  *scheduler.Scheduler
	store  nodestore.Store
	report *Report
}

func (r *runState) record(ctx context.Context, n *node.Node, res node.Result) {
	if err := r.store.Record(n.ID, res); err != nil {
		ctxlog.FromContext(ctx).Error("Dropping duplicate node result.", "nodeID", n.ID, "error", err)
		return
	}
	r.report.Results[n.ID] = res
	for _, o := range r.observers {
		o.NodeFinished(ctx, n, res)
	}
}

func (r *runState) settle(ctx context.Context, c completion) {
	logger := ctxlog.FromContext(ctx)
	res := c.result

	// Once the run is cancelled, failures of in-flight nodes are a consequence
	// of the cancellation rather than a defect of the node.
	if r.report.Cancelled && res.Status == node.Failed {
		res.Status = node.Cancelled
		res.Reason = "run cancelled while the node was running"
	}
	if res.Status != node.Succeeded {
		r.sess.Discard(c.node.ID)
	}
	r.record(ctx, c.node, res)

	for _, b := range r.sched.Complete(c.node, res.Status == node.Succeeded) {
		cause := r.report.Results[b.Cause]
		status := node.Skipped
		if cause.Status == node.Cancelled {
			status = node.Cancelled
		}
		logger.Warn("Skipping dependent node due to upstream outcome.", "nodeID", b.Node.ID, "dependency", b.Cause, "dependencyStatus", cause.Status)
		r.record(ctx, b.Node, node.Result{
			Status: status,
			Err:    fmt.Errorf("%w: '%s' is %s", ErrUpstream, b.Cause, cause.Status),
			Reason: fmt.Sprintf("upstream node '%s' is %s", b.Cause, cause.Status),
		})
	}
}

func (r *runState) cancel(ctx context.Context) {
	r.report.Cancelled = true
	pending := r.sched.Pending()
	ctxlog.FromContext(ctx).Warn("Context canceled, remaining nodes will not run.", "pending", len(pending))
	for _, n := range pending {
		r.record(ctx, n, node.Result{
			Status: node.Cancelled,
			Err:    context.Cause(ctx),
			Reason: "run cancelled before the node was dispatched",
		})
	}
}

func (r *runState) err(ctx context.Context, g *dag.Graph) error {
	if r.report.Cancelled {
		return fmt.Errorf("execution cancelled: %w", context.Cause(ctx))
	}

	var failed []string
	var rootCause error
	for _, n := range g.Nodes() {
		res := r.report.Results[n.ID]
		if res.Status != node.Failed {
			continue
		}
		failed = append(failed, n.ID)
		if rootCause == nil {
			rootCause = res.Err
		}
	}
	if rootCause != nil {
		return fmt.Errorf("execution failed for %s: %w", strings.Join(failed, ", "), rootCause)
	}
	return nil
}
