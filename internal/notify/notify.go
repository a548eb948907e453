// Package notify publishes execution events to a Socket.IO server so a UI
// can follow a run live.
//
// Events are queued and sent from a single goroutine. The executor never
// waits on the network: when the queue is full the event is dropped and
// counted.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/executor"
	"github.com/specialistvlad/mediagrid/internal/node"
)

const (
	// EventNodeStatus is emitted when a node starts and when it finishes.
	EventNodeStatus = "node_status"
	// EventRunFinished is emitted once at the end of a run.
	EventRunFinished = "run_finished"
)

// EmitFunc sends one event.
type EmitFunc func(event string, payload map[string]any)

type event struct {
	name    string
	payload map[string]any
}

// Notifier implements executor.Observer by emitting Socket.IO events.
type Notifier struct {
	runID   string
	emit    EmitFunc
	onClose func()
	logger  *slog.Logger

	queue   chan event
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

var _ executor.Observer = (*Notifier)(nil)

// New starts a notifier that sends through emit. queueSize below one uses 256.
func New(ctx context.Context, runID string, emit EmitFunc, queueSize int) *Notifier {
	if queueSize < 1 {
		queueSize = 256
	}
	n := &Notifier{
		runID:  runID,
		emit:   emit,
		logger: ctxlog.FromContext(ctx).With("component", "notify"),
		queue:  make(chan event, queueSize),
		done:   make(chan struct{}),
	}
	go n.pump()
	return n
}

func (n *Notifier) pump() {
	defer close(n.done)
	for ev := range n.queue {
		n.emit(ev.name, ev.payload)
	}
}

func (n *Notifier) enqueue(name string, payload map[string]any) {
	payload["run_id"] = n.runID
	select {
	case n.queue <- event{name: name, payload: payload}:
	default:
		if n.dropped.Add(1) == 1 {
			n.logger.Warn("Event queue is full, dropping events.", "event", name)
		}
	}
}

// Dropped returns how many events were dropped because the queue was full.
func (n *Notifier) Dropped() int64 {
	return n.dropped.Load()
}

// NodeStarted implements executor.Observer.
func (n *Notifier) NodeStarted(_ context.Context, nd *node.Node) {
	n.enqueue(EventNodeStatus, map[string]any{
		"node_id": nd.ID,
		"kind":    nd.Kind,
		"status":  node.Running.String(),
	})
}

// NodeFinished implements executor.Observer.
func (n *Notifier) NodeFinished(_ context.Context, nd *node.Node, res node.Result) {
	payload := map[string]any{
		"node_id":     nd.ID,
		"kind":        nd.Kind,
		"status":      res.Status.String(),
		"duration_ms": res.Duration().Milliseconds(),
	}
	if res.Err != nil {
		payload["error"] = res.Err.Error()
	}
	if res.Reason != "" {
		payload["reason"] = res.Reason
	}
	n.enqueue(EventNodeStatus, payload)
}

// RunFinished implements executor.Observer.
func (n *Notifier) RunFinished(_ context.Context, r *executor.Report) {
	n.enqueue(EventRunFinished, map[string]any{
		"outcome":     r.Outcome(),
		"succeeded":   r.Count(node.Succeeded),
		"failed":      r.Count(node.Failed),
		"skipped":     r.Count(node.Skipped),
		"cancelled":   r.Count(node.Cancelled),
		"duration_ms": r.Finished.Sub(r.Started).Milliseconds(),
	})
}

// Close flushes queued events and disconnects. It is safe to call twice.
func (n *Notifier) Close() {
	n.once.Do(func() {
		close(n.queue)
		<-n.done
		if n.onClose != nil {
			n.onClose()
		}
		if d := n.dropped.Load(); d > 0 {
			n.logger.Warn("Some run events were not delivered.", "dropped", d)
		}
	})
}
