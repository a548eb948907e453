package executor

import (
	"context"
	"runtime"
	"time"

	"github.com/specialistvlad/mediagrid/internal/inmemorystore"
	"github.com/specialistvlad/mediagrid/internal/node"
	"github.com/specialistvlad/mediagrid/internal/nodestore"
	"github.com/specialistvlad/mediagrid/internal/registry"
)

// Observer receives execution events. Calls are made from the dispatch loop,
// so implementations must return quickly.
type Observer interface {
	NodeStarted(ctx context.Context, n *node.Node)
	NodeFinished(ctx context.Context, n *node.Node, res node.Result)
	RunFinished(ctx context.Context, r *Report)
}

// Executor executes graphs against a capability registry.
type Executor struct {
	registry  *registry.Registry
	workers   int
	observers []Observer
	newStore  func() nodestore.Store
	now       func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers bounds the number of concurrently running nodes. Values below
// one mean sequential execution.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithObserver adds an observer notified of every node and run event.
func WithObserver(o Observer) Option {
	return func(e *Executor) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithStore overrides the result store used for each execution.
func WithStore(newStore func() nodestore.Store) Option {
	return func(e *Executor) { e.newStore = newStore }
}

// New creates an Executor.
func New(reg *registry.Registry, opts ...Option) *Executor {
	e := &Executor{
		registry: reg,
		workers:  runtime.GOMAXPROCS(0),
		newStore: inmemorystore.New,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the configured worker limit.
func (e *Executor) Workers() int {
	return e.workers
}
