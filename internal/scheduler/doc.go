// Package scheduler decides which nodes of a validated graph are ready to be
// dispatched.
//
// # Why Scheduler Exists
//
// The scheduler separates "what can run" from "how to run it". The executor
// owns the worker pool and asks the scheduler for the next ready node; the
// scheduler owns dependency counting, the declaration-order tie-break and the
// blocking of everything downstream of a node that did not succeed.
//
// # Gating
//
// A node becomes ready only when every upstream node it consumes has
// completed successfully. When a node fails, or is skipped, every node that
// depends on it transitively is blocked and will never become ready.
//
// The Scheduler is not safe for concurrent use by design of its only caller:
// the executor's dispatch loop runs in a single goroutine.
package scheduler
