// Package executor runs a validated graph.
//
// A single dispatch loop pulls ready nodes from the scheduler and hands them
// to a bounded errgroup of workers. Each worker resolves the node's inputs
// from the result store, invokes the capability with the run's Session and
// sends the outcome back to the loop, which records it, unblocks or blocks
// dependents, and notifies observers. Failures stay local: the failing node
// is Failed, its transitive dependents are Skipped, and independent branches
// keep running.
package executor
