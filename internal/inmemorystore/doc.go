// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// # Concurrency Model
//
// Results are kept in a sync.Map. Every key is written once by the worker
// that ran the node and then only read, which is the access pattern sync.Map
// is optimized for. LoadOrStore gives the write-once guarantee without a
// global lock.
package inmemorystore
