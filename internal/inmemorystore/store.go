package inmemorystore

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/mediagrid/internal/node"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/specialistvlad/mediagrid/internal/nodestore"
	"github.com/zclconf/go-cty/cty"
)

// Store is an in-memory implementation of nodestore.Store.
type Store struct {
	results sync.Map // Key: node ID string, Value: node.Result
}

// New creates a new, empty in-memory result store.
func New() nodestore.Store {
	return &Store{}
}

// Record implements nodestore.Store.
func (s *Store) Record(nodeID string, res node.Result) error {
	if _, loaded := s.results.LoadOrStore(nodeID, res); loaded {
		return fmt.Errorf("%w: node '%s'", nodestore.ErrAlreadyRecorded, nodeID)
	}
	return nil
}

// Result implements nodestore.Store.
func (s *Store) Result(nodeID string) (node.Result, bool) {
	v, ok := s.results.Load(nodeID)
	if !ok {
		return node.Result{}, false
	}
	return v.(node.Result), true
}

// Output implements nodestore.Store.
func (s *Store) Output(ref nodeid.Ref) (cty.Value, bool) {
	res, ok := s.Result(ref.Node)
	if !ok || res.Outputs == nil {
		return cty.NilVal, false
	}
	v, ok := res.Outputs[ref.Handle]
	return v, ok
}

// Snapshot implements nodestore.Store.
func (s *Store) Snapshot() map[string]node.Result {
	out := make(map[string]node.Result)
	s.results.Range(func(k, v any) bool {
		out[k.(string)] = v.(node.Result)
		return true
	})
	return out
}
