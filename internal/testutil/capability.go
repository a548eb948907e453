package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/registry"
)

// StubCapability is a registry.Capability driven by a plain function. It
// records the resolved inputs of every invocation by node id.
type StubCapability struct {
	Spec handle.Contract
	Fn   func(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error)

	mu    sync.Mutex
	calls map[string]handle.Values
	order []string
}

// Contract implements registry.Capability.
func (s *StubCapability) Contract() handle.Contract { return s.Spec }

// Invoke implements registry.Capability.
func (s *StubCapability) Invoke(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[string]handle.Values)
	}
	s.calls[inv.NodeID] = inv.Inputs
	s.order = append(s.order, inv.NodeID)
	s.mu.Unlock()

	if s.Fn == nil {
		return handle.Outputs{}, nil
	}
	return s.Fn(ctx, inv)
}

// Inputs returns the values a node was invoked with.
func (s *StubCapability) Inputs(nodeID string) (handle.Values, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.calls[nodeID]
	return v, ok
}

// Invoked returns node ids in invocation order.
func (s *StubCapability) Invoked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// ModuleFunc adapts a function into a registry.Module.
type ModuleFunc func(r *registry.Registry)

// Register implements registry.Module.
func (f ModuleFunc) Register(r *registry.Registry) { f(r) }
