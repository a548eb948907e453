package registry

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/specialistvlad/mediagrid/internal/session"
)

// Invocation is everything a capability receives for one node execution.
type Invocation struct {
	NodeID  string
	Inputs  handle.Values
	Session *session.Session
}

// Capability is the implementation of one task kind.
type Capability interface {
	Contract() handle.Contract
	Invoke(ctx context.Context, inv *Invocation) (handle.Outputs, error)
}

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredCapability adapts a contract and a plain function into a Capability.
type RegisteredCapability struct {
	Spec handle.Contract
	Fn   func(ctx context.Context, inv *Invocation) (handle.Outputs, error)
}

// Contract implements Capability.
func (c *RegisteredCapability) Contract() handle.Contract { return c.Spec }

// Invoke implements Capability.
func (c *RegisteredCapability) Invoke(ctx context.Context, inv *Invocation) (handle.Outputs, error) {
	return c.Fn(ctx, inv)
}

// Registry holds the capabilities available to a single application instance.
type Registry struct {
	mu           sync.RWMutex
	capabilities map[string]Capability
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{capabilities: make(map[string]Capability)}
}

// Register adds a capability under a task kind. Registering the same kind
// twice, or a kind that is not a valid identifier, is a programming error and
// panics.
func (r *Registry) Register(kind string, c Capability) {
	if err := nodeid.ValidateName(kind); err != nil {
		panic(fmt.Sprintf("registry: invalid task kind: %v", err))
	}
	if c == nil {
		panic(fmt.Sprintf("registry: capability for task kind '%s' is nil", kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.capabilities[kind]; exists {
		panic(fmt.Sprintf("registry: task kind '%s' is already registered", kind))
	}
	r.capabilities[kind] = c
}

// Lookup returns the capability registered for a task kind.
func (r *Registry) Lookup(kind string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.capabilities[kind]
	return c, ok
}

// Kinds returns every registered task kind, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.capabilities))
}
