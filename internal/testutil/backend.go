package testutil

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/specialistvlad/mediagrid/internal/backend"
)

// BackendCall records one invocation of the FakeBackend.
type BackendCall struct {
	Method  string
	Sources []string
	Spec    backend.OperationSpec
	Target  string
}

// FakeBackend is an in-memory backend.Backend. Transform and Merge write a
// small text file at the target whose content depends only on the sources and
// the operation, so repeated runs produce equivalent artifacts.
type FakeBackend struct {
	mu    sync.Mutex
	calls []BackendCall

	// Metadata is returned by Probe, keyed by source path. Missing sources fail.
	Metadata map[string]*backend.Metadata
	// FailOn makes every call whose target or source contains the key fail
	// with the mapped error.
	FailOn map[string]error
	// Delay holds Transform and Merge for this long, or until their context
	// ends.
	Delay time.Duration
	// Jitter adds a random pause of up to this long to every Transform and
	// Merge, shuffling the order in which concurrent nodes finish.
	Jitter time.Duration

	startOnce sync.Once
	started   chan struct{}
}

// NewFakeBackend returns an empty FakeBackend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Metadata: make(map[string]*backend.Metadata),
		FailOn:   make(map[string]error),
		started:  make(chan struct{}),
	}
}

// Started is closed when the first Transform or Merge begins.
func (f *FakeBackend) Started() <-chan struct{} {
	return f.started
}

// Calls returns a copy of the recorded calls.
func (f *FakeBackend) Calls() []BackendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]BackendCall(nil), f.calls...)
}

func (f *FakeBackend) record(c BackendCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	for key, err := range f.FailOn {
		if strings.Contains(c.Target, key) {
			return err
		}
		for _, s := range c.Sources {
			if strings.Contains(s, key) {
				return err
			}
		}
	}
	return nil
}

// Probe implements backend.Backend.
func (f *FakeBackend) Probe(_ context.Context, source string) (*backend.Metadata, error) {
	if err := f.record(BackendCall{Method: "probe", Sources: []string{source}}); err != nil {
		return nil, &backend.ProbeError{Source: source, Err: err}
	}
	f.mu.Lock()
	m, ok := f.Metadata[source]
	f.mu.Unlock()
	if !ok {
		return nil, &backend.ProbeError{Source: source, Err: os.ErrNotExist}
	}
	return m, nil
}

// Transform implements backend.Backend.
func (f *FakeBackend) Transform(ctx context.Context, sources []string, spec backend.OperationSpec, target string) (backend.Artifact, error) {
	err := f.produce(ctx, "transform", sources, spec, target)
	if err != nil {
		return backend.Artifact{}, &backend.TransformError{Operation: spec.Operation, Sources: sources, Target: target, Err: err}
	}
	return backend.Artifact{Path: target, Format: spec.TargetFormat(target)}, nil
}

// Merge implements backend.Backend.
func (f *FakeBackend) Merge(ctx context.Context, sources []string, spec backend.OperationSpec, target string) (backend.Artifact, error) {
	err := f.produce(ctx, "merge", sources, spec, target)
	if err != nil {
		return backend.Artifact{}, &backend.MergeError{Operation: spec.Operation, Sources: sources, Target: target, Err: err}
	}
	return backend.Artifact{Path: target, Format: spec.TargetFormat(target)}, nil
}

func (f *FakeBackend) produce(ctx context.Context, method string, sources []string, spec backend.OperationSpec, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.record(BackendCall{Method: method, Sources: sources, Spec: spec, Target: target}); err != nil {
		return err
	}
	f.startOnce.Do(func() { close(f.started) })
	wait := f.Delay
	if f.Jitter > 0 {
		wait += rand.N(f.Jitter)
	}
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	bases := make([]string, len(sources))
	for i, s := range sources {
		bases[i] = filepath.Base(s)
	}
	content := fmt.Sprintf("%s %s <- %s\n", method, spec.Operation, strings.Join(bases, ","))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(content), 0o644)
}
