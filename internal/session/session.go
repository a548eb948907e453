// Package session owns the per-run state shared by every node invocation:
// the scratch directory, the default permanent save address, the save-path
// naming rule and the lifecycle of the artifacts a run produces.
//
// A Session is passed explicitly into every capability; there is no global
// session directory, so several runs can share one process.
//
// # Layout
//
// Each node writes only under its own work directory,
// `{scratch}/.mediagrid/{run_id}/{node_id}`, so concurrent nodes never contend
// for a path. Capabilities that save a result call Promote to request that
// their work file be moved to a permanent address. Promotions are applied by
// Close at the end of a successful or failed run; a cancelled run applies none
// and keeps the work directories for inspection.
//
// Two nodes may resolve to the same permanent address, e.g. two converters
// left on the default file name. The node declared first keeps the address
// and every later one is saved as `{name}_{node_id}.{ext}`, so the outcome
// never depends on which node finished first.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
)

// ErrClosed is returned by operations on a session that has been closed.
var ErrClosed = errors.New("session: closed")

// workDirName is the directory under the scratch dir that holds run work areas.
const workDirName = ".mediagrid"

// Session is the explicit context object of one run.
type Session struct {
	runID       string
	scratchDir  string
	saveDir     string
	keepScratch bool

	mu         sync.Mutex
	closed     bool
	artifacts  []Artifact
	promotions []*promotion
	// rank is the declaration position of each node, used to settle
	// promotions that resolve to the same destination.
	rank map[string]int
}

type promotion struct {
	nodeID string
	handle string
	src    string
	dest   string
	// requested is the destination the node asked for, before settling.
	requested string
}

// Option configures a Session.
type Option func(*Session)

// WithSaveDir sets the default permanent save address used when a node does
// not configure one.
func WithSaveDir(dir string) Option {
	return func(s *Session) {
		if dir != "" {
			s.saveDir = filepath.Clean(dir)
		}
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.runID = id
		}
	}
}

// WithNodeOrder declares the run's node ids in declaration order. When two
// nodes save to the same destination, the one declared first keeps it.
func WithNodeOrder(ids ...string) Option {
	return func(s *Session) {
		for i, id := range ids {
			s.rank[id] = i
		}
	}
}

// WithKeepScratch keeps node work directories after Close.
func WithKeepScratch(keep bool) Option {
	return func(s *Session) { s.keepScratch = keep }
}

// New creates a session rooted at the host-provided scratch directory. It does
// not touch the filesystem; directories are created on first use.
func New(scratchDir string, opts ...Option) (*Session, error) {
	if scratchDir == "" {
		return nil, errors.New("session: scratch directory is required")
	}
	s := &Session{
		runID:      uuid.NewString(),
		scratchDir: filepath.Clean(scratchDir),
		rank:       make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if strings.ContainsAny(s.runID, `/\`) || s.runID == "." || s.runID == ".." {
		return nil, fmt.Errorf("session: invalid run id %q", s.runID)
	}
	return s, nil
}

// RunID returns the unique id of this run.
func (s *Session) RunID() string { return s.runID }

// ScratchDir returns the host-provided scratch directory.
func (s *Session) ScratchDir() string { return s.scratchDir }

// SaveDir returns the default permanent save address, or "".
func (s *Session) SaveDir() string { return s.saveDir }

// WorkDir returns the root of this run's node work directories.
func (s *Session) WorkDir() string {
	return filepath.Join(s.scratchDir, workDirName, s.runID)
}

// NodeDir returns, creating it if needed, the private work directory of a node.
func (s *Session) NodeDir(nodeID string) (string, error) {
	if err := nodeid.ValidateName(nodeID); err != nil {
		return "", fmt.Errorf("session: %w", err)
	}
	if s.isClosed() {
		return "", ErrClosed
	}
	dir := filepath.Join(s.WorkDir(), nodeID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("session: creating work dir for node '%s': %w", nodeID, err)
	}
	return dir, nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
