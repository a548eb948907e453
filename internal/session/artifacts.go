package session

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/mediagrid/internal/ctxlog"
)

// Artifact is a file produced by a node's output handle.
type Artifact struct {
	NodeID string
	Handle string
	// Path is where the artifact lives during the run.
	Path string
	// Dest is the permanent address once promoted.
	Dest     string
	Promoted bool
}

// Outcome tells Close how the run ended.
type Outcome struct {
	Cancelled bool
}

// Summary reports what Close did.
type Summary struct {
	Promoted []Artifact
	// Retained is true when the work directory was left on disk.
	Retained bool
}

// Track records an artifact produced during the run.
func (s *Session) Track(a Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, a)
}

// Artifacts returns a copy of every tracked artifact.
func (s *Session) Artifacts() []Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Artifact(nil), s.artifacts...)
}

// Promote requests that src, a file in the node's work directory, be moved to
// dest when the run closes. A repeated request for the same node and handle
// replaces the earlier one.
func (s *Session) Promote(nodeID, handle, src, dest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	p := &promotion{nodeID: nodeID, handle: handle, src: src, dest: filepath.Clean(dest)}
	for i, q := range s.promotions {
		if q.nodeID == nodeID && q.handle == handle {
			s.promotions[i] = p
			return nil
		}
	}
	s.promotions = append(s.promotions, p)
	return nil
}

// Discard drops every pending promotion of a node, e.g. after it failed.
func (s *Session) Discard(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.promotions[:0]
	for _, p := range s.promotions {
		if p.nodeID != nodeID {
			kept = append(kept, p)
		}
	}
	s.promotions = kept
}

// settle orders promotions by node declaration and rewrites the destination
// of every promotion whose address an earlier node already holds. Nodes
// without a declared rank sort after ranked ones, by id.
func (s *Session) settle(pending []*promotion) []*promotion {
	sorted := slices.Clone(pending)
	slices.SortStableFunc(sorted, func(a, b *promotion) int {
		ra, aok := s.rank[a.nodeID]
		rb, bok := s.rank[b.nodeID]
		switch {
		case aok && bok && ra != rb:
			return cmp.Compare(ra, rb)
		case aok != bok:
			if aok {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.nodeID, b.nodeID)
	})

	taken := make(map[string]bool, len(sorted))
	for _, p := range sorted {
		p.requested = p.dest
		if taken[p.dest] {
			p.dest = alternateDest(p.dest, p.nodeID, taken)
		}
		taken[p.dest] = true
	}
	return sorted
}

// alternateDest derives a free destination next to dest that carries the node
// id, adding a counter if even that is taken.
func alternateDest(dest, nodeID string, taken map[string]bool) string {
	ext := filepath.Ext(dest)
	base := strings.TrimSuffix(dest, ext) + "_" + nodeID
	candidate := base + ext
	for i := 2; taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
	return candidate
}

// Close ends the session. Unless the run was cancelled, pending promotions are
// applied in node declaration order and the work directory is removed. Promoted files
// are never deleted by the session.
func (s *Session) Close(ctx context.Context, outcome Outcome) (*Summary, error) {
	logger := ctxlog.FromContext(ctx).With("runID", s.runID)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.closed = true
	pending := s.promotions
	s.promotions = nil
	s.mu.Unlock()

	summary := &Summary{}
	if outcome.Cancelled {
		logger.Warn("Run cancelled, artifacts are kept for inspection and not promoted.", "work_dir", s.WorkDir(), "pending_promotions", len(pending))
		summary.Retained = true
		return summary, nil
	}

	var errs []error
	for _, p := range s.settle(pending) {
		if p.dest != p.requested {
			logger.Warn("Save target is taken by an earlier node, saving under a node-specific name.", "nodeID", p.nodeID, "requested", p.requested, "path", p.dest)
		}
		if err := moveFile(p.src, p.dest); err != nil {
			errs = append(errs, fmt.Errorf("promoting %s from node '%s': %w", p.dest, p.nodeID, err))
			continue
		}
		logger.Info("📦 Artifact saved", "nodeID", p.nodeID, "path", p.dest)
		summary.Promoted = append(summary.Promoted, Artifact{NodeID: p.nodeID, Handle: p.handle, Path: p.src, Dest: p.dest, Promoted: true})
	}

	s.mu.Lock()
	for i := range s.artifacts {
		for _, a := range summary.Promoted {
			if s.artifacts[i].Path == a.Path {
				s.artifacts[i].Dest = a.Dest
				s.artifacts[i].Promoted = true
			}
		}
	}
	s.mu.Unlock()

	if s.keepScratch {
		summary.Retained = true
	} else if err := s.removeWorkDir(); err != nil {
		errs = append(errs, err)
	}

	return summary, errors.Join(errs...)
}

func (s *Session) removeWorkDir() error {
	if err := os.RemoveAll(s.WorkDir()); err != nil {
		return fmt.Errorf("removing work dir: %w", err)
	}
	// Drop the shared parent too when no other run is using it.
	_ = os.Remove(filepath.Join(s.scratchDir, workDirName))
	return nil
}

// moveFile renames src to dest, falling back to copy and delete across devices.
func moveFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
