// Package mediakit holds the plumbing shared by the media capabilities: the
// standard save handles and the produce-track-promote sequence every
// save-style node follows.
package mediakit

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/specialistvlad/mediagrid/internal/session"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Names of the save handles every save-style capability declares.
const (
	SaveAddress  = "save_address"
	FileName     = "file_name"
	OutputFormat = "output_format"
)

// SaveHandles returns the save handles with the node's default name and format.
func SaveHandles(defaultName, defaultFormat string) []handle.Handle {
	return []handle.Handle{
		handle.In(SaveAddress, handle.Path).AsOptional().
			Describe("Directory the result is saved to. Defaults to the session save directory."),
		handle.In(FileName, handle.String).WithDefault(cty.StringVal(defaultName)).
			Describe("Base name of the saved file, without extension."),
		handle.In(OutputFormat, handle.Format).WithDefault(cty.StringVal(defaultFormat)).
			Describe("Container format and extension of the saved file."),
	}
}

// Output describes the file a save-style node produces.
type Output struct {
	// Handle is the output handle that carries the produced path.
	Handle        string
	DefaultName   string
	DefaultFormat string
}

// Produce runs write against a target in the node's work directory, records
// the artifact and requests its promotion to the resolved save path. The
// output handle carries the work path, which downstream nodes read during the
// run.
func Produce(ctx context.Context, inv *registry.Invocation, out Output, write func(target string, format string) (backend.Artifact, error)) (handle.Outputs, error) {
	sess := inv.Session
	in := inv.Inputs.Reader()
	spec := session.SaveSpec{
		Dir:    in.String(SaveAddress),
		Name:   in.String(FileName),
		Format: in.String(OutputFormat),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	fallback := session.SaveSpec{Name: out.DefaultName, Format: out.DefaultFormat}
	dest := sess.ResolveSavePath(spec, fallback)

	dir, err := sess.NodeDir(inv.NodeID)
	if err != nil {
		return nil, err
	}
	format := formatOf(dest)
	target := filepath.Join(dir, filepath.Base(dest))

	art, err := write(target, format)
	if err != nil {
		return nil, err
	}

	sess.Track(session.Artifact{NodeID: inv.NodeID, Handle: out.Handle, Path: art.Path})
	if err := sess.Promote(inv.NodeID, out.Handle, art.Path, dest); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Artifact produced.", "path", art.Path, "saveTo", dest)

	return handle.Outputs{out.Handle: cty.StringVal(art.Path)}, nil
}

func formatOf(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return ext[1:]
}

// Sources collects source paths from the named handles in order. A handle
// may hold a single path or a list of paths; unset handles are skipped. It
// fails when fewer than min paths were found.
func Sources(inv *registry.Invocation, min int, names ...string) ([]string, error) {
	var out []string
	for _, name := range names {
		v, ok := inv.Inputs.Get(name)
		if !ok || handle.IsEmpty(v) {
			continue
		}
		var paths []string
		if ty := v.Type(); ty.IsListType() || ty.IsSetType() {
			if err := gocty.FromCtyValue(v, &paths); err != nil {
				return nil, fmt.Errorf("decoding input '%s': %w", name, err)
			}
		} else {
			var p string
			if err := gocty.FromCtyValue(v, &p); err != nil {
				return nil, fmt.Errorf("decoding input '%s': %w", name, err)
			}
			paths = []string{p}
		}
		for _, p := range paths {
			if p != "" {
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("inputs %s have no sources", strings.Join(names, ", "))
	}
	if len(out) < min {
		return nil, fmt.Errorf("need at least %d sources, got %d", min, len(out))
	}
	return out, nil
}
