// Package media_info probes a media file and exposes its metadata.
package media_info

import (
	"context"

	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Backend backend.Backend
}

var contract = handle.Contract{
	Description: "Reads container and stream metadata of a media file.",
	Inputs: []handle.Handle{
		handle.In("media_file", handle.Media),
	},
	Outputs: []handle.Handle{
		handle.Out("metadata", handle.Object),
		handle.Out("duration", handle.Number),
		handle.Out("format_name", handle.String),
		handle.Out("has_video", handle.Bool),
		handle.Out("has_audio", handle.Bool),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("media_file")
	if err := in.Err(); err != nil {
		return nil, err
	}
	meta, err := m.Backend.Probe(ctx, source)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Info("Probed media", "format", meta.FormatName, "duration", meta.Duration, "streams", len(meta.Streams))

	return handle.Outputs{
		"metadata":    meta.ToCty(),
		"duration":    cty.NumberFloatVal(meta.Duration),
		"format_name": cty.StringVal(meta.FormatName),
		"has_video":   cty.BoolVal(meta.HasVideo()),
		"has_audio":   cty.BoolVal(meta.HasAudio()),
	}, nil
}

// Register registers the capability with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("media_info", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
