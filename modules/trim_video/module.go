// Package trim_video cuts a time window out of a video.
package trim_video

import (
	"context"

	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/mediakit"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Backend backend.Backend
}

var output = mediakit.Output{Handle: "trimmed_video", DefaultName: "trimmed_video", DefaultFormat: "mp4"}

var contract = handle.Contract{
	Description: "Keeps the part of a video between start_time and start_time+duration.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
		handle.In("start_time", handle.Number).WithDefault(cty.NumberIntVal(0)).Describe("Seconds."),
		handle.In("duration", handle.Number).WithDefault(cty.NumberIntVal(0)).Describe("Seconds, 0 runs to the end."),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Video),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("video_file")
	spec := backend.OperationSpec{
		Operation: backend.OpTrim,
		StartTime: in.Float("start_time"),
		Duration:  in.Float("duration"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return mediakit.Produce(ctx, inv, output, func(target, format string) (backend.Artifact, error) {
		spec.Format = format
		return m.Backend.Transform(ctx, []string{source}, spec, target)
	})
}

// Register registers the capability with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("trim_video", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
