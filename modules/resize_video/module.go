// Package resize_video scales a video to a target resolution.
package resize_video

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

var output = mediakit.Output{Handle: "resized_video", DefaultName: "resized_video", DefaultFormat: "mp4"}

var contract = handle.Contract{
	Description: "Resizes a video, optionally fitting it inside the target box.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
		handle.In("width", handle.Number).WithDefault(cty.NumberIntVal(1280)),
		handle.In("height", handle.Number).WithDefault(cty.NumberIntVal(720)),
		handle.In("maintain_aspect_ratio", handle.Bool).WithDefault(cty.True),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Video),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("video_file")
	spec := backend.OperationSpec{
		Operation:  backend.OpResize,
		Width:      in.Int("width"),
		Height:     in.Int("height"),
		KeepAspect: in.Bool("maintain_aspect_ratio"),
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
	r.Register("resize_video", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
