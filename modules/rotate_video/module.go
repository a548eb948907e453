// Package rotate_video rotates a video clockwise by a multiple of 90 degrees.
package rotate_video

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

var output = mediakit.Output{Handle: "rotated_video", DefaultName: "rotated_video", DefaultFormat: "mp4"}

var contract = handle.Contract{
	Description: "Rotates a video clockwise; negative angles rotate counter-clockwise.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
		handle.In("rotation", handle.Number).WithDefault(cty.NumberIntVal(90)).Describe("Degrees, a multiple of 90."),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Video),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("video_file")
	spec := backend.OperationSpec{
		Operation: backend.OpRotate,
		Rotation:  in.Int("rotation"),
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
	r.Register("rotate_video", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
