// Package change_framerate resamples a video to a new frame rate.
package change_framerate

import (
	"context"
	"fmt"

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

var output = mediakit.Output{Handle: "framerate_changed_video", DefaultName: "framerate_changed_video", DefaultFormat: "mp4"}

var contract = handle.Contract{
	Description: "Changes a video's frame rate by dropping or duplicating frames, or by motion interpolation.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
		handle.In("target_framerate", handle.Number).WithDefault(cty.NumberIntVal(30)),
		handle.In("frame_interpolation", handle.String).WithDefault(cty.StringVal("fps")).
			Describe("fps or minterpolate. minterpolate is smoother and much slower."),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Video),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("video_file")
	mode := in.String("frame_interpolation")
	spec := backend.OperationSpec{
		Operation: backend.OpFrameRate,
		FrameRate: in.Float("target_framerate"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	switch mode {
	case "fps":
	case "minterpolate":
		spec.Interpolate = true
	default:
		return nil, fmt.Errorf("unknown frame interpolation %q", mode)
	}
	if err := spec.Check(); err != nil {
		return nil, err
	}
	return mediakit.Produce(ctx, inv, output, func(target, format string) (backend.Artifact, error) {
		spec.Format = format
		return m.Backend.Transform(ctx, []string{source}, spec, target)
	})
}

// Register registers the capability with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("change_framerate", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
