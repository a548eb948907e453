// Package video_to_gif renders a clip of a video as an animated GIF.
package video_to_gif

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

var output = mediakit.Output{Handle: "gif_file", DefaultName: "animation", DefaultFormat: "gif"}

var contract = handle.Contract{
	Description: "Converts duration seconds of a video, from start_time, to a palette-optimised GIF.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
		handle.In("start_time", handle.Number).WithDefault(cty.NumberIntVal(0)),
		handle.In("duration", handle.Number).WithDefault(cty.NumberIntVal(5)),
		handle.In("output_width", handle.Number).WithDefault(cty.NumberIntVal(480)).
			Describe("Pixels. The height follows the aspect ratio."),
		handle.In("framerate", handle.Number).WithDefault(cty.NumberIntVal(10)),
		handle.In("quality", handle.String).WithDefault(cty.StringVal(backend.GIFMedium)).
			Describe("high, medium or low palette size."),
		handle.In("dither", handle.Bool).WithDefault(cty.True),
		handle.In("loop_count", handle.Number).WithDefault(cty.NumberIntVal(0)).Describe("0 loops forever."),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Image),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("video_file")
	spec := backend.OperationSpec{
		Operation: backend.OpGIF,
		StartTime: in.Float("start_time"),
		Duration:  in.Float("duration"),
		Width:     in.Int("output_width"),
		FrameRate: in.Float("framerate"),
		GIF: backend.GIFOptions{
			Quality: in.String("quality"),
			Dither:  in.Bool("dither"),
			Loop:    in.Int("loop_count"),
		},
	}
	if err := in.Err(); err != nil {
		return nil, err
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
	r.Register("video_to_gif", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
