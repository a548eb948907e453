// Package convert_video_format re-encodes a video into another container.
package convert_video_format

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

var output = mediakit.Output{Handle: "converted_video", DefaultName: "converted_video", DefaultFormat: "mp4"}

var contract = handle.Contract{
	Description: "Converts a video to the container named by format, re-encoding with the given codecs.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
		handle.In("video_codec", handle.String).WithDefault(cty.StringVal("libx264")).
			Describe("libx264, libx265, libvpx-vp9 or copy. WebM swaps libx264 for libvpx-vp9."),
		handle.In("audio_codec", handle.String).WithDefault(cty.StringVal("aac")).
			Describe("WebM swaps aac for libvorbis."),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Video),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("video_file")
	spec := backend.OperationSpec{
		Operation:  backend.OpConvertVideo,
		VideoCodec: in.String("video_codec"),
		AudioCodec: in.String("audio_codec"),
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
	r.Register("convert_video_format", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
