// Package replace_audio swaps the soundtrack of a video.
package replace_audio

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

var output = mediakit.Output{Handle: "output_video", DefaultName: "audio_replaced_video", DefaultFormat: "mp4"}

var contract = handle.Contract{
	Description: "Replaces a video's audio with another track, fitted to the video's length.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
		handle.In("audio_file", handle.Audio),
		handle.In("sync_method", handle.String).WithDefault(cty.StringVal(backend.ReplaceStretchAudio)).
			Describe("stretch_audio, loop_audio, trim_audio or trim_video."),
		handle.In("audio_volume", handle.Number).WithDefault(cty.NumberFloatVal(1.0)),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Video),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	sources := []string{in.String("video_file"), in.String("audio_file")}
	spec := backend.OperationSpec{
		Operation: backend.OpReplaceAudio,
		AudioSync: in.String("sync_method"),
		Volume:    in.Float("audio_volume"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	if err := spec.Check(); err != nil {
		return nil, err
	}
	return mediakit.Produce(ctx, inv, output, func(target, format string) (backend.Artifact, error) {
		spec.Format = format
		return m.Backend.Merge(ctx, sources, spec, target)
	})
}

// Register registers the capability with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("replace_audio", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
