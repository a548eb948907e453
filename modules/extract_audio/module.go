// Package extract_audio writes the audio track of a video to an audio file.
package extract_audio

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

var output = mediakit.Output{Handle: "audio_file", DefaultName: "extracted_audio", DefaultFormat: "mp3"}

var contract = handle.Contract{
	Description: "Extracts the audio track of a video.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
		handle.In("audio_quality", handle.Number).WithDefault(cty.NumberIntVal(192)).
			Describe("Bitrate in kbps for lossy formats."),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Audio),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("video_file")
	spec := backend.OperationSpec{
		Operation:    backend.OpExtractAudio,
		AudioBitrate: in.Int("audio_quality"),
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
	r.Register("extract_audio", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
