// Package convert_audio re-encodes an audio file into another format.
package convert_audio

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

var output = mediakit.Output{Handle: "converted_audio", DefaultName: "converted_audio", DefaultFormat: "mp3"}

var contract = handle.Contract{
	Description: "Converts an audio file to another format, bitrate or sample layout.",
	Inputs: append([]handle.Handle{
		handle.In("audio_file", handle.Audio),
		handle.In("audio_quality", handle.Number).WithDefault(cty.NumberIntVal(192)),
		handle.In("sample_rate", handle.Number).WithDefault(cty.NumberIntVal(0)).
			Describe("Target sample rate in Hz, 0 keeps the source rate."),
		handle.In("channels", handle.Number).WithDefault(cty.NumberIntVal(0)).
			Describe("Target channel count, 0 keeps the source layout."),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Audio),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("audio_file")
	spec := backend.OperationSpec{
		Operation:    backend.OpConvertAudio,
		AudioBitrate: in.Int("audio_quality"),
		SampleRate:   in.Int("sample_rate"),
		Channels:     in.Int("channels"),
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
	r.Register("convert_audio", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
