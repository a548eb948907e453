// Package trim_audio cuts a time window out of an audio file.
package trim_audio

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

var output = mediakit.Output{Handle: "trimmed_audio", DefaultName: "trimmed_audio", DefaultFormat: "mp3"}

var contract = handle.Contract{
	Description: "Keeps the part of an audio file between start_time and start_time+duration.",
	Inputs: append([]handle.Handle{
		handle.In("audio_file", handle.Audio),
		handle.In("start_time", handle.Number).WithDefault(cty.NumberIntVal(0)).Describe("Seconds."),
		handle.In("duration", handle.Number).WithDefault(cty.NumberIntVal(0)).Describe("Seconds, 0 runs to the end."),
		handle.In("audio_quality", handle.Number).WithDefault(cty.NumberIntVal(192)),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Audio),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("audio_file")
	spec := backend.OperationSpec{
		Operation:    backend.OpTrimAudio,
		StartTime:    in.Float("start_time"),
		Duration:     in.Float("duration"),
		AudioBitrate: in.Int("audio_quality"),
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
	r.Register("trim_audio", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
