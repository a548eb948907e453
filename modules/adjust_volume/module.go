// Package adjust_volume scales the loudness of an audio file.
package adjust_volume

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

var output = mediakit.Output{Handle: "adjusted_audio", DefaultName: "adjusted_audio", DefaultFormat: "mp3"}

var contract = handle.Contract{
	Description: "Multiplies the volume of an audio file.",
	Inputs: append([]handle.Handle{
		handle.In("audio_file", handle.Audio),
		handle.In("volume", handle.Number).WithDefault(cty.NumberFloatVal(1.0)).
			Describe("Linear gain, 1.0 leaves the volume unchanged."),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Audio),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("audio_file")
	spec := backend.OperationSpec{
		Operation:    backend.OpAdjustVolume,
		Volume:       in.Float("volume"),
		AudioBitrate: 192,
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
	r.Register("adjust_volume", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
