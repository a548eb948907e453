// Package merge_audio mixes a main track with a background track.
package merge_audio

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

var output = mediakit.Output{Handle: "merged_audio", DefaultName: "merged_audio", DefaultFormat: "mp3"}

var contract = handle.Contract{
	Description: "Overlays or concatenates a main and a background audio track.",
	Inputs: append([]handle.Handle{
		handle.In("main_audio", handle.Audio),
		handle.In("background_audio", handle.Audio),
		handle.In("merge_mode", handle.String).WithDefault(cty.StringVal(backend.MergeOverlay)).
			Describe("overlay or sequential."),
		handle.In("main_volume", handle.Number).WithDefault(cty.NumberFloatVal(1.0)),
		handle.In("background_volume", handle.Number).WithDefault(cty.NumberFloatVal(0.3)),
		handle.In("sync_method", handle.String).WithDefault(cty.StringVal(backend.SyncLoop)).
			Describe("How an overlay background fits the main track: loop, stretch or trim."),
		handle.In("fade_in", handle.Number).WithDefault(cty.NumberIntVal(0)),
		handle.In("fade_out", handle.Number).WithDefault(cty.NumberIntVal(0)),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Audio),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	sources := []string{in.String("main_audio"), in.String("background_audio")}
	spec := backend.OperationSpec{
		Operation:    backend.OpMergeAudio,
		AudioBitrate: 192,
		Merge: backend.MergeOptions{
			Mode:             in.String("merge_mode"),
			MainVolume:       in.Float("main_volume"),
			BackgroundVolume: in.Float("background_volume"),
			SyncMethod:       in.String("sync_method"),
			FadeIn:           in.Float("fade_in"),
			FadeOut:          in.Float("fade_out"),
		},
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return mediakit.Produce(ctx, inv, output, func(target, format string) (backend.Artifact, error) {
		spec.Format = format
		return m.Backend.Merge(ctx, sources, spec, target)
	})
}

// Register registers the capability with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("merge_audio", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
