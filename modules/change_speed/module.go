// Package change_speed speeds a video up or slows it down.
package change_speed

import (
	"context"
	"fmt"

	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/mediakit"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Audio handling modes.
const (
	PreservePitch = "preserve_pitch"
	SpeedChange   = "speed_change"
	RemoveAudio   = "remove_audio"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Backend backend.Backend
}

var output = mediakit.Output{Handle: "speed_changed_video", DefaultName: "speed_changed_video", DefaultFormat: "mp4"}

var contract = handle.Contract{
	Description: "Plays a video back speed_multiplier times faster. Values below 1 slow it down.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
		handle.In("speed_multiplier", handle.Number).WithDefault(cty.NumberFloatVal(2.0)),
		handle.In("audio_handling", handle.String).WithDefault(cty.StringVal(PreservePitch)).
			Describe("preserve_pitch, speed_change or remove_audio."),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Video),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("video_file")
	audio := in.String("audio_handling")
	spec := backend.OperationSpec{
		Operation: backend.OpSpeed,
		Speed:     in.Float("speed_multiplier"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	switch audio {
	case PreservePitch, SpeedChange:
		// atempo keeps the pitch, so both modes retime the track the same way.
	case RemoveAudio:
		spec.DropAudio = true
	default:
		return nil, fmt.Errorf("unknown audio handling %q", audio)
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
	r.Register("change_speed", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
