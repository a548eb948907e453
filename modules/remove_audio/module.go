// Package remove_audio strips the audio streams from a video.
package remove_audio

import (
	"context"

	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/mediakit"
	"github.com/specialistvlad/mediagrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Backend backend.Backend
}

var output = mediakit.Output{Handle: "output_video", DefaultName: "silent_video", DefaultFormat: "mp4"}

var contract = handle.Contract{
	Description: "Copies the video stream and drops all audio.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Video),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("video_file")
	if err := in.Err(); err != nil {
		return nil, err
	}
	return mediakit.Produce(ctx, inv, output, func(target, format string) (backend.Artifact, error) {
		return m.Backend.Transform(ctx, []string{source}, backend.OperationSpec{Operation: backend.OpRemoveAudio, Format: format}, target)
	})
}

// Register registers the capability with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("remove_audio", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
