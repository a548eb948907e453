// Package concat_videos joins several videos end to end.
package concat_videos

import (
	"context"
	"fmt"

	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/mediakit"
	"github.com/specialistvlad/mediagrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Backend backend.Backend
}

// maxVideoHandles is the number of numbered video_N handles.
const maxVideoHandles = 8

var output = mediakit.Output{Handle: "concatenated_video", DefaultName: "concatenated_video", DefaultFormat: "mp4"}

// sourceHandles lists the handles read for sources, in playback order.
var sourceHandles = func() []string {
	names := []string{"video_files"}
	for i := 1; i <= maxVideoHandles; i++ {
		names = append(names, fmt.Sprintf("video_%d", i))
	}
	return names
}()

var contract = handle.Contract{
	Description: "Concatenates videos, scaled to the first one's resolution. Sources play in order: video_files first, then video_1 to video_8.",
	Inputs: append(append([]handle.Handle{
		handle.In("video_files", handle.ListOf(handle.Video)).AsOptional().
			Describe("Videos given as a list, usually a literal."),
	}, videoHandles()...), mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Video),
	},
}

// videoHandles declares video_1..video_N, one per upstream video.
func videoHandles() []handle.Handle {
	hs := make([]handle.Handle, 0, maxVideoHandles)
	for _, name := range sourceHandles[1:] {
		hs = append(hs, handle.In(name, handle.Video).AsOptional())
	}
	return hs
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	sources, err := mediakit.Sources(inv, 2, sourceHandles...)
	if err != nil {
		return nil, err
	}
	return mediakit.Produce(ctx, inv, output, func(target, format string) (backend.Artifact, error) {
		return m.Backend.Merge(ctx, sources, backend.OperationSpec{
			Operation: backend.OpConcat,
			Format:    format,
		}, target)
	})
}

// Register registers the capability with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("concat_videos", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
