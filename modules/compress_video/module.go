// Package compress_video re-encodes a video to reduce its size.
package compress_video

import (
	"context"
	"fmt"
	"math"

	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/mediakit"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Compression methods.
const (
	MethodCRF      = "crf"
	MethodBitrate  = "bitrate"
	MethodFilesize = "filesize"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Backend backend.Backend
}

var output = mediakit.Output{Handle: "compressed_video", DefaultName: "compressed_video", DefaultFormat: "mp4"}

var contract = handle.Contract{
	Description: "Compresses a video by constant quality, a target bitrate or a target file size.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
		handle.In("compression_method", handle.String).WithDefault(cty.StringVal(MethodCRF)).
			Describe("crf, bitrate or filesize."),
		handle.In("crf_value", handle.Number).WithDefault(cty.NumberIntVal(23)).
			Describe("0 to 51, lower is better quality."),
		handle.In("target_bitrate", handle.Number).WithDefault(cty.NumberIntVal(1000)).Describe("Video kbps."),
		handle.In("target_filesize_mb", handle.Number).WithDefault(cty.NumberIntVal(50)),
		handle.In("preset", handle.String).WithDefault(cty.StringVal("medium")),
		handle.In("audio_bitrate", handle.Number).WithDefault(cty.NumberIntVal(128)).Describe("Audio kbps."),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Video),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("video_file")
	method := in.String("compression_method")
	crf := in.Int("crf_value")
	bitrate := in.Int("target_bitrate")
	sizeMB := in.Float("target_filesize_mb")
	spec := backend.OperationSpec{
		Operation:    backend.OpCompress,
		Preset:       in.String("preset"),
		AudioBitrate: in.Int("audio_bitrate"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}

	switch method {
	case MethodCRF:
		spec.CRF = crf
	case MethodBitrate:
		if bitrate <= 0 {
			return nil, fmt.Errorf("target bitrate must be positive, got %d", bitrate)
		}
		spec.VideoBitrate = bitrate
	case MethodFilesize:
		meta, err := m.Backend.Probe(ctx, source)
		if err != nil {
			return nil, err
		}
		kbps, err := filesizeBitrate(sizeMB, spec.AudioBitrate, meta.Duration)
		if err != nil {
			return nil, err
		}
		spec.VideoBitrate = kbps
	default:
		return nil, fmt.Errorf("unknown compression method %q", method)
	}

	if err := spec.Check(); err != nil {
		return nil, err
	}
	return mediakit.Produce(ctx, inv, output, func(target, format string) (backend.Artifact, error) {
		spec.Format = format
		return m.Backend.Transform(ctx, []string{source}, spec, target)
	})
}

// filesizeBitrate returns the video kbps that fits a clip of duration seconds
// into sizeMB megabytes next to an audio track of audioKbps.
func filesizeBitrate(sizeMB float64, audioKbps int, duration float64) (int, error) {
	if duration <= 0 {
		return 0, fmt.Errorf("cannot size a clip with duration %g", duration)
	}
	totalBits := sizeMB * 8 * 1024 * 1024
	videoBits := totalBits - float64(audioKbps)*1000*duration
	kbps := int(math.Floor(videoBits / duration / 1000))
	if kbps <= 0 {
		return 0, fmt.Errorf("target size of %g MB is too small for %g seconds of video", sizeMB, duration)
	}
	return kbps, nil
}

// Register registers the capability with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("compress_video", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
