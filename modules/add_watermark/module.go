// Package add_watermark stamps a text or image watermark on a video.
package add_watermark

import (
	"context"
	"fmt"

	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/mediakit"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Watermark types.
const (
	TypeText  = "text"
	TypeImage = "image"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Backend backend.Backend
}

var output = mediakit.Output{Handle: "watermarked_video", DefaultName: "watermarked_video", DefaultFormat: "mp4"}

var contract = handle.Contract{
	Description: "Draws text or overlays an image in a corner or the center of a video.",
	Inputs: append([]handle.Handle{
		handle.In("video_file", handle.Video),
		handle.In("watermark_type", handle.String).WithDefault(cty.StringVal(TypeText)).Describe("text or image."),
		handle.In("watermark_text", handle.String).WithDefault(cty.StringVal("WATERMARK")),
		handle.In("watermark_image", handle.Image).AsOptional().Describe("Required when watermark_type is image."),
		handle.In("position", handle.String).WithDefault(cty.StringVal(backend.BottomRight)).
			Describe("top-left, top-right, bottom-left, bottom-right or center."),
		handle.In("opacity", handle.Number).WithDefault(cty.NumberFloatVal(0.7)).Describe("0 to 1."),
		handle.In("font_size", handle.Number).WithDefault(cty.NumberIntVal(24)),
		handle.In("font_color", handle.String).WithDefault(cty.StringVal("white")),
		handle.In("padding", handle.Number).WithDefault(cty.NumberIntVal(10)).Describe("Pixels from the edge."),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Video),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("video_file")
	kind := in.String("watermark_type")
	image := in.String("watermark_image")
	spec := backend.OperationSpec{
		Operation: backend.OpWatermark,
		Watermark: backend.WatermarkOptions{
			Text:      in.String("watermark_text"),
			Position:  in.String("position"),
			Opacity:   in.Float("opacity"),
			FontSize:  in.Int("font_size"),
			FontColor: in.String("font_color"),
			Padding:   in.Int("padding"),
		},
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	if err := spec.Check(); err != nil {
		return nil, err
	}

	switch kind {
	case TypeText:
		return mediakit.Produce(ctx, inv, output, func(target, format string) (backend.Artifact, error) {
			spec.Format = format
			return m.Backend.Transform(ctx, []string{source}, spec, target)
		})
	case TypeImage:
		if image == "" {
			return nil, fmt.Errorf("watermark_type %q needs a watermark_image", TypeImage)
		}
		return mediakit.Produce(ctx, inv, output, func(target, format string) (backend.Artifact, error) {
			spec.Format = format
			return m.Backend.Merge(ctx, []string{source, image}, spec, target)
		})
	default:
		return nil, fmt.Errorf("unknown watermark type %q", kind)
	}
}

// Register registers the capability with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("add_watermark", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
