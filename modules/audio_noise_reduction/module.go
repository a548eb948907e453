// Package audio_noise_reduction filters background noise out of audio.
package audio_noise_reduction

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

var output = mediakit.Output{Handle: "noise_reduced_audio", DefaultName: "noise_reduced_audio", DefaultFormat: "mp3"}

var contract = handle.Contract{
	Description: "Reduces noise with an FFT denoiser or a highpass, lowpass or bandpass filter.",
	Inputs: append([]handle.Handle{
		handle.In("audio_file", handle.Audio),
		handle.In("method", handle.String).WithDefault(cty.StringVal(backend.DenoiseFFT)).
			Describe("afftdn, highpass, lowpass or bandpass."),
		handle.In("highpass_frequency", handle.Number).WithDefault(cty.NumberIntVal(200)).Describe("Hz."),
		handle.In("lowpass_frequency", handle.Number).WithDefault(cty.NumberIntVal(3000)).Describe("Hz."),
		handle.In("band_low", handle.Number).WithDefault(cty.NumberIntVal(300)).Describe("Hz, bandpass only."),
		handle.In("band_high", handle.Number).WithDefault(cty.NumberIntVal(3400)).Describe("Hz, bandpass only."),
		handle.In("noise_reduction_strength", handle.Number).WithDefault(cty.NumberIntVal(12)).
			Describe("afftdn reduction in dB, 0.01 to 97."),
		handle.In("audio_quality", handle.Number).WithDefault(cty.NumberIntVal(192)),
	}, mediakit.SaveHandles(output.DefaultName, output.DefaultFormat)...),
	Outputs: []handle.Handle{
		handle.Out(output.Handle, handle.Audio),
	},
}

func (m *Module) run(ctx context.Context, inv *registry.Invocation) (handle.Outputs, error) {
	in := inv.Inputs.Reader()
	source := in.String("audio_file")
	d := backend.DenoiseOptions{
		Method:   in.String("method"),
		Strength: in.Float("noise_reduction_strength"),
	}
	switch d.Method {
	case backend.DenoiseBandpass:
		d.Low, d.High = in.Float("band_low"), in.Float("band_high")
	default:
		d.Low, d.High = in.Float("highpass_frequency"), in.Float("lowpass_frequency")
	}
	spec := backend.OperationSpec{
		Operation:    backend.OpDenoise,
		AudioBitrate: in.Int("audio_quality"),
		Denoise:      d,
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
	r.Register("audio_noise_reduction", &registry.RegisteredCapability{Spec: contract, Fn: m.run})
}
