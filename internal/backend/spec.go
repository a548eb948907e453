package backend

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Operation names a transformation or merge.
type Operation string

const (
	OpExtractAudio Operation = "extract_audio"
	OpConvertAudio Operation = "convert_audio"
	OpAdjustVolume Operation = "adjust_volume"
	OpTrimAudio    Operation = "trim_audio"
	OpDenoise      Operation = "denoise"
	OpTrim         Operation = "trim"
	OpResize       Operation = "resize"
	OpRotate       Operation = "rotate"
	OpCompress     Operation = "compress"
	OpSpeed        Operation = "speed"
	OpFrameRate    Operation = "frame_rate"
	OpConvertVideo Operation = "convert_video"
	OpRemoveAudio  Operation = "remove_audio"
	OpGIF          Operation = "gif"
	// OpWatermark is a Transform for a text mark and a Merge of the video
	// and the image for an image mark.
	OpWatermark    Operation = "watermark"
	OpMergeAudio   Operation = "merge_audio"
	OpReplaceAudio Operation = "replace_audio"
	OpConcat       Operation = "concat"
)

// Merge modes for OpMergeAudio.
const (
	MergeOverlay    = "overlay"
	MergeSequential = "sequential"
)

// Background sync methods for an overlay merge.
const (
	SyncLoop    = "loop"
	SyncStretch = "stretch"
	SyncTrim    = "trim"
)

// Ways OpReplaceAudio fits the new track to the video.
const (
	ReplaceStretchAudio = "stretch_audio"
	ReplaceLoopAudio    = "loop_audio"
	ReplaceTrimAudio    = "trim_audio"
	ReplaceTrimVideo    = "trim_video"
)

// Watermark positions.
const (
	TopLeft     = "top-left"
	TopRight    = "top-right"
	BottomLeft  = "bottom-left"
	BottomRight = "bottom-right"
	Center      = "center"
)

// GIF palette qualities.
const (
	GIFHigh   = "high"
	GIFMedium = "medium"
	GIFLow    = "low"
)

// Noise reduction methods.
const (
	DenoiseHighpass = "highpass"
	DenoiseLowpass  = "lowpass"
	DenoiseBandpass = "bandpass"
	DenoiseFFT      = "afftdn"
)

// x264 presets accepted as OperationSpec.Preset.
var presets = []string{"ultrafast", "superfast", "veryfast", "faster", "fast", "medium", "slow", "slower", "veryslow"}

// OperationSpec fully describes one backend operation. Fields that do not
// apply to the Operation are ignored.
type OperationSpec struct {
	Operation Operation
	// Format is the target container, e.g. "mp3" or "mp4".
	Format string
	// Profile selects the video encoder preset: fast, balanced or quality.
	Profile string

	// Audio.
	AudioBitrate int // kbps
	SampleRate   int // Hz, 0 keeps the source rate
	Channels     int // 0 keeps the source layout
	Volume       float64

	// Trim window in seconds. Duration 0 runs to the end.
	StartTime float64
	Duration  float64

	// Resize, and the GIF width when Height is 0.
	Width      int
	Height     int
	KeepAspect bool

	// Rotation in degrees, a multiple of 90.
	Rotation int

	// Video encoding overrides. Zero values keep the profile's choices.
	VideoCodec   string
	AudioCodec   string
	Preset       string
	CRF          int
	VideoBitrate int // kbps, replaces CRF when set

	// Speed is the playback multiplier of OpSpeed. DropAudio removes the
	// audio stream instead of retiming it.
	Speed     float64
	DropAudio bool

	// FrameRate is the target rate of OpFrameRate and OpGIF. Interpolate
	// synthesises frames by motion estimation instead of dropping or
	// duplicating them.
	FrameRate   float64
	Interpolate bool

	// AudioSync is how OpReplaceAudio fits the new track; Volume scales it.
	AudioSync string

	Watermark WatermarkOptions
	GIF       GIFOptions
	Denoise   DenoiseOptions
	Merge     MergeOptions
}

// MergeOptions tune OpMergeAudio.
type MergeOptions struct {
	Mode             string
	MainVolume       float64
	BackgroundVolume float64
	SyncMethod       string
	FadeIn           float64
	FadeOut          float64
}

// WatermarkOptions tune OpWatermark. Text is ignored for an image mark.
type WatermarkOptions struct {
	Text      string
	Position  string
	Opacity   float64
	FontSize  int
	FontColor string
	Padding   int
}

// GIFOptions tune OpGIF.
type GIFOptions struct {
	Quality string
	Dither  bool
	// Loop is how many times the GIF repeats, 0 forever.
	Loop int
}

// DenoiseOptions tune OpDenoise. Frequencies are in Hz; Strength is the
// afftdn noise reduction in dB.
type DenoiseOptions struct {
	Method   string
	Low      float64
	High     float64
	Strength float64
}

// TargetFormat returns spec.Format, falling back to the target's extension.
func (s OperationSpec) TargetFormat(target string) string {
	if s.Format != "" {
		return strings.TrimPrefix(strings.ToLower(s.Format), ".")
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(target)), ".")
}

// Check rejects specs that no backend could honor.
func (s OperationSpec) Check() error {
	switch s.Operation {
	case OpTrim, OpTrimAudio:
		return s.checkWindow()
	case OpResize:
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("resize target must be positive (%dx%d)", s.Width, s.Height)
		}
	case OpRotate:
		if s.Rotation%90 != 0 {
			return fmt.Errorf("rotation must be a multiple of 90, got %d", s.Rotation)
		}
	case OpAdjustVolume:
		if s.Volume < 0 {
			return fmt.Errorf("volume must not be negative, got %g", s.Volume)
		}
	case OpMergeAudio:
		switch s.Merge.Mode {
		case MergeOverlay, MergeSequential:
		default:
			return fmt.Errorf("unknown merge mode %q", s.Merge.Mode)
		}
		switch s.Merge.SyncMethod {
		case SyncLoop, SyncStretch, SyncTrim, "":
		default:
			return fmt.Errorf("unknown sync method %q", s.Merge.SyncMethod)
		}
	case OpCompress:
		if s.CRF < 0 || s.CRF > 51 {
			return fmt.Errorf("crf must be between 0 and 51, got %d", s.CRF)
		}
		if s.VideoBitrate < 0 {
			return fmt.Errorf("video bitrate must not be negative, got %d", s.VideoBitrate)
		}
		return s.checkPreset()
	case OpSpeed:
		if s.Speed <= 0 {
			return fmt.Errorf("speed must be positive, got %g", s.Speed)
		}
	case OpFrameRate:
		if s.FrameRate <= 0 {
			return fmt.Errorf("frame rate must be positive, got %g", s.FrameRate)
		}
	case OpConvertVideo:
		return s.checkPreset()
	case OpGIF:
		if s.FrameRate <= 0 || s.Width <= 0 {
			return fmt.Errorf("gif needs a positive frame rate and width (fps=%g, width=%d)", s.FrameRate, s.Width)
		}
		switch s.GIF.Quality {
		case GIFHigh, GIFMedium, GIFLow:
		default:
			return fmt.Errorf("unknown gif quality %q", s.GIF.Quality)
		}
		if s.GIF.Loop < 0 {
			return fmt.Errorf("gif loop count must not be negative, got %d", s.GIF.Loop)
		}
		return s.checkWindow()
	case OpWatermark:
		switch s.Watermark.Position {
		case TopLeft, TopRight, BottomLeft, BottomRight, Center:
		default:
			return fmt.Errorf("unknown watermark position %q", s.Watermark.Position)
		}
		if s.Watermark.Opacity < 0 || s.Watermark.Opacity > 1 {
			return fmt.Errorf("watermark opacity must be between 0 and 1, got %g", s.Watermark.Opacity)
		}
	case OpReplaceAudio:
		switch s.AudioSync {
		case ReplaceStretchAudio, ReplaceLoopAudio, ReplaceTrimAudio, ReplaceTrimVideo, "":
		default:
			return fmt.Errorf("unknown audio sync method %q", s.AudioSync)
		}
		if s.Volume < 0 {
			return fmt.Errorf("volume must not be negative, got %g", s.Volume)
		}
	case OpDenoise:
		return s.checkDenoise()
	case OpExtractAudio, OpConvertAudio, OpRemoveAudio, OpConcat:
	default:
		return fmt.Errorf("unknown operation %q", s.Operation)
	}
	return nil
}

func (s OperationSpec) checkWindow() error {
	if s.StartTime < 0 || s.Duration < 0 {
		return fmt.Errorf("trim window must not be negative (start=%g, duration=%g)", s.StartTime, s.Duration)
	}
	return nil
}

func (s OperationSpec) checkPreset() error {
	if s.Preset == "" || slices.Contains(presets, s.Preset) {
		return nil
	}
	return fmt.Errorf("unknown encoder preset %q", s.Preset)
}

func (s OperationSpec) checkDenoise() error {
	d := s.Denoise
	switch d.Method {
	case DenoiseHighpass:
		if d.Low <= 0 {
			return fmt.Errorf("highpass frequency must be positive, got %g", d.Low)
		}
	case DenoiseLowpass:
		if d.High <= 0 {
			return fmt.Errorf("lowpass frequency must be positive, got %g", d.High)
		}
	case DenoiseBandpass:
		if d.Low <= 0 || d.High <= d.Low {
			return fmt.Errorf("bandpass needs 0 < low < high, got %g-%g", d.Low, d.High)
		}
	case DenoiseFFT:
		if d.Strength < 0.01 || d.Strength > 97 {
			return fmt.Errorf("noise reduction strength must be between 0.01 and 97 dB, got %g", d.Strength)
		}
	default:
		return fmt.Errorf("unknown noise reduction method %q", d.Method)
	}
	return nil
}
