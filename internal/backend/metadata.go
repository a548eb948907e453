package backend

import (
	"github.com/zclconf/go-cty/cty"
)

// Metadata describes a probed media file.
type Metadata struct {
	Path       string
	FormatName string
	// Duration in seconds.
	Duration float64
	Size     int64
	BitRate  int64
	Streams  []Stream
	Chapters int
	Tags     map[string]string
}

// Stream is one elementary stream of a container.
type Stream struct {
	Index     int
	CodecType string // video, audio, subtitle, ...
	CodecName string
	Width     int
	Height    int
	FrameRate float64
	// SampleRate and Channels apply to audio streams.
	SampleRate int
	Channels   int
	Duration   float64
}

// HasVideo reports whether any video stream is present.
func (m *Metadata) HasVideo() bool { return m.hasType("video") }

// HasAudio reports whether any audio stream is present.
func (m *Metadata) HasAudio() bool { return m.hasType("audio") }

// FirstVideo returns the first video stream.
func (m *Metadata) FirstVideo() (Stream, bool) {
	for _, s := range m.Streams {
		if s.CodecType == "video" {
			return s, true
		}
	}
	return Stream{}, false
}

func (m *Metadata) hasType(t string) bool {
	for _, s := range m.Streams {
		if s.CodecType == t {
			return true
		}
	}
	return false
}

// ToCty renders the metadata as an object value for downstream handles.
func (m *Metadata) ToCty() cty.Value {
	streams := make([]cty.Value, 0, len(m.Streams))
	for _, s := range m.Streams {
		streams = append(streams, cty.ObjectVal(map[string]cty.Value{
			"index":       cty.NumberIntVal(int64(s.Index)),
			"codec_type":  cty.StringVal(s.CodecType),
			"codec_name":  cty.StringVal(s.CodecName),
			"width":       cty.NumberIntVal(int64(s.Width)),
			"height":      cty.NumberIntVal(int64(s.Height)),
			"frame_rate":  cty.NumberFloatVal(s.FrameRate),
			"sample_rate": cty.NumberIntVal(int64(s.SampleRate)),
			"channels":    cty.NumberIntVal(int64(s.Channels)),
			"duration":    cty.NumberFloatVal(s.Duration),
		}))
	}

	tags := cty.MapValEmpty(cty.String)
	if len(m.Tags) > 0 {
		vals := make(map[string]cty.Value, len(m.Tags))
		for k, v := range m.Tags {
			vals[k] = cty.StringVal(v)
		}
		tags = cty.MapVal(vals)
	}

	return cty.ObjectVal(map[string]cty.Value{
		"path":        cty.StringVal(m.Path),
		"format_name": cty.StringVal(m.FormatName),
		"duration":    cty.NumberFloatVal(m.Duration),
		"size":        cty.NumberIntVal(m.Size),
		"bit_rate":    cty.NumberIntVal(m.BitRate),
		"chapters":    cty.NumberIntVal(int64(m.Chapters)),
		"has_video":   cty.BoolVal(m.HasVideo()),
		"has_audio":   cty.BoolVal(m.HasAudio()),
		"streams":     cty.TupleVal(streams),
		"tags":        tags,
	})
}
