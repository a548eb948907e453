package ffmpeg

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/specialistvlad/mediagrid/internal/backend"
)

type probeOutput struct {
	Streams  []probeStream     `json:"streams"`
	Format   probeFormat       `json:"format"`
	Chapters []json.RawMessage `json:"chapters"`
}

type probeStream struct {
	Index        int    `json:"index"`
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
	Duration     string `json:"duration"`
}

type probeFormat struct {
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	Tags       map[string]string `json:"tags"`
}

// parseProbe converts ffprobe JSON output into Metadata. ffprobe reports
// most numbers as strings; unparsable ones become zero.
func parseProbe(source string, data []byte) (*backend.Metadata, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding ffprobe output: %w", err)
	}
	if out.Format.FormatName == "" && len(out.Streams) == 0 {
		return nil, fmt.Errorf("ffprobe found no format or streams")
	}

	m := &backend.Metadata{
		Path:       source,
		FormatName: out.Format.FormatName,
		Duration:   parseFloat(out.Format.Duration),
		Size:       parseInt(out.Format.Size),
		BitRate:    parseInt(out.Format.BitRate),
		Chapters:   len(out.Chapters),
		Tags:       out.Format.Tags,
	}
	for _, s := range out.Streams {
		st := backend.Stream{
			Index:      s.Index,
			CodecType:  s.CodecType,
			CodecName:  s.CodecName,
			Width:      s.Width,
			Height:     s.Height,
			SampleRate: int(parseInt(s.SampleRate)),
			Channels:   s.Channels,
			Duration:   parseFloat(s.Duration),
		}
		if s.CodecType == "video" {
			rate := s.AvgFrameRate
			if rate == "" || rate == "0/0" {
				rate = s.RFrameRate
			}
			st.FrameRate = parseFrameRate(rate)
		}
		m.Streams = append(m.Streams, st)
	}
	return m, nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int64 {
	i, _ := strconv.ParseInt(s, 10, 64)
	return i
}
