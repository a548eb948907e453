package ffmpeg

import (
	"strconv"
	"strings"
)

var audioCodecs = map[string]string{
	"mp3":  "libmp3lame",
	"wav":  "pcm_s16le",
	"aac":  "aac",
	"flac": "flac",
	"ogg":  "libvorbis",
	"m4a":  "aac",
}

// lossless formats get no bitrate.
var lossless = map[string]bool{
	"wav":  true,
	"flac": true,
}

// audioCodec returns the encoder for an audio container, libmp3lame if unknown.
func audioCodec(format string) string {
	if c, ok := audioCodecs[strings.ToLower(format)]; ok {
		return c
	}
	return "libmp3lame"
}

// audioEncodeArgs returns codec, bitrate and sample layout flags for format.
func audioEncodeArgs(format string, bitrateKbps, sampleRate, channels int) []string {
	format = strings.ToLower(format)
	args := []string{"-acodec", audioCodec(format)}
	switch {
	case format == "flac":
		args = append(args, "-compression_level", "5")
	case !lossless[format] && bitrateKbps > 0:
		args = append(args, "-b:a", strconv.Itoa(bitrateKbps)+"k")
	}
	if sampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(sampleRate))
	}
	if channels > 0 {
		args = append(args, "-ac", strconv.Itoa(channels))
	}
	return args
}

// Profile is an x264 preset and quality pair.
type Profile struct {
	Preset string
	CRF    int
}

var profiles = map[string]Profile{
	"fast":     {Preset: "veryfast", CRF: 28},
	"balanced": {Preset: "medium", CRF: 23},
	"quality":  {Preset: "slow", CRF: 18},
}

// profileFor returns the named encoder profile, balanced if unknown.
func profileFor(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles["balanced"]
}

// videoEncodeArgs returns the libx264/aac flags for a profile.
func videoEncodeArgs(profile string) []string {
	p := profileFor(profile)
	return []string{"-c:v", "libx264", "-preset", p.Preset, "-crf", strconv.Itoa(p.CRF), "-c:a", "aac"}
}

// parseFrameRate parses "30000/1001", "30/1" or "29.97". Malformed or
// non-positive rates fall back to 30.
func parseFrameRate(s string) float64 {
	const fallback = 30.0
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 || n <= 0 {
			return fallback
		}
		return n / d
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func formatSeconds(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
