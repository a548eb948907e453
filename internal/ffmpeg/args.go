package ffmpeg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/specialistvlad/mediagrid/internal/backend"
)

var commonArgs = []string{"-hide_banner", "-nostdin", "-y"}

// transformArgs builds the ffmpeg arguments of a single-source operation.
func transformArgs(source string, spec backend.OperationSpec, target string) ([]string, error) {
	if err := spec.Check(); err != nil {
		return nil, err
	}
	format := spec.TargetFormat(target)
	args := append([]string(nil), commonArgs...)

	switch spec.Operation {
	case backend.OpExtractAudio, backend.OpConvertAudio:
		args = append(args, "-i", source, "-vn")
		args = append(args, audioEncodeArgs(format, spec.AudioBitrate, spec.SampleRate, spec.Channels)...)

	case backend.OpAdjustVolume:
		args = append(args, "-i", source, "-vn", "-af", "volume="+formatSeconds(spec.Volume))
		args = append(args, audioEncodeArgs(format, spec.AudioBitrate, 0, 0)...)

	case backend.OpTrim:
		if spec.StartTime > 0 {
			args = append(args, "-ss", formatSeconds(spec.StartTime))
		}
		args = append(args, "-i", source)
		if spec.Duration > 0 {
			args = append(args, "-t", formatSeconds(spec.Duration))
		}
		args = append(args, videoEncodeArgs(spec.Profile)...)

	case backend.OpResize:
		scale := fmt.Sprintf("scale=%d:%d", spec.Width, spec.Height)
		if spec.KeepAspect {
			scale += ":force_original_aspect_ratio=decrease,pad=ceil(iw/2)*2:ceil(ih/2)*2"
		}
		args = append(args, "-i", source, "-vf", scale)
		args = append(args, videoEncodeArgs(spec.Profile)...)

	case backend.OpRotate:
		args = append(args, "-i", source)
		if f := rotationFilter(spec.Rotation); f != "" {
			args = append(args, "-vf", f)
		}
		args = append(args, videoEncodeArgs(spec.Profile)...)

	case backend.OpTrimAudio:
		if spec.StartTime > 0 {
			args = append(args, "-ss", formatSeconds(spec.StartTime))
		}
		args = append(args, "-i", source, "-vn")
		if spec.Duration > 0 {
			args = append(args, "-t", formatSeconds(spec.Duration))
		}
		args = append(args, audioEncodeArgs(format, spec.AudioBitrate, 0, 0)...)

	case backend.OpDenoise:
		args = append(args, "-i", source, "-vn", "-af", denoiseFilter(spec.Denoise))
		args = append(args, audioEncodeArgs(format, spec.AudioBitrate, 0, 0)...)

	case backend.OpCompress:
		args = append(args, "-i", source)
		args = append(args, x264Args(spec)...)
		args = append(args, "-c:a", "aac")
		if spec.AudioBitrate > 0 {
			args = append(args, "-b:a", strconv.Itoa(spec.AudioBitrate)+"k")
		}

	case backend.OpSpeed:
		args = append(args, "-i", source, "-filter:v", "setpts="+formatSeconds(1/spec.Speed)+"*PTS")
		args = append(args, x264Args(spec)...)
		if spec.DropAudio {
			args = append(args, "-an")
			break
		}
		if f := atempoChain(spec.Speed); f != "" {
			args = append(args, "-filter:a", f)
		}
		args = append(args, "-c:a", "aac")

	case backend.OpFrameRate:
		filter := "fps=" + formatSeconds(spec.FrameRate)
		if spec.Interpolate {
			filter = "minterpolate=fps=" + formatSeconds(spec.FrameRate) + ":mi_mode=mci"
		}
		args = append(args, "-i", source, "-vf", filter)
		args = append(args, videoEncodeArgs(spec.Profile)...)

	case backend.OpConvertVideo:
		args = append(args, "-i", source)
		args = append(args, convertVideoArgs(spec, format)...)

	case backend.OpRemoveAudio:
		args = append(args, "-i", source, "-c:v", "copy", "-an")

	case backend.OpGIF:
		if spec.StartTime > 0 {
			args = append(args, "-ss", formatSeconds(spec.StartTime))
		}
		if spec.Duration > 0 {
			args = append(args, "-t", formatSeconds(spec.Duration))
		}
		args = append(args, "-i", source, "-filter_complex", gifFilter(spec), "-loop", strconv.Itoa(spec.GIF.Loop))

	case backend.OpWatermark:
		x, y := markPosition(spec.Watermark, "w-text_w", "h-text_h")
		text := spec.Watermark.Text
		if text == "" {
			text = "WATERMARK"
		}
		draw := fmt.Sprintf("drawtext=text='%s':fontsize=%d:fontcolor=%s@%s:x=%s:y=%s",
			escapeDrawtext(text), spec.Watermark.FontSize, spec.Watermark.FontColor, formatSeconds(spec.Watermark.Opacity), x, y)
		args = append(args, "-i", source, "-vf", draw)
		args = append(args, videoEncodeArgs(spec.Profile)...)

	default:
		return nil, fmt.Errorf("operation %q is not a transform", spec.Operation)
	}

	return append(args, target), nil
}

// rotationFilter maps clockwise degrees to transpose filters.
func rotationFilter(degrees int) string {
	switch ((degrees % 360) + 360) % 360 {
	case 90:
		return "transpose=1"
	case 180:
		return "transpose=1,transpose=1"
	case 270:
		return "transpose=2"
	default:
		return ""
	}
}

// atempoChain retimes audio by speed. A single atempo accepts 0.5 to 2, so
// larger changes are chained. It returns "" for a speed of 1.
func atempoChain(speed float64) string {
	var parts []string
	for speed > 2 {
		parts = append(parts, "atempo=2")
		speed /= 2
	}
	for speed < 0.5 {
		parts = append(parts, "atempo=0.5")
		speed /= 0.5
	}
	if speed != 1 {
		parts = append(parts, "atempo="+formatSeconds(speed))
	}
	return strings.Join(parts, ",")
}

func denoiseFilter(d backend.DenoiseOptions) string {
	switch d.Method {
	case backend.DenoiseHighpass:
		return "highpass=f=" + formatSeconds(d.Low)
	case backend.DenoiseLowpass:
		return "lowpass=f=" + formatSeconds(d.High)
	case backend.DenoiseBandpass:
		return fmt.Sprintf("highpass=f=%s,lowpass=f=%s", formatSeconds(d.Low), formatSeconds(d.High))
	default:
		return "afftdn=nr=" + formatSeconds(d.Strength)
	}
}

// gifFilter scales and resamples the clip, then renders it through a palette
// generated from the clip itself.
func gifFilter(spec backend.OperationSpec) string {
	colors, bayer := 128, 2
	switch spec.GIF.Quality {
	case backend.GIFHigh:
		colors, bayer = 256, 0
	case backend.GIFLow:
		colors, bayer = 64, 4
	}
	use := "paletteuse=dither=none"
	if spec.GIF.Dither {
		use = "paletteuse=dither=bayer:bayer_scale=" + strconv.Itoa(bayer)
	}
	return fmt.Sprintf("[0:v]fps=%s,scale=%d:-1:flags=lanczos,split[a][b];[a]palettegen=max_colors=%d[p];[b][p]%s",
		formatSeconds(spec.FrameRate), spec.Width, colors, use)
}

// markPosition returns overlay coordinates for a watermark. width and height
// are the expressions for the free space, e.g. "w-text_w".
func markPosition(w backend.WatermarkOptions, width, height string) (x, y string) {
	pad := strconv.Itoa(w.Padding)
	switch w.Position {
	case backend.TopLeft:
		return pad, pad
	case backend.TopRight:
		return fmt.Sprintf("(%s-%s)", width, pad), pad
	case backend.BottomLeft:
		return pad, fmt.Sprintf("(%s-%s)", height, pad)
	case backend.Center:
		return fmt.Sprintf("(%s)/2", width), fmt.Sprintf("(%s)/2", height)
	default:
		return fmt.Sprintf("(%s-%s)", width, pad), fmt.Sprintf("(%s-%s)", height, pad)
	}
}

var drawtextEscaper = strings.NewReplacer(`\`, `\\`, `'`, `'\''`, `%`, `\%`)

// escapeDrawtext makes text safe inside a quoted drawtext argument.
func escapeDrawtext(text string) string {
	return drawtextEscaper.Replace(text)
}

// x264Args returns libx264 flags from the profile, overridden by the spec's
// preset and crf. A video bitrate replaces the crf.
func x264Args(spec backend.OperationSpec) []string {
	p := profileFor(spec.Profile)
	if spec.Preset != "" {
		p.Preset = spec.Preset
	}
	args := []string{"-c:v", "libx264", "-preset", p.Preset}
	if spec.VideoBitrate > 0 {
		return append(args, "-b:v", strconv.Itoa(spec.VideoBitrate)+"k")
	}
	if spec.CRF > 0 {
		p.CRF = spec.CRF
	}
	return append(args, "-crf", strconv.Itoa(p.CRF))
}

// convertVideoArgs picks codecs for a container change. WebM only carries
// VP8/VP9 and Vorbis/Opus, so the H.264 and AAC defaults are swapped there.
func convertVideoArgs(spec backend.OperationSpec, format string) []string {
	vcodec, acodec := spec.VideoCodec, spec.AudioCodec
	if vcodec == "" {
		vcodec = "libx264"
	}
	if acodec == "" {
		acodec = "aac"
	}
	if format == "webm" {
		if vcodec == "libx264" {
			vcodec = "libvpx-vp9"
		}
		if acodec == "aac" {
			acodec = "libvorbis"
		}
	}

	var args []string
	switch vcodec {
	case "libx264":
		args = x264Args(spec)
	case "libx265":
		args = append([]string{"-c:v", "libx265"}, x264Args(spec)[2:]...)
	default:
		args = []string{"-c:v", vcodec}
	}
	return append(args, "-c:a", acodec)
}

// mergeAudioArgs builds an overlay or sequential mix of a main and a
// background track. durations holds the probed length of each source.
func mergeAudioArgs(sources []string, durations []float64, spec backend.OperationSpec, target string) ([]string, error) {
	if err := spec.Check(); err != nil {
		return nil, err
	}
	if len(sources) != 2 || len(durations) != 2 {
		return nil, fmt.Errorf("audio merge needs exactly 2 sources, got %d", len(sources))
	}
	m := spec.Merge
	mainDur, bgDur := durations[0], durations[1]

	var filters []string
	var total float64
	mainVol := fmt.Sprintf("[0:a]volume=%s[main]", formatSeconds(m.MainVolume))

	switch m.Mode {
	case backend.MergeSequential:
		filters = append(filters,
			mainVol,
			fmt.Sprintf("[1:a]volume=%s[bg]", formatSeconds(m.BackgroundVolume)),
			"[main][bg]concat=n=2:v=0:a=1[mix]",
		)
		total = mainDur + bgDur
	default:
		bg := fmt.Sprintf("[1:a]volume=%s", formatSeconds(m.BackgroundVolume))
		switch m.SyncMethod {
		case backend.SyncStretch:
			if mainDur > 0 && bgDur > 0 {
				bg += ",atempo=" + formatSeconds(clampTempo(bgDur/mainDur))
			}
		case backend.SyncTrim:
			bg += fmt.Sprintf(",atrim=0:%s,apad=whole_dur=%s", formatSeconds(mainDur), formatSeconds(mainDur))
		default:
			bg += fmt.Sprintf(",aloop=loop=-1:size=2e+09,atrim=0:%s", formatSeconds(mainDur))
		}
		filters = append(filters, mainVol, bg+"[bg]", "[main][bg]amix=inputs=2:duration=longest[mix]")
		total = mainDur
	}

	out := "[mix]"
	if fades := fadeFilters(m.FadeIn, m.FadeOut, total); fades != "" {
		filters = append(filters, "[mix]"+fades+"[out]")
		out = "[out]"
	}

	args := append([]string(nil), commonArgs...)
	args = append(args, "-i", sources[0], "-i", sources[1],
		"-filter_complex", strings.Join(filters, ";"),
		"-map", out)
	args = append(args, audioEncodeArgs(spec.TargetFormat(target), spec.AudioBitrate, 0, 0)...)
	return append(args, target), nil
}

// clampTempo keeps a tempo ratio inside the range a single atempo accepts.
func clampTempo(r float64) float64 {
	return math.Max(0.5, math.Min(2.0, r))
}

func fadeFilters(in, out, total float64) string {
	var parts []string
	if in > 0 {
		parts = append(parts, "afade=t=in:st=0:d="+formatSeconds(in))
	}
	if out > 0 && total > out {
		parts = append(parts, fmt.Sprintf("afade=t=out:st=%s:d=%s", formatSeconds(total-out), formatSeconds(out)))
	}
	return strings.Join(parts, ",")
}

// concatArgs joins videos in list order, scaling each to the first one's
// resolution. withAudio is false when any source lacks an audio stream.
func concatArgs(sources []string, width, height int, withAudio bool, spec backend.OperationSpec, target string) ([]string, error) {
	if len(sources) < 2 {
		return nil, fmt.Errorf("concat needs at least 2 sources, got %d", len(sources))
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid concat resolution %dx%d", width, height)
	}

	args := append([]string(nil), commonArgs...)
	var filters []string
	var inputs strings.Builder
	for i, s := range sources {
		args = append(args, "-i", s)
		filters = append(filters, fmt.Sprintf("[%d:v]scale=%d:%d,setsar=1[v%d]", i, width, height, i))
		inputs.WriteString("[v" + strconv.Itoa(i) + "]")
		if withAudio {
			inputs.WriteString("[" + strconv.Itoa(i) + ":a]")
		}
	}

	audio := 0
	maps := []string{"-map", "[v]"}
	outs := "[v]"
	if withAudio {
		audio = 1
		maps = append(maps, "-map", "[a]")
		outs = "[v][a]"
	}
	filters = append(filters, fmt.Sprintf("%sconcat=n=%d:v=1:a=%d%s", inputs.String(), len(sources), audio, outs))

	args = append(args, "-filter_complex", strings.Join(filters, ";"))
	args = append(args, maps...)
	args = append(args, videoEncodeArgs(spec.Profile)...)
	return append(args, target), nil
}

// watermarkImageArgs overlays an image, faded to the watermark opacity, on a
// video. The video's audio is kept when it has any.
func watermarkImageArgs(video, image string, spec backend.OperationSpec, target string) ([]string, error) {
	if err := spec.Check(); err != nil {
		return nil, err
	}
	x, y := markPosition(spec.Watermark, "main_w-overlay_w", "main_h-overlay_h")
	filter := fmt.Sprintf("[1:v]format=rgba,colorchannelmixer=aa=%s[wm];[0:v][wm]overlay=x=%s:y=%s[v]",
		formatSeconds(spec.Watermark.Opacity), x, y)

	args := append([]string(nil), commonArgs...)
	args = append(args, "-i", video, "-i", image, "-filter_complex", filter, "-map", "[v]", "-map", "0:a?")
	args = append(args, videoEncodeArgs(spec.Profile)...)
	return append(args, target), nil
}

// replaceAudioArgs swaps a video's audio for a new track fitted to the video
// by spec.AudioSync. durations holds the probed video and audio lengths.
func replaceAudioArgs(video, audio string, durations []float64, spec backend.OperationSpec, target string) ([]string, error) {
	if err := spec.Check(); err != nil {
		return nil, err
	}
	if len(durations) != 2 {
		return nil, fmt.Errorf("audio replacement needs 2 durations, got %d", len(durations))
	}
	videoDur, audioDur := durations[0], durations[1]

	args := append([]string(nil), commonArgs...)
	var filters []string
	switch spec.AudioSync {
	case backend.ReplaceLoopAudio:
		if audioDur < videoDur {
			filters = append(filters, "aloop=loop=-1:size=2e+09", "atrim=0:"+formatSeconds(videoDur))
		}
	case backend.ReplaceTrimAudio:
		filters = append(filters, "atrim=0:"+formatSeconds(videoDur))
	case backend.ReplaceTrimVideo:
		args = append(args, "-t", formatSeconds(audioDur))
	default:
		if audioDur > 0 && videoDur > 0 && audioDur != videoDur {
			filters = append(filters, "atempo="+formatSeconds(clampTempo(audioDur/videoDur)))
		}
	}
	if spec.Volume != 1 {
		filters = append(filters, "volume="+formatSeconds(spec.Volume))
	}
	if len(filters) == 0 {
		filters = []string{"anull"}
	}

	args = append(args, "-i", video, "-i", audio,
		"-filter_complex", "[1:a]"+strings.Join(filters, ",")+"[a]",
		"-map", "0:v", "-map", "[a]")
	args = append(args, videoEncodeArgs(spec.Profile)...)
	return append(args, target), nil
}

// probeArgs returns the ffprobe arguments for a JSON description of source.
func probeArgs(source string) []string {
	return []string{"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", "-show_chapters", source}
}
