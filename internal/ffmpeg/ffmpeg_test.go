package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioEncodeArgs(t *testing.T) {
	testCases := []struct {
		format   string
		bitrate  int
		rate     int
		channels int
		expected []string
	}{
		{format: "mp3", bitrate: 192, expected: []string{"-acodec", "libmp3lame", "-b:a", "192k"}},
		{format: "wav", bitrate: 192, expected: []string{"-acodec", "pcm_s16le"}},
		{format: "flac", bitrate: 320, expected: []string{"-acodec", "flac", "-compression_level", "5"}},
		{format: "ogg", bitrate: 128, rate: 44100, channels: 2, expected: []string{"-acodec", "libvorbis", "-b:a", "128k", "-ar", "44100", "-ac", "2"}},
		{format: "M4A", bitrate: 256, expected: []string{"-acodec", "aac", "-b:a", "256k"}},
		{format: "xyz", bitrate: 0, expected: []string{"-acodec", "libmp3lame"}},
	}
	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			got := audioEncodeArgs(tc.format, tc.bitrate, tc.rate, tc.channels)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("audioEncodeArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProfiles(t *testing.T) {
	assert.Equal(t, Profile{Preset: "veryfast", CRF: 28}, profileFor("fast"))
	assert.Equal(t, Profile{Preset: "medium", CRF: 23}, profileFor("balanced"))
	assert.Equal(t, Profile{Preset: "slow", CRF: 18}, profileFor("quality"))
	assert.Equal(t, profileFor("balanced"), profileFor("warp"))
}

func TestParseFrameRate(t *testing.T) {
	testCases := map[string]float64{
		"30/1":       30,
		"30000/1001": 30000.0 / 1001.0,
		"29.97":      29.97,
		"25":         25,
		"0/0":        30,
		"abc":        30,
		"":           30,
		"-5":         30,
	}
	for in, want := range testCases {
		assert.InDelta(t, want, parseFrameRate(in), 1e-9, "input %q", in)
	}
}

func TestTransformArgs(t *testing.T) {
	testCases := []struct {
		name     string
		spec     backend.OperationSpec
		target   string
		contains []string
		absent   []string
	}{
		{
			name:     "extract audio",
			spec:     backend.OperationSpec{Operation: backend.OpExtractAudio, Format: "mp3", AudioBitrate: 192},
			target:   "/w/out.mp3",
			contains: []string{"-vn", "-acodec libmp3lame", "-b:a 192k", "/w/out.mp3"},
		},
		{
			name:     "adjust volume",
			spec:     backend.OperationSpec{Operation: backend.OpAdjustVolume, Volume: 1.5},
			target:   "/w/out.wav",
			contains: []string{"-af volume=1.5", "-acodec pcm_s16le"},
			absent:   []string{"-b:a"},
		},
		{
			name:     "trim window",
			spec:     backend.OperationSpec{Operation: backend.OpTrim, StartTime: 2.5, Duration: 10, Profile: "fast"},
			target:   "/w/out.mp4",
			contains: []string{"-ss 2.5 -i /in", "-t 10", "-preset veryfast -crf 28"},
		},
		{
			name:     "trim to end",
			spec:     backend.OperationSpec{Operation: backend.OpTrim, Profile: "balanced"},
			target:   "/w/out.mp4",
			absent:   []string{"-ss", "-t "},
			contains: []string{"-c:v libx264", "-c:a aac"},
		},
		{
			name:     "resize keeping aspect",
			spec:     backend.OperationSpec{Operation: backend.OpResize, Width: 1280, Height: 720, KeepAspect: true},
			target:   "/w/out.mp4",
			contains: []string{"scale=1280:720:force_original_aspect_ratio=decrease"},
		},
		{
			name:     "rotate counter clockwise",
			spec:     backend.OperationSpec{Operation: backend.OpRotate, Rotation: -90},
			target:   "/w/out.mp4",
			contains: []string{"-vf transpose=2"},
		},
		{
			name:     "trim audio",
			spec:     backend.OperationSpec{Operation: backend.OpTrimAudio, StartTime: 30, Duration: 15, AudioBitrate: 192},
			target:   "/w/out.mp3",
			contains: []string{"-ss 30 -i /in -vn", "-t 15", "-acodec libmp3lame", "-b:a 192k"},
			absent:   []string{"libx264"},
		},
		{
			name:     "bandpass noise reduction",
			spec:     backend.OperationSpec{Operation: backend.OpDenoise, Denoise: backend.DenoiseOptions{Method: backend.DenoiseBandpass, Low: 300, High: 3400}},
			target:   "/w/out.wav",
			contains: []string{"-af highpass=f=300,lowpass=f=3400", "-acodec pcm_s16le"},
		},
		{
			name:     "fft noise reduction",
			spec:     backend.OperationSpec{Operation: backend.OpDenoise, Denoise: backend.DenoiseOptions{Method: backend.DenoiseFFT, Strength: 12}},
			target:   "/w/out.mp3",
			contains: []string{"-af afftdn=nr=12"},
		},
		{
			name:     "compress by crf",
			spec:     backend.OperationSpec{Operation: backend.OpCompress, CRF: 30, Preset: "slower", AudioBitrate: 96},
			target:   "/w/out.mp4",
			contains: []string{"-c:v libx264 -preset slower -crf 30", "-c:a aac -b:a 96k"},
		},
		{
			name:     "compress by bitrate",
			spec:     backend.OperationSpec{Operation: backend.OpCompress, VideoBitrate: 800, Profile: "fast"},
			target:   "/w/out.mp4",
			contains: []string{"-preset veryfast -b:v 800k"},
			absent:   []string{"-crf"},
		},
		{
			name:     "speed up four times",
			spec:     backend.OperationSpec{Operation: backend.OpSpeed, Speed: 4},
			target:   "/w/out.mp4",
			contains: []string{"-filter:v setpts=0.25*PTS", "-filter:a atempo=2,atempo=2", "-c:a aac"},
		},
		{
			name:     "slow down without audio",
			spec:     backend.OperationSpec{Operation: backend.OpSpeed, Speed: 0.5, DropAudio: true},
			target:   "/w/out.mp4",
			contains: []string{"setpts=2*PTS", "-an"},
			absent:   []string{"atempo", "-c:a"},
		},
		{
			name:     "frame rate with interpolation",
			spec:     backend.OperationSpec{Operation: backend.OpFrameRate, FrameRate: 60, Interpolate: true},
			target:   "/w/out.mp4",
			contains: []string{"-vf minterpolate=fps=60:mi_mode=mci"},
		},
		{
			name:     "frame rate by dropping frames",
			spec:     backend.OperationSpec{Operation: backend.OpFrameRate, FrameRate: 23.976},
			target:   "/w/out.mp4",
			contains: []string{"-vf fps=23.976"},
		},
		{
			name:     "convert to webm swaps codecs",
			spec:     backend.OperationSpec{Operation: backend.OpConvertVideo, Format: "webm"},
			target:   "/w/out.webm",
			contains: []string{"-c:v libvpx-vp9", "-c:a libvorbis"},
			absent:   []string{"libx264", "-crf"},
		},
		{
			name:     "convert with stream copy",
			spec:     backend.OperationSpec{Operation: backend.OpConvertVideo, VideoCodec: "copy", AudioCodec: "mp3"},
			target:   "/w/out.mkv",
			contains: []string{"-c:v copy -c:a mp3"},
		},
		{
			name:     "convert to hevc",
			spec:     backend.OperationSpec{Operation: backend.OpConvertVideo, VideoCodec: "libx265", Profile: "quality"},
			target:   "/w/out.mp4",
			contains: []string{"-c:v libx265 -preset slow -crf 18 -c:a aac"},
		},
		{
			name:     "remove audio",
			spec:     backend.OperationSpec{Operation: backend.OpRemoveAudio},
			target:   "/w/out.mp4",
			contains: []string{"-i /in -c:v copy -an /w/out.mp4"},
		},
		{
			name: "gif",
			spec: backend.OperationSpec{
				Operation: backend.OpGIF, StartTime: 3, Duration: 4, Width: 320, FrameRate: 12,
				GIF: backend.GIFOptions{Quality: backend.GIFLow, Dither: true, Loop: 0},
			},
			target: "/w/out.gif",
			contains: []string{
				"-ss 3 -t 4 -i /in",
				"[0:v]fps=12,scale=320:-1:flags=lanczos,split[a][b];[a]palettegen=max_colors=64[p];[b][p]paletteuse=dither=bayer:bayer_scale=4",
				"-loop 0",
			},
		},
		{
			name: "text watermark",
			spec: backend.OperationSpec{Operation: backend.OpWatermark, Watermark: backend.WatermarkOptions{
				Text: "mediagrid", Position: backend.TopRight, Opacity: 0.5, FontSize: 24, FontColor: "white", Padding: 10,
			}},
			target:   "/w/out.mp4",
			contains: []string{"drawtext=text='mediagrid':fontsize=24:fontcolor=white@0.5:x=(w-text_w-10):y=10"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args, err := transformArgs("/in", tc.spec, tc.target)
			require.NoError(t, err)
			joined := strings.Join(args, " ")
			assert.True(t, strings.HasPrefix(joined, "-hide_banner -nostdin -y"))
			assert.True(t, strings.HasSuffix(joined, tc.target))
			for _, c := range tc.contains {
				assert.Contains(t, joined, c)
			}
			for _, a := range tc.absent {
				assert.NotContains(t, joined, a)
			}
		})
	}

	_, err := transformArgs("/in", backend.OperationSpec{Operation: backend.OpConcat}, "/out")
	assert.Error(t, err)
}

func TestAtempoChain(t *testing.T) {
	testCases := map[float64]string{
		1:    "",
		1.5:  "atempo=1.5",
		8:    "atempo=2,atempo=2,atempo=2",
		0.25: "atempo=0.5,atempo=0.5",
		0.3:  "atempo=0.5,atempo=0.6",
	}
	for in, want := range testCases {
		assert.Equal(t, want, atempoChain(in), "speed %g", in)
	}
}

func TestEscapeDrawtext(t *testing.T) {
	assert.Equal(t, `it'\''s 100\%`, escapeDrawtext("it's 100%"))
}

func TestMarkPosition(t *testing.T) {
	w := backend.WatermarkOptions{Padding: 8}
	testCases := map[string][2]string{
		backend.TopLeft:     {"8", "8"},
		backend.TopRight:    {"(W-8)", "8"},
		backend.BottomLeft:  {"8", "(H-8)"},
		backend.BottomRight: {"(W-8)", "(H-8)"},
		backend.Center:      {"(W)/2", "(H)/2"},
	}
	for pos, want := range testCases {
		w.Position = pos
		x, y := markPosition(w, "W", "H")
		assert.Equal(t, want, [2]string{x, y}, pos)
	}
}

func TestWatermarkImageArgs(t *testing.T) {
	spec := backend.OperationSpec{Operation: backend.OpWatermark, Watermark: backend.WatermarkOptions{Position: backend.BottomRight, Opacity: 0.7, Padding: 10}}
	args, err := watermarkImageArgs("in.mp4", "logo.png", spec, "out.mp4")
	require.NoError(t, err)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-i in.mp4 -i logo.png")
	assert.Contains(t, joined, "[1:v]format=rgba,colorchannelmixer=aa=0.7[wm];[0:v][wm]overlay=x=(main_w-overlay_w-10):y=(main_h-overlay_h-10)[v]")
	assert.Contains(t, joined, "-map [v] -map 0:a?")

	spec.Watermark.Position = "middle"
	_, err = watermarkImageArgs("in.mp4", "logo.png", spec, "out.mp4")
	assert.Error(t, err)
}

func TestReplaceAudioArgs(t *testing.T) {
	base := backend.OperationSpec{Operation: backend.OpReplaceAudio, Volume: 1}

	testCases := []struct {
		name      string
		sync      string
		volume    float64
		durations []float64
		contains  []string
		absent    []string
	}{
		{
			name:      "stretch clamps the tempo",
			sync:      backend.ReplaceStretchAudio,
			durations: []float64{30, 90},
			contains:  []string{"[1:a]atempo=2[a]"},
		},
		{
			name:      "loop a short track",
			sync:      backend.ReplaceLoopAudio,
			durations: []float64{60, 20},
			contains:  []string{"[1:a]aloop=loop=-1:size=2e+09,atrim=0:60[a]"},
		},
		{
			name:      "trim the track",
			sync:      backend.ReplaceTrimAudio,
			volume:    0.8,
			durations: []float64{60, 200},
			contains:  []string{"[1:a]atrim=0:60,volume=0.8[a]"},
		},
		{
			name:      "trim the video",
			sync:      backend.ReplaceTrimVideo,
			durations: []float64{60, 42.5},
			contains:  []string{"-t 42.5 -i in.mp4 -i new.mp3", "[1:a]anull[a]"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec := base
			spec.AudioSync = tc.sync
			if tc.volume != 0 {
				spec.Volume = tc.volume
			}
			args, err := replaceAudioArgs("in.mp4", "new.mp3", tc.durations, spec, "out.mp4")
			require.NoError(t, err)
			joined := strings.Join(args, " ")
			assert.Contains(t, joined, "-map 0:v -map [a]")
			for _, c := range tc.contains {
				assert.Contains(t, joined, c)
			}
		})
	}
}

func TestMergeAudioArgs(t *testing.T) {
	base := backend.OperationSpec{
		Operation:    backend.OpMergeAudio,
		AudioBitrate: 192,
		Merge:        backend.MergeOptions{Mode: backend.MergeOverlay, MainVolume: 1, BackgroundVolume: 0.3, SyncMethod: backend.SyncLoop},
	}
	durations := []float64{60, 20}

	t.Run("overlay loops the background", func(t *testing.T) {
		args, err := mergeAudioArgs([]string{"main.mp3", "bg.mp3"}, durations, base, "out.mp3")
		require.NoError(t, err)
		joined := strings.Join(args, " ")
		assert.Contains(t, joined, "[1:a]volume=0.3,aloop=loop=-1:size=2e+09,atrim=0:60[bg]")
		assert.Contains(t, joined, "amix=inputs=2:duration=longest")
		assert.Contains(t, joined, "-map [mix]")
	})

	t.Run("stretch clamps the tempo", func(t *testing.T) {
		spec := base
		spec.Merge.SyncMethod = backend.SyncStretch
		args, err := mergeAudioArgs([]string{"main.mp3", "bg.mp3"}, []float64{10, 100}, spec, "out.mp3")
		require.NoError(t, err)
		assert.Contains(t, strings.Join(args, " "), "atempo=2")
	})

	t.Run("sequential concatenates with fades", func(t *testing.T) {
		spec := base
		spec.Merge.Mode = backend.MergeSequential
		spec.Merge.FadeIn, spec.Merge.FadeOut = 1, 2
		args, err := mergeAudioArgs([]string{"main.mp3", "bg.mp3"}, durations, spec, "out.mp3")
		require.NoError(t, err)
		joined := strings.Join(args, " ")
		assert.Contains(t, joined, "concat=n=2:v=0:a=1[mix]")
		assert.Contains(t, joined, "afade=t=in:st=0:d=1,afade=t=out:st=78:d=2[out]")
		assert.Contains(t, joined, "-map [out]")
	})

	t.Run("needs two sources", func(t *testing.T) {
		_, err := mergeAudioArgs([]string{"a"}, []float64{1}, base, "out.mp3")
		assert.Error(t, err)
	})
}

func TestConcatArgs(t *testing.T) {
	args, err := concatArgs([]string{"a.mp4", "b.mp4", "c.mp4"}, 1920, 1080, true, backend.OperationSpec{Operation: backend.OpConcat}, "out.mp4")
	require.NoError(t, err)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "[2:v]scale=1920:1080,setsar=1[v2]")
	assert.Contains(t, joined, "[v0][0:a][v1][1:a][v2][2:a]concat=n=3:v=1:a=1[v][a]")

	args, err = concatArgs([]string{"a.mp4", "b.mp4"}, 640, 360, false, backend.OperationSpec{Operation: backend.OpConcat}, "out.mp4")
	require.NoError(t, err)
	joined = strings.Join(args, " ")
	assert.Contains(t, joined, "concat=n=2:v=1:a=0[v]")
	assert.NotContains(t, joined, "-map [a]")

	_, err = concatArgs([]string{"a.mp4"}, 640, 360, true, backend.OperationSpec{}, "out.mp4")
	assert.Error(t, err)
}

const probeJSON = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "avg_frame_rate": "0/0", "r_frame_rate": "30000/1001", "duration": "12.5"},
    {"index": 1, "codec_type": "audio", "codec_name": "aac", "sample_rate": "48000", "channels": 2, "duration": "12.4"}
  ],
  "chapters": [{}],
  "format": {"format_name": "mov,mp4", "duration": "12.500000", "size": "1048576", "bit_rate": "671088", "tags": {"title": "demo"}}
}`

func TestParseProbe(t *testing.T) {
	m, err := parseProbe("in.mp4", []byte(probeJSON))
	require.NoError(t, err)
	assert.Equal(t, "mov,mp4", m.FormatName)
	assert.InDelta(t, 12.5, m.Duration, 1e-9)
	assert.Equal(t, int64(1048576), m.Size)
	assert.Equal(t, 1, m.Chapters)
	require.Len(t, m.Streams, 2)
	assert.InDelta(t, 29.97, m.Streams[0].FrameRate, 0.01)
	assert.Equal(t, 48000, m.Streams[1].SampleRate)
	assert.Equal(t, "demo", m.Tags["title"])

	_, err = parseProbe("x", []byte("not json"))
	assert.Error(t, err)
	_, err = parseProbe("x", []byte(`{}`))
	assert.Error(t, err)
}

type fakeRunner struct {
	mu     sync.Mutex
	cmds   []Command
	stdout map[string][]byte // by last arg
	err    error
}

func (f *fakeRunner) run(_ context.Context, cmd Command) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cmds = append(f.cmds, cmd)
	if f.err != nil {
		return &Result{Stderr: []byte("line1\nInvalid data found when processing input"), ExitCode: 1}, f.err
	}
	last := cmd.Args[len(cmd.Args)-1]
	return &Result{Stdout: f.stdout[last]}, nil
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, nil, 0o644))
	return p
}

func TestBackend_Transform(t *testing.T) {
	ctx := testutil.NewContext(t)
	dir := t.TempDir()
	src := touch(t, dir, "in.mp4")
	runner := &fakeRunner{}
	b := New(Config{FFmpegPath: "/opt/ffmpeg", Profile: "quality"}, runner.run)

	target := filepath.Join(dir, "out", "trimmed.mp4")
	art, err := b.Transform(ctx, []string{src}, backend.OperationSpec{Operation: backend.OpTrim, Duration: 3}, target)
	require.NoError(t, err)
	assert.Equal(t, target, art.Path)
	assert.Equal(t, "mp4", art.Format)
	assert.DirExists(t, filepath.Dir(target))

	require.Len(t, runner.cmds, 1)
	assert.Equal(t, "/opt/ffmpeg", runner.cmds[0].Binary)
	assert.Contains(t, strings.Join(runner.cmds[0].Args, " "), "-preset slow -crf 18")
}

func TestBackend_TransformErrors(t *testing.T) {
	ctx := testutil.NewContext(t)
	dir := t.TempDir()
	src := touch(t, dir, "in.mp4")

	b := New(Config{}, (&fakeRunner{err: errors.New("exit status 1")}).run)
	_, err := b.Transform(ctx, []string{src}, backend.OperationSpec{Operation: backend.OpRotate, Rotation: 90}, filepath.Join(dir, "o.mp4"))
	require.ErrorIs(t, err, backend.ErrTransform)
	assert.Contains(t, err.Error(), "Invalid data found")

	_, err = b.Transform(ctx, []string{filepath.Join(dir, "missing.mp4")}, backend.OperationSpec{Operation: backend.OpRotate}, filepath.Join(dir, "o.mp4"))
	assert.ErrorIs(t, err, backend.ErrTransform)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBackend_ProbeAndMerge(t *testing.T) {
	ctx := testutil.NewContext(t)
	dir := t.TempDir()
	a := touch(t, dir, "a.mp4")
	c := touch(t, dir, "c.mp4")
	runner := &fakeRunner{stdout: map[string][]byte{a: []byte(probeJSON), c: []byte(probeJSON)}}
	b := New(Config{}, runner.run)

	m, err := b.Probe(ctx, a)
	require.NoError(t, err)
	assert.True(t, m.HasVideo())

	_, err = b.Probe(ctx, filepath.Join(dir, "nope.mp4"))
	assert.ErrorIs(t, err, backend.ErrProbe)

	target := filepath.Join(dir, "joined.mp4")
	_, err = b.Merge(ctx, []string{a, c}, backend.OperationSpec{Operation: backend.OpConcat}, target)
	require.NoError(t, err)
	last := runner.cmds[len(runner.cmds)-1]
	assert.Equal(t, "ffmpeg", last.Binary)
	assert.Contains(t, strings.Join(last.Args, " "), "scale=1920:1080")

	// An image watermark needs no probing.
	logo := touch(t, dir, "logo.png")
	before := len(runner.cmds)
	_, err = b.Merge(ctx, []string{a, logo}, backend.OperationSpec{
		Operation: backend.OpWatermark,
		Watermark: backend.WatermarkOptions{Position: backend.Center, Opacity: 1},
	}, filepath.Join(dir, "marked.mp4"))
	require.NoError(t, err)
	require.Len(t, runner.cmds, before+1)
	assert.Contains(t, strings.Join(runner.cmds[before].Args, " "), "overlay=x=(main_w-overlay_w)/2")

	_, err = b.Merge(ctx, []string{a}, backend.OperationSpec{Operation: backend.OpReplaceAudio, Volume: 1}, filepath.Join(dir, "x.mp4"))
	assert.ErrorIs(t, err, backend.ErrMerge)
}
