package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/ctxlog"
)

// Config locates the binaries and tunes process handling.
type Config struct {
	FFmpegPath  string
	FFprobePath string
	// Profile is the default video encoder profile: fast, balanced or quality.
	Profile     string
	GracePeriod time.Duration
}

// Backend runs ffmpeg and ffprobe processes.
type Backend struct {
	cfg Config
	run Runner
}

var _ backend.Backend = (*Backend)(nil)

// New creates a Backend. A nil runner uses Run.
func New(cfg Config, run Runner) *Backend {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if cfg.Profile == "" {
		cfg.Profile = "balanced"
	}
	if run == nil {
		run = Run
	}
	return &Backend{cfg: cfg, run: run}
}

// Probe implements backend.Backend.
func (b *Backend) Probe(ctx context.Context, source string) (*backend.Metadata, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, &backend.ProbeError{Source: source, Err: err}
	}
	res, err := b.exec(ctx, b.cfg.FFprobePath, probeArgs(source))
	if err != nil {
		return nil, &backend.ProbeError{Source: source, Err: err}
	}
	m, err := parseProbe(source, res.Stdout)
	if err != nil {
		return nil, &backend.ProbeError{Source: source, Err: err}
	}
	return m, nil
}

// Transform implements backend.Backend.
func (b *Backend) Transform(ctx context.Context, sources []string, spec backend.OperationSpec, target string) (backend.Artifact, error) {
	fail := func(err error) (backend.Artifact, error) {
		return backend.Artifact{}, &backend.TransformError{Operation: spec.Operation, Sources: sources, Target: target, Err: err}
	}
	if len(sources) != 1 {
		return fail(fmt.Errorf("expected exactly 1 source, got %d", len(sources)))
	}
	if err := checkSources(sources); err != nil {
		return fail(err)
	}
	spec = b.withDefaults(spec)

	args, err := transformArgs(sources[0], spec, target)
	if err != nil {
		return fail(err)
	}
	if err := b.write(ctx, args, target); err != nil {
		return fail(err)
	}
	return backend.Artifact{Path: target, Format: spec.TargetFormat(target)}, nil
}

// Merge implements backend.Backend.
func (b *Backend) Merge(ctx context.Context, sources []string, spec backend.OperationSpec, target string) (backend.Artifact, error) {
	fail := func(err error) (backend.Artifact, error) {
		return backend.Artifact{}, &backend.MergeError{Operation: spec.Operation, Sources: sources, Target: target, Err: err}
	}
	if err := checkSources(sources); err != nil {
		return fail(err)
	}
	spec = b.withDefaults(spec)

	var args []string
	var err error
	switch spec.Operation {
	case backend.OpMergeAudio, backend.OpReplaceAudio:
		var durations []float64
		durations, err = b.durations(ctx, sources)
		if err != nil {
			return fail(err)
		}
		if spec.Operation == backend.OpMergeAudio {
			args, err = mergeAudioArgs(sources, durations, spec, target)
		} else if len(sources) != 2 {
			err = fmt.Errorf("audio replacement needs a video and an audio source, got %d sources", len(sources))
		} else {
			args, err = replaceAudioArgs(sources[0], sources[1], durations, spec, target)
		}
	case backend.OpConcat:
		metas := make([]*backend.Metadata, len(sources))
		for i, s := range sources {
			if metas[i], err = b.Probe(ctx, s); err != nil {
				return fail(err)
			}
		}
		first, ok := metas[0].FirstVideo()
		if !ok {
			return fail(fmt.Errorf("%s has no video stream", sources[0]))
		}
		withAudio := true
		for _, m := range metas {
			withAudio = withAudio && m.HasAudio()
		}
		args, err = concatArgs(sources, first.Width, first.Height, withAudio, spec, target)
	case backend.OpWatermark:
		if len(sources) != 2 {
			err = fmt.Errorf("image watermark needs a video and an image source, got %d sources", len(sources))
			break
		}
		args, err = watermarkImageArgs(sources[0], sources[1], spec, target)
	default:
		err = fmt.Errorf("operation %q is not a merge", spec.Operation)
	}
	if err != nil {
		return fail(err)
	}
	if err := b.write(ctx, args, target); err != nil {
		return fail(err)
	}
	return backend.Artifact{Path: target, Format: spec.TargetFormat(target)}, nil
}

// durations returns the length of each source from Probe. The filter graphs that fit one
// track to another need them before they can be written.
func (b *Backend) durations(ctx context.Context, sources []string) ([]float64, error) {
	out := make([]float64, len(sources))
	for i, s := range sources {
		m, err := b.Probe(ctx, s)
		if err != nil {
			return nil, err
		}
		out[i] = m.Duration
	}
	return out, nil
}

func (b *Backend) withDefaults(spec backend.OperationSpec) backend.OperationSpec {
	if spec.Profile == "" {
		spec.Profile = b.cfg.Profile
	}
	return spec
}

func (b *Backend) write(ctx context.Context, args []string, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	_, err := b.exec(ctx, b.cfg.FFmpegPath, args)
	return err
}

func (b *Backend) exec(ctx context.Context, binary string, args []string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running media process.", "binary", binary, "args", strings.Join(args, " "))

	res, err := b.run(ctx, Command{Binary: binary, Args: args, GracePeriod: b.cfg.GracePeriod})
	if err != nil {
		if res != nil && len(res.Stderr) > 0 {
			return res, fmt.Errorf("%w: %s", err, stderrTail(res.Stderr))
		}
		return res, err
	}
	logger.Debug("Media process finished.", "binary", binary, "duration", res.Duration)
	return res, nil
}

func checkSources(sources []string) error {
	if len(sources) == 0 {
		return errors.New("no sources")
	}
	for _, s := range sources {
		if _, err := os.Stat(s); err != nil {
			return err
		}
	}
	return nil
}

// stderrTail keeps the last few lines of process output for error messages.
func stderrTail(stderr []byte) string {
	const maxLines = 5
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, " | ")
}
