package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/config"
	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/ffmpeg"
	"github.com/specialistvlad/mediagrid/internal/hcl_adapter"
	"github.com/specialistvlad/mediagrid/internal/metrics"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/specialistvlad/mediagrid/internal/yaml_adapter"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	loaders    []config.Loader
	backend    backend.Backend
	metrics    *metrics.Collector
	httpServer *http.Server
}

// Option customizes an App, mostly for tests.
type Option func(*App)

// WithBackend replaces the ffmpeg backend.
func WithBackend(b backend.Backend) Option {
	return func(a *App) { a.backend = b }
}

// WithLoaders replaces the HCL and YAML loaders.
func WithLoaders(loaders ...config.Loader) Option {
	return func(a *App) { a.loaders = loaders }
}

// WithModules registers these modules instead of the core modules.
func WithModules(modules ...registry.Module) Option {
	return func(a *App) {
		a.registry = registry.New()
		for _, m := range modules {
			m.Register(a.registry)
		}
	}
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// An invalid registry is a programming error and panics.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		metrics: metrics.NewCollector(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.backend == nil {
		a.backend = ffmpeg.New(ffmpeg.Config{
			FFmpegPath:  cfg.FFmpegPath,
			FFprobePath: cfg.FFprobePath,
			Profile:     cfg.Profile,
			GracePeriod: cfg.GracePeriod,
		}, nil)
	}
	if len(a.loaders) == 0 {
		a.loaders = []config.Loader{hcl_adapter.NewLoader(), yaml_adapter.NewLoader()}
	}
	if a.registry == nil {
		a.registry = registry.New()
		modules := coreModules(a.backend)
		for _, m := range modules {
			m.Register(a.registry)
		}
		logger.Debug("All Go modules registered.", "count", len(modules))
	}

	if err := a.registry.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.", "kinds", a.registry.Kinds())

	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Metrics returns the collector fed by every run of this App.
func (a *App) Metrics() *metrics.Collector {
	return a.metrics
}
