package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/mediagrid/internal/config"
	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/dag"
)

// LoadDefinition runs every loader over the configured graph paths and
// merges the results in loader order.
func (a *App) LoadDefinition(ctx context.Context) (*config.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading graph definitions...", "paths", a.config.GraphPaths)

	def := &config.Definition{}
	for _, l := range a.loaders {
		d, err := l.Load(ctx, a.config.GraphPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load graph definition: %w", err)
		}
		def = def.Merge(d)
	}

	logger.Info("Graph definitions loaded.", "nodes_found", len(def.Nodes))
	return def, nil
}

// Validate loads and validates the graph without executing it.
func (a *App) Validate(ctx context.Context) (*dag.Graph, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	def, err := a.LoadDefinition(ctx)
	if err != nil {
		return nil, err
	}
	g, err := dag.Validate(ctx, def, a.registry)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Graph validated.", "node_count", g.Len())
	return g, nil
}
