package app

import (
	"context"
	"errors"

	"github.com/specialistvlad/mediagrid/internal/ctxlog"
	"github.com/specialistvlad/mediagrid/internal/executor"
	"github.com/specialistvlad/mediagrid/internal/notify"
	"github.com/specialistvlad/mediagrid/internal/session"
)

// Run validates and executes the configured graph. The report is nil only
// when the graph never reached execution. The error is non-nil when
// validation failed, a node failed, the run was cancelled or promotion failed.
func (a *App) Run(ctx context.Context) (*executor.Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthServer(ctx)
		defer a.closeHealthServer(ctx)
	}

	g, err := a.Validate(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, g.Len())
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	sess, err := session.New(a.config.ScratchDir,
		session.WithSaveDir(a.config.SaveDir),
		session.WithKeepScratch(a.config.KeepScratch),
		session.WithNodeOrder(ids...),
	)
	if err != nil {
		return nil, err
	}
	ctx = ctxlog.With(ctx, "runID", sess.RunID())
	logger := ctxlog.FromContext(ctx)

	opts := []executor.Option{
		executor.WithWorkers(a.config.Workers),
		executor.WithObserver(a.metrics),
	}
	if a.config.NotifyURL != "" {
		n, err := notify.Dial(ctx, sess.RunID(), notify.Config{URL: a.config.NotifyURL})
		if err != nil {
			// Events are best effort; the run goes ahead without them.
			logger.Warn("Run events disabled, could not connect.", "url", a.config.NotifyURL, "error", err)
		} else {
			defer n.Close()
			opts = append(opts, executor.WithObserver(n))
		}
	}

	report, execErr := executor.New(a.registry, opts...).Execute(ctx, g, sess)

	summary, closeErr := sess.Close(context.WithoutCancel(ctx), session.Outcome{Cancelled: report.Cancelled})
	if summary != nil {
		// The work files are gone now; point the report at the saved copies.
		for _, art := range summary.Promoted {
			report.Relocate(art.NodeID, art.Handle, art.Dest)
		}
		logger.Info("📦 Run closed.",
			"outcome", report.Outcome(),
			"saved", len(summary.Promoted),
			"retained", summary.Retained,
		)
	}

	a.logger.Debug("App.Run method finished.")
	return report, errors.Join(execErr, closeErr)
}
