package usecase

import (
	"context"
	"log/slog"
	"time"

	"JobSniper/internal/domain"
	"JobSniper/internal/ports"
)

// RunnerDeps wires the poll loop.
type RunnerDeps struct {
	Orchestrator *Orchestrator
	Notifier     ports.Notifier
	Clock        ports.Clock
	Logger       *slog.Logger
	Interval     time.Duration
}

// Runner owns the poll loop: one full cycle across all feeds, a fixed
// pause, repeat until shutdown.
type Runner struct {
	orchestrator *Orchestrator
	notifier     ports.Notifier
	clock        ports.Clock
	logger       *slog.Logger
	interval     time.Duration
	session      domain.SessionStats
}

// NewRunner constructs the loop around an orchestrator.
func NewRunner(deps RunnerDeps) *Runner {
	if deps.Clock == nil {
		deps.Clock = systemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Runner{
		orchestrator: deps.Orchestrator,
		notifier:     deps.Notifier,
		clock:        deps.Clock,
		logger:       deps.Logger,
		interval:     deps.Interval,
	}
}

// Run announces startup, then executes cycles until ctx is canceled. A cycle
// in progress always finishes; cancellation is honored between cycles. On
// shutdown a single offline notice with session counters is sent.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.notifier.Send(ctx, onlineMessage()); err != nil {
		r.logger.Warn("online notice failed", "error", err)
	}
	r.logger.Info("poll loop started", "interval", r.interval)

	// Collaborators inside a cycle must not observe mid-cycle cancellation.
	cycleCtx := context.WithoutCancel(ctx)

	for {
		r.logger.Info("cycle starting", "cycle", r.session.Cycles+1, "at", r.clock.Now().Format(time.TimeOnly))
		stats := r.orchestrator.RunCycle(cycleCtx)
		r.session.Add(stats)
		r.logger.Info("cycle complete",
			"cycle", r.session.Cycles,
			"fetched", stats.Fetched,
			"fresh", stats.Fresh,
			"relevant", stats.Relevant,
			"alerted", stats.Alerted,
			"suppressed", stats.Suppressed,
			"failed_feeds", stats.FailedFeeds,
		)

		select {
		case <-ctx.Done():
			r.shutdown(cycleCtx)
			return nil
		case <-r.clock.After(r.interval):
		}
	}
}

func (r *Runner) shutdown(ctx context.Context) {
	r.logger.Info("shutting down", "cycles", r.session.Cycles, "alerted", r.session.Alerted)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := r.notifier.Send(ctx, offlineMessage(r.session)); err != nil {
		r.logger.Warn("offline notice failed", "error", err)
	}
}
