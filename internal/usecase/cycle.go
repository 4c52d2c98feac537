package usecase

import (
	"context"
	"log/slog"
	"time"

	"JobSniper/internal/domain"
	"JobSniper/internal/filter"
	"JobSniper/internal/ports"
)

// OrchestratorDeps wires all collaborators into the cycle state machine.
type OrchestratorDeps struct {
	Feeds       []domain.Feed
	Source      ports.JobSource
	Store       ports.SeenStore
	Filter      *filter.Filter
	Drafter     ports.Drafter // optional; nil disables enrichment
	Notifier    ports.Notifier
	Clock       ports.Clock
	Logger      *slog.Logger
	FirstRunCap int
	NotifyDelay time.Duration
}

// Orchestrator runs one polling pass across all configured feeds: fetch,
// dedup, relevance filter, first-run or steady-state alerting, record.
type Orchestrator struct {
	feeds       []domain.Feed
	source      ports.JobSource
	store       ports.SeenStore
	filter      *filter.Filter
	drafter     ports.Drafter
	notifier    ports.Notifier
	clock       ports.Clock
	logger      *slog.Logger
	firstRunCap int
	notifyDelay time.Duration
}

// NewOrchestrator constructs the cycle state machine.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	if deps.Clock == nil {
		deps.Clock = systemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Filter == nil {
		deps.Filter = filter.New(nil)
	}
	return &Orchestrator{
		feeds:       deps.Feeds,
		source:      deps.Source,
		store:       deps.Store,
		filter:      deps.Filter,
		drafter:     deps.Drafter,
		notifier:    deps.Notifier,
		clock:       deps.Clock,
		logger:      deps.Logger,
		firstRunCap: deps.FirstRunCap,
		notifyDelay: deps.NotifyDelay,
	}
}

// RunCycle executes one full pass over all feeds and reports what happened.
// It never returns an error: collaborator failures are absorbed per item or
// per feed and surface only through logs and counters.
func (o *Orchestrator) RunCycle(ctx context.Context) domain.CycleStats {
	var stats domain.CycleStats

	// Decided once, before any feed is processed, so records written during
	// this cycle cannot flip the policy mid-pass.
	firstRun := o.isFirstRun(ctx)

	// Relevant postings across all feeds in arrival order; first run only.
	var bootstrap []domain.Job

	for _, feed := range o.feeds {
		jobs, err := o.source.Fetch(ctx, feed)
		if err != nil {
			stats.FailedFeeds++
			o.logger.Warn("feed fetch failed", "feed", feed.Name, "error", err)
			continue
		}

		stats.Fetched += len(jobs)
		o.logger.Info("feed checked", "feed", feed.Name, "items", len(jobs))

		for _, job := range jobs {
			fresh, err := o.store.IsNew(ctx, job.ID)
			if err != nil {
				// Guessing "new" on a failed read risks a duplicate alert;
				// skipping leaves the item eligible next cycle.
				stats.Skipped++
				o.logger.Error("dedup lookup failed, skipping item", "id", job.ID, "error", err)
				continue
			}
			if !fresh {
				continue
			}
			stats.Fresh++

			if !o.filter.Relevant(job.Title, job.Summary) {
				stats.Irrelevant++
				o.record(ctx, job, &stats)
				continue
			}
			stats.Relevant++

			if firstRun {
				bootstrap = append(bootstrap, job)
				continue
			}

			o.alert(ctx, job, true, &stats)
			o.record(ctx, job, &stats)
		}
	}

	if firstRun {
		o.bootstrapAlerts(ctx, bootstrap, &stats)
	}

	if n, err := o.store.Count(ctx); err == nil {
		o.logger.Info("postings tracked", "count", n)
	}

	return stats
}

func (o *Orchestrator) isFirstRun(ctx context.Context) bool {
	empty, err := o.store.IsEmpty(ctx)
	if err != nil {
		// The capped bootstrap pass is the safe guess: misjudging a fresh
		// store as steady state would flood the channel with the backlog.
		o.logger.Error("store emptiness check failed, assuming first run", "error", err)
		return true
	}
	return empty
}

// bootstrapAlerts bounds the initial burst: the first firstRunCap relevant
// postings are alerted (no enrichment), the remainder recorded silently.
func (o *Orchestrator) bootstrapAlerts(ctx context.Context, jobs []domain.Job, stats *domain.CycleStats) {
	if len(jobs) == 0 {
		return
	}

	limit := o.firstRunCap
	if limit > len(jobs) {
		limit = len(jobs)
	}
	o.logger.Info("first run, capping bootstrap alerts", "relevant", len(jobs), "cap", o.firstRunCap)

	for i, job := range jobs {
		if i < limit {
			o.alert(ctx, job, false, stats)
		} else {
			stats.Suppressed++
		}
		o.record(ctx, job, stats)
	}
}

// alert sends one notification, optionally enriched with a proposal draft.
// Both enrichment and delivery failures are non-fatal: a posting seen but
// never alerted is preferred over one alerted twice.
func (o *Orchestrator) alert(ctx context.Context, job domain.Job, enrich bool, stats *domain.CycleStats) {
	var draft string
	if enrich && o.drafter != nil {
		text, err := o.drafter.Draft(ctx, job.Title, job.Summary)
		if err != nil {
			o.logger.Warn("draft generation failed", "id", job.ID, "error", err)
			text = DraftFallback
		}
		draft = text
	}

	if err := o.notifier.Send(ctx, FormatAlert(job, draft)); err != nil {
		o.logger.Warn("alert delivery failed", "id", job.ID, "error", err)
	} else {
		stats.Alerted++
		o.logger.Info("alerted", "id", job.ID, "title", job.Title)
	}

	// Downstream rate limit; paces only the alert step.
	if o.notifyDelay > 0 {
		select {
		case <-o.clock.After(o.notifyDelay):
		case <-ctx.Done():
		}
	}
}

func (o *Orchestrator) record(ctx context.Context, job domain.Job, stats *domain.CycleStats) {
	if err := o.store.Record(ctx, job); err != nil {
		// The item stays "new" and is naturally retried next cycle.
		stats.Unresolved++
		o.logger.Error("record failed, item retries next cycle", "id", job.ID, "error", err)
	}
}
