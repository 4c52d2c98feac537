package app

import (
	"context"
	"fmt"
	"log/slog"

	"JobSniper/internal/config"
	"JobSniper/internal/domain"
	"JobSniper/internal/filter"
	"JobSniper/internal/infrastructure/feed"
	"JobSniper/internal/infrastructure/llm"
	"JobSniper/internal/infrastructure/storage"
	"JobSniper/internal/infrastructure/telegram"
	"JobSniper/internal/logging"
	"JobSniper/internal/ports"
	"JobSniper/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	runner *usecase.Runner
	store  *storage.SQLiteStore
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open seen store: %w", err)
	}

	notifier, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("telegram notifier: %w", err)
	}

	var drafter ports.Drafter
	if cfg.LLM.APIKey != "" {
		drafter = llm.NewDrafter(cfg.LLM)
	}

	feeds := make([]domain.Feed, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		feeds = append(feeds, domain.Feed{Name: f.Name, URL: f.URL})
	}

	orchestrator := usecase.NewOrchestrator(usecase.OrchestratorDeps{
		Feeds:       feeds,
		Source:      feed.NewRSSFetcher(nil, baseLogger.With("component", "feed")),
		Store:       store,
		Filter:      filter.New(cfg.Keywords),
		Drafter:     drafter,
		Notifier:    notifier,
		Logger:      baseLogger.With("component", "cycle"),
		FirstRunCap: cfg.Poll.AlertCap(),
		NotifyDelay: cfg.Poll.NotifyDelay.Std(),
	})

	runner := usecase.NewRunner(usecase.RunnerDeps{
		Orchestrator: orchestrator,
		Notifier:     notifier,
		Logger:       baseLogger.With("component", "runner"),
		Interval:     cfg.Poll.Interval.Std(),
	})

	return &Application{cfg: cfg, runner: runner, store: store}, nil
}

// Run executes the poll loop until ctx is canceled, then releases resources.
func (a *Application) Run(ctx context.Context) error {
	defer a.store.Close()
	return a.runner.Run(ctx)
}
