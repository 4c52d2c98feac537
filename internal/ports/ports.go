package ports

import (
	"context"
	"time"

	"JobSniper/internal/domain"
)

// JobSource pulls the current postings of a single feed. Order is whatever
// the feed returned.
type JobSource interface {
	Fetch(ctx context.Context, feed domain.Feed) ([]domain.Job, error)
}

// SeenStore is the durable set of already-processed posting ids. It is the
// single source of truth preventing duplicate alerts.
type SeenStore interface {
	// IsNew reports whether the id was never recorded. Read-only and
	// repeatable within a cycle.
	IsNew(ctx context.Context, id string) (bool, error)
	// Record durably marks the posting as processed before returning.
	// Recording an already-present id is a no-op, not an error.
	Record(ctx context.Context, job domain.Job) error
	IsEmpty(ctx context.Context) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Drafter generates proposal text for a posting.
type Drafter interface {
	Draft(ctx context.Context, title, summary string) (string, error)
}

// Notifier delivers a formatted message to the alert channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Clock abstracts timers so the poll loop and the inter-alert delay can be
// driven in tests without real waiting.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}
