package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"JobSniper/internal/domain"
)

// cancelingClock fires intervals immediately until a limit, then cancels the
// loop context instead, so Run sees a deterministic number of cycles.
type cancelingClock struct {
	cancel     context.CancelFunc
	calls, max int
}

func (c *cancelingClock) Now() time.Time { return time.Now() }

func (c *cancelingClock) After(time.Duration) <-chan time.Time {
	c.calls++
	if c.calls >= c.max {
		c.cancel()
		return make(chan time.Time) // never fires; ctx.Done wins
	}
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func newTestRunner(orch *Orchestrator, notifier *fakeNotifier, clock *cancelingClock) *Runner {
	return NewRunner(RunnerDeps{
		Orchestrator: orch,
		Notifier:     notifier,
		Clock:        clock,
		Interval:     10 * time.Minute,
	})
}

func TestRunnerSendsOnlineThenCyclesThenOffline(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	orch := NewOrchestrator(OrchestratorDeps{
		Feeds:       []domain.Feed{{Name: "A"}},
		Source:      &fakeSource{jobs: map[string][]domain.Job{"A": jobs("1")}},
		Store:       newFakeStore(),
		Notifier:    notifier,
		FirstRunCap: 3,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock := &cancelingClock{cancel: cancel, max: 1}

	if err := newTestRunner(orch, notifier, clock).Run(ctx); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(notifier.sent) != 3 {
		t.Fatalf("expected online + 1 alert + offline, got %d messages: %v", len(notifier.sent), notifier.sent)
	}
	if !strings.Contains(notifier.sent[0], "SYSTEM ONLINE") {
		t.Fatalf("first message must be the online notice, got %q", notifier.sent[0])
	}
	if !strings.Contains(notifier.sent[1], "/jobs/1") {
		t.Fatalf("expected the cycle alert second, got %q", notifier.sent[1])
	}
	if !strings.Contains(notifier.sent[2], "SYSTEM OFFLINE") {
		t.Fatalf("last message must be the offline notice, got %q", notifier.sent[2])
	}
}

func TestRunnerReportsSessionCountersOnShutdown(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	orch := NewOrchestrator(OrchestratorDeps{
		Feeds:       []domain.Feed{{Name: "A"}},
		Source:      &fakeSource{jobs: map[string][]domain.Job{"A": jobs("1", "2")}},
		Store:       newFakeStore(),
		Notifier:    notifier,
		FirstRunCap: 5,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock := &cancelingClock{cancel: cancel, max: 2} // two full cycles

	if err := newTestRunner(orch, notifier, clock).Run(ctx); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	offline := notifier.sent[len(notifier.sent)-1]
	if !strings.Contains(offline, "Cycles: 2") {
		t.Fatalf("offline notice must report 2 cycles, got %q", offline)
	}
	if !strings.Contains(offline, "Alerted: 2") {
		t.Fatalf("offline notice must report 2 alerts, got %q", offline)
	}
}

func TestRunnerToleratesNotifierFailures(t *testing.T) {
	t.Parallel()

	// Even the online/offline notices failing must not stop the loop.
	notifier := &fakeNotifier{err: context.DeadlineExceeded}
	orch := NewOrchestrator(OrchestratorDeps{
		Feeds:    []domain.Feed{{Name: "A"}},
		Source:   &fakeSource{jobs: map[string][]domain.Job{"A": jobs("1")}},
		Store:    newFakeStore(),
		Notifier: notifier,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock := &cancelingClock{cancel: cancel, max: 1}

	if err := newTestRunner(orch, notifier, clock).Run(ctx); err != nil {
		t.Fatalf("Run must absorb notifier failures, got %v", err)
	}
}
