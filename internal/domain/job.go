package domain

import "time"

// Feed is a configured upstream source with an explicit display label.
type Feed struct {
	Name string
	URL  string
}

// Job is a single posting pulled from a feed. ID is the canonical link and
// the global dedup key; postings without one are discarded at the fetch
// boundary.
type Job struct {
	ID        string
	Title     string
	Summary   string
	Published string // opaque display string as given by the feed
	Source    string
}

// SeenJob is the persisted dedup record for a processed posting.
type SeenJob struct {
	ID        string
	Title     string
	Published string
	SeenAt    time.Time
}

// CycleStats counts what a single polling pass did.
type CycleStats struct {
	Fetched     int // items returned by all feeds
	Fresh       int // passed the dedup check
	Irrelevant  int // fresh but no keyword match
	Relevant    int // fresh and keyword-matched
	Alerted     int // notifications delivered
	Suppressed  int // relevant but over the first-run cap
	Skipped     int // dedup lookup failed, retried next cycle
	Unresolved  int // record write failed, retried next cycle
	FailedFeeds int
}

// SessionStats accumulates cycle stats for the process lifetime and is
// reported in the shutdown notification.
type SessionStats struct {
	Cycles     int
	Fetched    int
	Irrelevant int
	Relevant   int
	Alerted    int
}

// Add folds one finished cycle into the session totals.
func (s *SessionStats) Add(c CycleStats) {
	s.Cycles++
	s.Fetched += c.Fetched
	s.Irrelevant += c.Irrelevant
	s.Relevant += c.Relevant
	s.Alerted += c.Alerted
}
