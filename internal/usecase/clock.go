package usecase

import (
	"time"

	"JobSniper/internal/ports"
)

// systemClock is the production ports.Clock.
type systemClock struct{}

var _ ports.Clock = systemClock{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
