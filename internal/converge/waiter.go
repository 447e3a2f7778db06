// Package converge waits for an eventually-consistent listing to stop
// changing. The backing store may report a growing file list asynchronously
// after writers complete, so first sight of the expected count is not a safe
// signal; stability over time is.
package converge

import (
	"context"
	"log"
	"time"
)

const (
	DefaultPollInterval = 1 * time.Second
	DefaultStableFor    = 5 * time.Second
	DefaultMaxWait      = 180 * time.Second
)

// ListFunc is an external, possibly eventually-consistent listing call.
type ListFunc func(ctx context.Context) ([]string, error)

type Waiter struct {
	PollInterval time.Duration
	StableFor    time.Duration
	MaxWait      time.Duration

	// Overridable for tests; defaults to the wall clock.
	Now   func() time.Time
	Sleep func(time.Duration)
}

func NewWaiter() *Waiter {
	return &Waiter{
		PollInterval: DefaultPollInterval,
		StableFor:    DefaultStableFor,
		MaxWait:      DefaultMaxWait,
		Now:          time.Now,
		Sleep:        time.Sleep,
	}
}

// AwaitStableCount polls list until it has returned at least expected names
// and the observed count has not changed for the stable-for window. When the
// max wait elapses first, it returns whatever was last observed with no
// error: the degraded-but-proceed policy. It never blocks forever and never
// hard-fails on its own; only context cancellation surfaces as an error.
func (w *Waiter) AwaitStableCount(ctx context.Context, list ListFunc, expected int) ([]string, error) {
	start := w.Now()
	var observed []string
	lastCount := -1
	lastChange := start

	for {
		if err := ctx.Err(); err != nil {
			return observed, err
		}

		names, err := list(ctx)
		if err != nil {
			// Listing errors are transient by assumption; the count simply
			// has not advanced this sample.
			log.Printf("converge list_error err=%q", err.Error())
		} else {
			observed = names
			if len(names) != lastCount {
				lastCount = len(names)
				lastChange = w.Now()
			}
		}

		now := w.Now()
		if lastCount >= expected && now.Sub(lastChange) >= w.StableFor {
			return observed, nil
		}
		if now.Sub(start) >= w.MaxWait {
			log.Printf("converge max_wait_elapsed expected=%d observed=%d", expected, lastCount)
			return observed, nil
		}
		w.Sleep(w.PollInterval)
	}
}
