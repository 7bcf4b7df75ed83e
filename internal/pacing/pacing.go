package pacing

import (
	"context"
	"math/rand"
	"time"
)

// Step names a point in the run where the scraper pauses.
type Step int

const (
	BetweenPages  Step = iota // after a page is fully processed
	BeforeListing             // before each listing card is handled
	AfterScroll               // after scrolling a page to trigger lazy loading
)

func (s Step) String() string {
	switch s {
	case BetweenPages:
		return "between-pages"
	case BeforeListing:
		return "before-listing"
	case AfterScroll:
		return "after-scroll"
	default:
		return "unknown"
	}
}

// Policy decides how long to pause at a given step.
type Policy interface {
	Delay(step Step) time.Duration
}

// Range is an inclusive [Min, Max] duration window.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Jitter waits a random duration within the window configured for each step,
// mimicking a person reading the page.
type Jitter struct {
	Page    Range
	Listing Range
	Scroll  Range
}

func (j Jitter) Delay(step Step) time.Duration {
	switch step {
	case BetweenPages:
		return random(j.Page)
	case BeforeListing:
		return random(j.Listing)
	case AfterScroll:
		return random(j.Scroll)
	default:
		return 0
	}
}

func random(r Range) time.Duration {
	if r.Max <= r.Min {
		if r.Min < 0 {
			return 0
		}
		return r.Min
	}
	return r.Min + time.Duration(rand.Int63n(int64(r.Max-r.Min)+1))
}

// None never waits. Tests use it to run the pipeline deterministically.
type None struct{}

func (None) Delay(Step) time.Duration { return 0 }

// Wait pauses for the policy's delay at step, returning early with the
// context's error if it is cancelled.
func Wait(ctx context.Context, p Policy, step Step) error {
	if p == nil {
		return ctx.Err()
	}
	return Sleep(ctx, p.Delay(step))
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
