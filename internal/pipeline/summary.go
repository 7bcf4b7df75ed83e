package pipeline

import (
	"fmt"
	"time"
)

// HaltReason records why pagination stopped.
type HaltReason string

const (
	HaltNoListings  HaltReason = "no_listings"
	HaltFetchFailed HaltReason = "fetch_failed"
	HaltMaxPages    HaltReason = "max_pages"
	HaltCanceled    HaltReason = "canceled"
	HaltStoreFailed HaltReason = "store_failed"
)

// Summary describes one scraping run.
type Summary struct {
	PagesVisited int
	ListingsSeen int
	Inserted     int
	Duplicates   int
	Dropped      int // cards without a usable link
	Flushes      int
	HaltReason   HaltReason
	StartedAt    time.Time
	FinishedAt   time.Time
}

func (s Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s Summary) String() string {
	return fmt.Sprintf("pages=%d listings=%d inserted=%d duplicates=%d dropped=%d flushes=%d halt=%s took=%s",
		s.PagesVisited, s.ListingsSeen, s.Inserted, s.Duplicates, s.Dropped, s.Flushes, s.HaltReason,
		s.Duration().Round(time.Second))
}
