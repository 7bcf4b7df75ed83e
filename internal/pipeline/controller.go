// Drive pagination: fetch page N, extract cards, skip known links,
// normalize and stage new records, flush in batches, stop on an empty page
// or a failed fetch.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-jobmarket-scraper/internal/dedup"
	"go-jobmarket-scraper/internal/models"
	"go-jobmarket-scraper/internal/normalize"
	"go-jobmarket-scraper/internal/pacing"
	"go-jobmarket-scraper/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const DefaultBatchSize = 10

// ErrStore marks failures of the listing store. They end the run.
var ErrStore = errors.New("listing store failure")

// PageFetcher renders listing page N and returns its markup. Implementations
// wait for listing content (or time out) and trigger lazy loading first.
type PageFetcher interface {
	Render(ctx context.Context, pageIndex int) (string, error)
	Close() error
}

// ListingStore persists job records. Exists must see staged records too.
type ListingStore interface {
	Exists(ctx context.Context, link string) (bool, error)
	Stage(record models.JobRecord) error
	Flush(ctx context.Context) error
}

type Options struct {
	BatchSize    int // staged inserts between flushes
	MaxPages     int // 0 = until the site runs out of listings
	FetchRetries int // extra attempts for a failed page before halting
	RetryBackoff time.Duration
	Pacer        pacing.Policy
	Now          func() time.Time // reference clock for relative post dates
}

type Controller struct {
	fetcher PageFetcher
	store   ListingStore
	scraper scraper.Scraper
	gate    *dedup.Gate
	opts    Options
}

// New wires a controller. The controller owns fetcher for the run and
// closes it when Run returns; store stays open for the caller.
func New(fetcher PageFetcher, store ListingStore, s scraper.Scraper, opts Options) *Controller {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.FetchRetries < 0 {
		opts.FetchRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 5 * time.Second
	}
	if opts.Pacer == nil {
		opts.Pacer = pacing.None{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		fetcher: fetcher,
		store:   store,
		scraper: s,
		gate:    dedup.NewGate(store),
		opts:    opts,
	}
}

// Run pages through the site until a halt condition and returns what it did.
// A failed or empty page ends the run normally; store failures are returned
// wrapped in ErrStore. Staged records are flushed on every halt except a
// store failure.
func (c *Controller) Run(ctx context.Context) (summary Summary, err error) {
	summary.StartedAt = c.opts.Now()
	log.Printf("🚀 Starting %s scrape...", c.scraper.Name())

	defer func() {
		if cerr := c.fetcher.Close(); cerr != nil {
			log.Printf("⚠️ Failed to release browser session: %v", cerr)
		}
		summary.FinishedAt = c.opts.Now()
	}()

	for page := 1; ; page++ {
		if c.opts.MaxPages > 0 && page > c.opts.MaxPages {
			log.Printf("🛑 Reached page limit (%d). Ending pagination.", c.opts.MaxPages)
			summary.HaltReason = HaltMaxPages
			break
		}
		if ctx.Err() != nil {
			summary.HaltReason = HaltCanceled
			break
		}

		log.Printf("📄 Scraping page: %d", page)
		cards, ferr := c.fetchListings(ctx, page)
		if ferr != nil {
			if ctx.Err() != nil {
				summary.HaltReason = HaltCanceled
				break
			}
			log.Printf("⚠️ Page %d failed to load: %v. Ending pagination.", page, ferr)
			summary.HaltReason = HaltFetchFailed
			break
		}
		summary.PagesVisited++

		log.Printf("📦 Found %d jobs on page %d", len(cards), page)
		if len(cards) == 0 {
			log.Println("ℹ️ No more jobs found. Ending pagination.")
			summary.HaltReason = HaltNoListings
			break
		}

		if perr := c.processPage(ctx, page, cards, &summary); perr != nil {
			if ctx.Err() != nil {
				summary.HaltReason = HaltCanceled
				break
			}
			summary.HaltReason = HaltStoreFailed
			return summary, perr
		}

		if werr := pacing.Wait(ctx, c.opts.Pacer, pacing.BetweenPages); werr != nil {
			summary.HaltReason = HaltCanceled
			break
		}
	}

	// staged work survives cancellation
	if ferr := c.flush(context.WithoutCancel(ctx), &summary); ferr != nil {
		summary.HaltReason = HaltStoreFailed
		return summary, ferr
	}

	log.Printf("🏁 Job scraping complete! %s", summary)
	if summary.HaltReason == HaltCanceled {
		return summary, ctx.Err()
	}
	return summary, nil
}

// fetchListings renders a page, retrying up to FetchRetries times, and
// splits it into listing cards.
func (c *Controller) fetchListings(ctx context.Context, page int) ([]*goquery.Selection, error) {
	var lastErr error
	for attempt := 0; attempt <= c.opts.FetchRetries; attempt++ {
		if attempt > 0 {
			backoff := c.opts.RetryBackoff * time.Duration(1<<(attempt-1))
			log.Printf("🔁 Retrying page %d in %v (attempt %d/%d)", page, backoff, attempt, c.opts.FetchRetries)
			if err := pacing.Sleep(ctx, backoff); err != nil {
				return nil, err
			}
		}

		html, err := c.fetcher.Render(ctx, page)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		cards, err := c.scraper.Listings(html)
		if err != nil {
			lastErr = err
			continue
		}
		return cards, nil
	}
	return nil, lastErr
}

func (c *Controller) processPage(ctx context.Context, page int, cards []*goquery.Selection, summary *Summary) error {
	for _, card := range cards {
		//simulate human-like pauses
		if err := pacing.Wait(ctx, c.opts.Pacer, pacing.BeforeListing); err != nil {
			return err
		}
		summary.ListingsSeen++

		fields := c.scraper.Extract(card)
		if !fields.HasLink() {
			log.Printf("  ⚠️ Skipping card without link: %s at %s", fields.Title, fields.Company)
			summary.Dropped++
			continue
		}

		isNew, err := c.gate.IsNew(ctx, fields.Link)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStore, err)
		}
		if !isNew {
			log.Printf("  ♻️ Job already exists in DB: %s", fields.Link)
			summary.Duplicates++
			continue
		}

		record := c.buildRecord(fields)
		if err := c.store.Stage(record); err != nil {
			return fmt.Errorf("%w: failed to stage %s: %w", ErrStore, record.JobLink, err)
		}
		summary.Inserted++
		log.Printf("  ✅ Scraped Job: %s at %s, Location: %s, Posted: %s, Level: %s, Salary: %s, Link: %s",
			record.Title, record.Company, record.Location, fields.DateText, record.JobType,
			formatSalary(record.Salary), record.JobLink)

		if summary.Inserted%c.opts.BatchSize == 0 {
			log.Printf("💾 Committing after processing %d jobs on page %d...", summary.Inserted, page)
			if err := c.flush(ctx, summary); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Controller) buildRecord(fields scraper.Fields) models.JobRecord {
	return models.JobRecord{
		Company:  fields.Company,
		Title:    fields.Title,
		Salary:   normalize.ResolveSalary(fields.SalaryText),
		Location: fields.Location,
		JobType:  fields.Level,
		PostDate: normalize.ResolvePostDate(fields.DateText, c.opts.Now()),
		JobLink:  fields.Link,
	}
}

func (c *Controller) flush(ctx context.Context, summary *Summary) error {
	if err := c.store.Flush(ctx); err != nil {
		return fmt.Errorf("%w: flush after %d inserts: %w", ErrStore, summary.Inserted, err)
	}
	summary.Flushes++
	return nil
}

func formatSalary(salary *int) string {
	if salary == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *salary)
}
