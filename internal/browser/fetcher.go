package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go-jobmarket-scraper/internal/pacing"
	"go-jobmarket-scraper/utils"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/time/rate"
)

// FetchError reports a listing page that could not be rendered.
type FetchError struct {
	Page int
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d (%s): %v", e.Page, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the page never showed listing content in time.
func (e *FetchError) Timeout() bool {
	return errors.Is(e.Err, playwright.ErrTimeout)
}

type FetcherConfig struct {
	ListingsURL    string
	CardSelector   string
	Timeout        time.Duration // navigation and card wait, each
	SettleDelay    time.Duration // after cards appear, for client-side rendering
	ScrollDelay    time.Duration // after scrolling, for lazy-loaded cards
	PagesPerMinute int           // 0 disables the navigation throttle
	Pacer          pacing.Policy
	Screenshots    *utils.ScreenShotDebugger // nil disables failure captures
}

// Fetcher renders listing pages in a single browser tab. It implements
// pipeline.PageFetcher and releases the whole browser session on Close.
type Fetcher struct {
	manager   *PlaywrightManager
	bctx      playwright.BrowserContext
	page      playwright.Page
	limiter   *rate.Limiter
	cfg       FetcherConfig
	closeOnce sync.Once
	closeErr  error
}

func NewFetcher(manager *PlaywrightManager, cookies []playwright.OptionalCookie, cfg FetcherConfig) (*Fetcher, error) {
	if _, err := pageURL(cfg.ListingsURL, 1); err != nil {
		return nil, err
	}
	if cfg.CardSelector == "" {
		return nil, errors.New("card selector is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Pacer == nil {
		cfg.Pacer = pacing.None{}
	}

	bctx, err := manager.NewContext(cookies)
	if err != nil {
		return nil, err
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.PagesPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.PagesPerMinute)), 1)
	}

	return &Fetcher{
		manager: manager,
		bctx:    bctx,
		page:    page,
		limiter: limiter,
		cfg:     cfg,
	}, nil
}

func (f *Fetcher) Render(ctx context.Context, pageIndex int) (string, error) {
	target, err := pageURL(f.cfg.ListingsURL, pageIndex)
	if err != nil {
		return "", &FetchError{Page: pageIndex, URL: f.cfg.ListingsURL, Err: err}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", &FetchError{Page: pageIndex, URL: target, Err: err}
	}

	log.Printf("🌐 Navigating to %s", target)
	timeoutMs := playwright.Float(float64(f.cfg.Timeout.Milliseconds()))
	if _, err := f.page.Goto(target, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeoutMs,
	}); err != nil {
		return "", f.fail(pageIndex, target, "navigation failed", err)
	}

	// wait for job cards to load
	if err := f.page.Locator(f.cfg.CardSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: timeoutMs,
	}); err != nil {
		return "", f.fail(pageIndex, target, "job cards did not appear", err)
	}

	if err := pacing.Sleep(ctx, f.cfg.SettleDelay); err != nil {
		return "", &FetchError{Page: pageIndex, URL: target, Err: err}
	}

	if err := MouseJiggle(f.page); err != nil {
		log.Printf("⚠️ Mouse jiggle failed: %v", err)
	}
	if err := ScrollToBottom(f.page); err != nil {
		return "", f.fail(pageIndex, target, "scroll failed", err)
	}
	if err := pacing.Sleep(ctx, f.cfg.ScrollDelay); err != nil {
		return "", &FetchError{Page: pageIndex, URL: target, Err: err}
	}
	if err := pacing.Wait(ctx, f.cfg.Pacer, pacing.AfterScroll); err != nil {
		return "", &FetchError{Page: pageIndex, URL: target, Err: err}
	}

	html, err := f.page.Content()
	if err != nil {
		return "", f.fail(pageIndex, target, "could not read page content", err)
	}
	return html, nil
}

func (f *Fetcher) fail(pageIndex int, target, what string, err error) error {
	if f.cfg.Screenshots != nil {
		_ = f.cfg.Screenshots.CaptureAndLog(f.page, fmt.Sprintf("page_%d", pageIndex),
			fmt.Sprintf("Page %d: %s", pageIndex, what))
	}
	return &FetchError{Page: pageIndex, URL: target, Err: fmt.Errorf("%s: %w", what, err)}
}

// Close releases the tab, the context and the browser. Safe to call twice.
func (f *Fetcher) Close() error {
	f.closeOnce.Do(func() {
		if err := f.bctx.Close(); err != nil {
			f.closeErr = fmt.Errorf("could not close browser context: %w", err)
		}
		if err := f.manager.Close(); err != nil && f.closeErr == nil {
			f.closeErr = err
		}
	})
	return f.closeErr
}

// pageURL sets the page query parameter on the listings URL.
func pageURL(listingsURL string, pageIndex int) (string, error) {
	u, err := url.Parse(listingsURL)
	if err != nil {
		return "", fmt.Errorf("invalid listings url %q: %w", listingsURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid listings url %q: must be absolute", listingsURL)
	}
	if pageIndex < 1 {
		return "", fmt.Errorf("invalid page index %d", pageIndex)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(pageIndex))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
