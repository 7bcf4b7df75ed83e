package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go-jobmarket-scraper/internal/browser"
	"go-jobmarket-scraper/internal/config"
	"go-jobmarket-scraper/internal/scraper/builtinnyc"
)

func main() {
	page := flag.Int("page", 1, "listing page to render")
	flag.Parse()

	fmt.Println("🌐 Testing Browser Fetcher...")

	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := run(cfg, *page); err != nil {
		log.Fatalf("❌ %v", err)
	}
	fmt.Println("✨ Test complete!")
}

func run(cfg *config.Config, page int) error {
	pm, err := browser.NewPlaywright(browser.Options{
		Headless:  cfg.Browser.Headless,
		UserAgent: cfg.Browser.UserAgent,
	})
	if err != nil {
		return fmt.Errorf("failed to create Playwright: %w", err)
	}
	fmt.Println("✅ Playwright started")

	fetcher, err := browser.NewFetcher(pm, nil, browser.FetcherConfig{
		ListingsURL:  cfg.Site.ListingsURL,
		CardSelector: cfg.Site.CardSelector,
		Timeout:      cfg.PageTimeout(),
		SettleDelay:  2 * time.Second,
	})
	if err != nil {
		pm.Close()
		return fmt.Errorf("failed to create fetcher: %w", err)
	}
	defer fetcher.Close()

	html, err := fetcher.Render(context.Background(), page)
	if err != nil {
		return fmt.Errorf("failed to render page %d: %w", page, err)
	}
	fmt.Printf("✅ Rendered page %d (%d bytes)\n", page, len(html))

	s, err := builtinnyc.NewBuiltInScraper(cfg.Site.Origin, cfg.Site.CardSelector)
	if err != nil {
		return fmt.Errorf("failed to create scraper: %w", err)
	}
	cards, err := s.Listings(html)
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}
	fmt.Printf("📦 Found %d job cards\n", len(cards))
	for i, card := range cards {
		if i == 3 {
			break
		}
		f := s.Extract(card)
		fmt.Printf("   %s @ %s | %s | %s\n", f.Title, f.Company, f.Location, f.Link)
	}
	return nil
}
