package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobmarket-scraper/internal/browser"
	"go-jobmarket-scraper/internal/config"
	"go-jobmarket-scraper/internal/database"
	"go-jobmarket-scraper/internal/pipeline"
	"go-jobmarket-scraper/internal/scraper/builtinnyc"
	"go-jobmarket-scraper/internal/telegram"
	"go-jobmarket-scraper/utils"

	"github.com/playwright-community/playwright-go"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config.yaml")
	maxPages := flag.Int("max-pages", -1, "override pipeline.max_pages (0 = no limit)")
	flag.Parse()

	//load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if *maxPages >= 0 {
		cfg.Pipeline.MaxPages = *maxPages
	}
	log.Printf("🔧 Config loaded. Listings: %s", cfg.Site.ListingsURL)

	//optional telegram reporter
	var bot *telegram.Bot
	if cfg.TelegramEnabled() {
		bot, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
			bot = nil
		} else {
			log.Println("🤖 Telegram Bot initialized.")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, bot); err != nil {
		if bot != nil {
			if sendErr := bot.SendError(err); sendErr != nil {
				log.Printf("⚠️ Failed to send error to Telegram: %v", sendErr)
			}
		}
		log.Fatalf("❌ Scrape failed: %v", err)
	}
	log.Println("🏁 Execution finished.")
}

func run(ctx context.Context, cfg *config.Config, bot *telegram.Bot) error {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := database.Open(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return err
	}
	defer store.Close()
	log.Println("🗄️ Database ready.")

	s, err := builtinnyc.NewBuiltInScraper(cfg.Site.Origin, cfg.Site.CardSelector)
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	log.Println("✅ Browser initialized successfully!")

	controller := pipeline.New(fetcher, store, s, pipeline.Options{
		BatchSize:    cfg.Pipeline.BatchSize,
		MaxPages:     cfg.Pipeline.MaxPages,
		FetchRetries: cfg.Pipeline.FetchRetries,
		RetryBackoff: cfg.RetryBackoff(),
		Pacer:        cfg.Pacer(),
	})

	summary, err := controller.Run(ctx)
	log.Printf("📊 %s", summary)

	if bot != nil {
		if sendErr := bot.SendSummary(s.Name(), summary); sendErr != nil {
			log.Printf("⚠️ Failed to send summary to Telegram: %v", sendErr)
		}
	}

	if errors.Is(err, context.Canceled) {
		log.Println("🛑 Interrupted. Staged jobs were saved.")
		return nil
	}
	return err
}

// newFetcher starts the browser session. The returned fetcher owns it.
func newFetcher(cfg *config.Config) (*browser.Fetcher, error) {
	pwManager, err := browser.NewPlaywright(browser.Options{
		Headless:  cfg.Browser.Headless,
		UserAgent: cfg.Browser.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	var cookies []playwright.OptionalCookie
	if cfg.Browser.CookiesPath != "" {
		cookies, err = browser.LoadCookies(cfg.Browser.CookiesPath)
		if err != nil {
			log.Printf("⚠️ Could not load cookies: %v. Continuing.", err)
			cookies = nil
		} else {
			log.Printf("🍪 Loaded cookies (%d)", len(cookies))
		}
	}

	var shots *utils.ScreenShotDebugger
	if cfg.Browser.Screenshots {
		shots, err = utils.NewScreenShotDebugger(cfg.Browser.ScreenshotDir)
		if err != nil {
			log.Printf("⚠️ Screenshots disabled: %v", err)
			shots = nil
		}
	}

	fetcher, err := browser.NewFetcher(pwManager, cookies, browser.FetcherConfig{
		ListingsURL:    cfg.Site.ListingsURL,
		CardSelector:   cfg.Site.CardSelector,
		Timeout:        cfg.PageTimeout(),
		SettleDelay:    time.Duration(cfg.Browser.SettleDelayMs) * time.Millisecond,
		ScrollDelay:    time.Duration(cfg.Browser.ScrollDelayMs) * time.Millisecond,
		PagesPerMinute: cfg.Browser.PagesPerMinute,
		Pacer:          cfg.Pacer(),
		Screenshots:    shots,
	})
	if err != nil {
		pwManager.Close()
		return nil, err
	}
	return fetcher, nil
}
