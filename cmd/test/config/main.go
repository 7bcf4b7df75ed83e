package main

import (
	"fmt"
	"log"

	"go-jobmarket-scraper/internal/config"
)

func main() {
	fmt.Println("🔧 Testing config loading...")
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Listings URL: %s\n", cfg.Site.ListingsURL)
	fmt.Printf("   Card Selector: %s\n", cfg.Site.CardSelector)
	fmt.Printf("   Headless: %v, Timeout: %s\n", cfg.Browser.Headless, cfg.PageTimeout())
	fmt.Printf("   Batch Size: %d, Max Pages: %d, Retries: %d\n", cfg.Pipeline.BatchSize, cfg.Pipeline.MaxPages, cfg.Pipeline.FetchRetries)
	fmt.Printf("   Database: %s\n", redact(cfg.DatabaseURL))
	fmt.Printf("   Telegram: %v\n", cfg.TelegramEnabled())
}

func redact(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:12] + "..."
}
