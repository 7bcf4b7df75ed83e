// Load envs from .env
// Load YAML config
// Override with env vars
// Validate config

package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go-jobmarket-scraper/internal/pacing"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Browser  BrowserConfig  `yaml:"browser"`
	Pacing   PacingConfig   `yaml:"pacing"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Server   ServerConfig   `yaml:"server"`

	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

type SiteConfig struct {
	Origin       string `yaml:"origin"`
	ListingsURL  string `yaml:"listings_url"`
	CardSelector string `yaml:"card_selector"`
}

type BrowserConfig struct {
	Headless           bool   `yaml:"headless" env:"HEADLESS"`
	UserAgent          string `yaml:"user_agent"`
	PageTimeoutSeconds int    `yaml:"page_timeout_seconds"`
	SettleDelayMs      int    `yaml:"settle_delay_ms"`
	ScrollDelayMs      int    `yaml:"scroll_delay_ms"`
	PagesPerMinute     int    `yaml:"pages_per_minute"`
	CookiesPath        string `yaml:"cookies_path"`
	Screenshots        bool   `yaml:"screenshots"`
	ScreenshotDir      string `yaml:"screenshot_dir"`
}

// PacingConfig holds the jitter windows, in milliseconds.
type PacingConfig struct {
	PageMinMs    int `yaml:"page_min_ms"`
	PageMaxMs    int `yaml:"page_max_ms"`
	ListingMinMs int `yaml:"listing_min_ms"`
	ListingMaxMs int `yaml:"listing_max_ms"`
	ScrollMinMs  int `yaml:"scroll_min_ms"`
	ScrollMaxMs  int `yaml:"scroll_max_ms"`
}

type PipelineConfig struct {
	BatchSize           int `yaml:"batch_size"`
	MaxPages            int `yaml:"max_pages"`
	FetchRetries        int `yaml:"fetch_retries"`
	RetryBackoffSeconds int `yaml:"retry_backoff_seconds"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT"`
}

// Default returns the settings used for anything the YAML file leaves out.
func Default() Config {
	return Config{
		Site: SiteConfig{
			Origin:       "https://www.builtinnyc.com",
			ListingsURL:  "https://www.builtinnyc.com/jobs/dev-engineering?city=New+York&state=New+York&country=USA&allLocations=true",
			CardSelector: "div[data-id='job-card']",
		},
		Browser: BrowserConfig{
			Headless:           true,
			PageTimeoutSeconds: 30,
			SettleDelayMs:      7000,
			ScrollDelayMs:      5000,
			PagesPerMinute:     4,
			ScreenshotDir:      "logs/screenshots",
		},
		Pacing: PacingConfig{
			PageMinMs:    0,
			PageMaxMs:    0,
			ListingMinMs: 1000,
			ListingMaxMs: 3000,
			ScrollMinMs:  2000,
			ScrollMaxMs:  5000,
		},
		Pipeline: PipelineConfig{
			BatchSize:           10,
			RetryBackoffSeconds: 5,
		},
		Server:      ServerConfig{Port: "8080"},
		DatabaseURL: "jobs.db",
	}
}

// Load reads .env, then the YAML file at path (a missing file keeps the
// defaults), then environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not read %s: %w", path, err)
		}
		log.Printf("Warning: Could not read %s: %v. Using defaults.", path, err)
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.DatabaseURL = dbURL
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if headless := os.Getenv("HEADLESS"); headless != "" {
		v, err := strconv.ParseBool(headless)
		if err != nil {
			return fmt.Errorf("invalid HEADLESS: %w", err)
		}
		c.Browser.Headless = v
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	return nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string
	addErr := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !isAbsoluteURL(c.Site.Origin) {
		addErr("site.origin must be an absolute URL, got %q", c.Site.Origin)
	}
	if !isAbsoluteURL(c.Site.ListingsURL) {
		addErr("site.listings_url must be an absolute URL, got %q", c.Site.ListingsURL)
	}
	if strings.TrimSpace(c.Site.CardSelector) == "" {
		addErr("site.card_selector is required")
	}

	if c.Browser.PageTimeoutSeconds <= 0 {
		addErr("browser.page_timeout_seconds must be > 0")
	}
	if c.Browser.SettleDelayMs < 0 || c.Browser.ScrollDelayMs < 0 {
		addErr("browser delays must be >= 0")
	}
	if c.Browser.PagesPerMinute < 0 {
		addErr("browser.pages_per_minute must be >= 0")
	}

	checkRange := func(name string, lo, hi int) {
		if lo < 0 || hi < 0 {
			addErr("pacing.%s bounds must be >= 0", name)
		} else if hi < lo {
			addErr("pacing.%s_max_ms (%d) must be >= %s_min_ms (%d)", name, hi, name, lo)
		}
	}
	checkRange("page", c.Pacing.PageMinMs, c.Pacing.PageMaxMs)
	checkRange("listing", c.Pacing.ListingMinMs, c.Pacing.ListingMaxMs)
	checkRange("scroll", c.Pacing.ScrollMinMs, c.Pacing.ScrollMaxMs)

	if c.Pipeline.BatchSize <= 0 {
		addErr("pipeline.batch_size must be > 0")
	}
	if c.Pipeline.MaxPages < 0 {
		addErr("pipeline.max_pages must be >= 0")
	}
	if c.Pipeline.FetchRetries < 0 {
		addErr("pipeline.fetch_retries must be >= 0")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		addErr("database_url (DATABASE_URL) is required")
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == 0) {
		addErr("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid config:\n  - %s", strings.Join(problems, "\n  - "))
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func (c *Config) PageTimeout() time.Duration {
	return time.Duration(c.Browser.PageTimeoutSeconds) * time.Second
}

func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Pipeline.RetryBackoffSeconds) * time.Second
}

// Pacer builds the jitter policy for a run.
func (c *Config) Pacer() pacing.Jitter {
	return pacing.Jitter{
		Page:    msRange(c.Pacing.PageMinMs, c.Pacing.PageMaxMs),
		Listing: msRange(c.Pacing.ListingMinMs, c.Pacing.ListingMaxMs),
		Scroll:  msRange(c.Pacing.ScrollMinMs, c.Pacing.ScrollMaxMs),
	}
}

func msRange(lo, hi int) pacing.Range {
	return pacing.Range{Min: time.Duration(lo) * time.Millisecond, Max: time.Duration(hi) * time.Millisecond}
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
