package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HEADLESS", "PORT"} {
		t.Setenv(key, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://www.builtinnyc.com", cfg.Site.Origin)
	assert.Equal(t, 10, cfg.Pipeline.BatchSize)
	assert.Equal(t, 0, cfg.Pipeline.FetchRetries)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.PageTimeout())
	assert.False(t, cfg.TelegramEnabled())

	// the post-scroll jitter is the only random pause per page by default
	pacer := cfg.Pacer()
	assert.Equal(t, time.Duration(0), pacer.Page.Max)
	assert.Equal(t, 2*time.Second, pacer.Scroll.Min)
	assert.Equal(t, 5*time.Second, pacer.Scroll.Max)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
site:
  listings_url: "https://www.builtinnyc.com/jobs/remote?page=1"
pipeline:
  batch_size: 25
  max_pages: 3
pacing:
  listing_min_ms: 0
  listing_max_ms: 0
database_url: "postgres://yaml/jobs"
`)
	t.Setenv("DATABASE_URL", "sqlite:/tmp/env.db")
	t.Setenv("HEADLESS", "false")
	t.Setenv("PORT", "9090")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://www.builtinnyc.com/jobs/remote?page=1", cfg.Site.ListingsURL)
	assert.Equal(t, "div[data-id='job-card']", cfg.Site.CardSelector, "unset keys keep defaults")
	assert.Equal(t, 25, cfg.Pipeline.BatchSize)
	assert.Equal(t, 3, cfg.Pipeline.MaxPages)
	assert.Equal(t, "sqlite:/tmp/env.db", cfg.DatabaseURL)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, int64(-1001), cfg.TelegramChatID)
	assert.True(t, cfg.TelegramEnabled())

	pacer := cfg.Pacer()
	assert.Equal(t, time.Duration(0), pacer.Listing.Max)
	assert.Equal(t, 2*time.Second, pacer.Scroll.Min)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "Bad YAML", yaml: "site: [unclosed"},
		{name: "Bad chat id", env: map[string]string{"TELEGRAM_CHAT_ID": "abc"}},
		{name: "Bad headless", env: map[string]string{"HEADLESS": "maybe"}},
		{name: "Relative origin", yaml: "site:\n  origin: \"/jobs\"\n"},
		{name: "Zero batch", yaml: "pipeline:\n  batch_size: 0\n"},
		{name: "Inverted pacing", yaml: "pacing:\n  page_min_ms: 5000\n  page_max_ms: 1000\n"},
		{name: "Token without chat", env: map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeYAML(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestValidate_ListsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Site.CardSelector = ""
	cfg.Pipeline.BatchSize = -1
	cfg.DatabaseURL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site.card_selector")
	assert.Contains(t, err.Error(), "pipeline.batch_size")
	assert.Contains(t, err.Error(), "database_url")
}
