package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_ADDR", "SCRAPER_LISTING_URL", "SEMINOVAS_FILE", "LOG_FORMAT", "SCRAPER_RATE_LIMIT_MIN", "SCRAPER_RATE_LIMIT_MAX", "SCRAPER_FETCH_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "stream:catalog", cfg.Redis.Stream)
	assert.Equal(t, DefaultListingURL, cfg.Scraper.ListingURL)
	assert.Equal(t, "seminovas.json", cfg.Import.SeminovasFile)
	assert.Equal(t, 500*time.Millisecond, cfg.Scraper.RateLimitMin)
	assert.Zero(t, cfg.Scraper.FetchTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SCRAPER_USE_BROWSER", "true")
	t.Setenv("SCRAPER_RATE_LIMIT_MIN", "1s")
	t.Setenv("SCRAPER_RATE_LIMIT_MAX", "2s")
	t.Setenv("SCRAPER_FETCH_TIMEOUT", "45s")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.bymoto.com.br, ,http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Scraper.UseBrowser)
	assert.Equal(t, time.Second, cfg.Scraper.RateLimitMin)
	assert.Equal(t, 45*time.Second, cfg.Scraper.FetchTimeout)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, []string{"https://admin.bymoto.com.br", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{MaxConns: 5},
			Scraper: ScraperConfig{
				BaseURL:      DefaultBaseURL,
				RateLimitMin: time.Second,
				RateLimitMax: 2 * time.Second,
			},
			Logging: LoggingConfig{Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "inverted rate limits", mutate: func(c *Config) { c.Scraper.RateLimitMin = 5 * time.Second }, wantErr: true},
		{name: "base url without scheme", mutate: func(c *Config) { c.Scraper.BaseURL = "bymoto.com.br" }, wantErr: true},
		{name: "zero connections", mutate: func(c *Config) { c.Database.MaxConns = 0 }, wantErr: true},
		{name: "unknown log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "catalog", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5433/catalog?sslmode=disable", d.DSN())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "warn", Format: "text"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "component", "test")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}
