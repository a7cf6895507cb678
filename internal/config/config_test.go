package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-repair/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":       "postgres://localhost/repair",
		"REDIS_URL":          "redis://localhost:6379",
		"PORT":               "",
		"CURRENCY_CODE":      "",
		"CATALOG_CACHE_TTL":  "",
		"QUOTE_RATE_MAX":     "",
		"SECURITY_HEADERS_ENABLED": "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "KRW", cfg.CurrencyCode)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, 120, cfg.QuoteRateMax)
	require.True(t, cfg.SecurityHeaders)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379",
	})
	require.Error(t, err)
}

func TestLoadParsesOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":         "postgres://localhost/repair",
		"REDIS_URL":            "redis://localhost:6379",
		"PORT":                 "9090",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
		"QUOTE_RATE_WINDOW":    "30s",
		"QUOTE_RATE_MAX":       "10",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30*time.Second, cfg.QuoteRateWindow)
	require.Equal(t, 10, cfg.QuoteRateMax)
}
