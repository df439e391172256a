package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"STOCKPULSE_CONFIG", "PORT", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT",
	"ALPHA_VANTAGE_API_KEY", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_RATE",
	"DEFAULT_EXCHANGE_SUFFIX", "RECOGNIZED_SUFFIXES", "EXCHANGE_TIMEZONE",
	"SEARCH_PROVIDER", "SEARCH_LIMIT", "MOVERS_COUNT", "MOVERS_BASE_URL",
	"UPSTREAM_TIMEOUT", "AI_TIMEOUT", "RATE_LIMIT_PER_MINUTE", "CORS_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, ".BO", cfg.DefaultExchangeSuffix)
	assert.Equal(t, []string{".BO", ".NS", ".BSE"}, cfg.RecognizedSuffixes)
	assert.Equal(t, "Asia/Kolkata", cfg.Location.String())
	assert.Equal(t, 7, cfg.SearchLimit)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeoutDuration())
	assert.Equal(t, 30*time.Second, cfg.AITimeoutDuration())
	assert.False(t, cfg.AlphaVantageConfigured())
	assert.False(t, cfg.GeminiConfigured())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("DEFAULT_EXCHANGE_SUFFIX", "ns")
	t.Setenv("RECOGNIZED_SUFFIXES", ".NS, .BO")
	t.Setenv("SEARCH_LIMIT", "3")
	t.Setenv("UPSTREAM_TIMEOUT", "garbage")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.GeminiConfigured())
	assert.Equal(t, ".NS", cfg.DefaultExchangeSuffix)
	assert.Equal(t, []string{".NS", ".BO"}, cfg.RecognizedSuffixes)
	assert.Equal(t, 3, cfg.SearchLimit)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeoutDuration())
}

func TestLoad_TOMLFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "stockpulse.toml")
	content := `
port = "7000"
search_provider = "yahoo"
exchange_timezone = "America/New_York"
default_exchange_suffix = ".NS"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("STOCKPULSE_CONFIG", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7001", cfg.Port, "environment wins over the file")
	assert.Equal(t, "yahoo", cfg.SearchProvider)
	assert.Equal(t, "America/New_York", cfg.Location.String())
	assert.Equal(t, ".NS", cfg.DefaultExchangeSuffix)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad timezone", map[string]string{"EXCHANGE_TIMEZONE": "Mars/Olympus"}},
		{"bad search provider", map[string]string{"SEARCH_PROVIDER": "bing"}},
		{"missing config file", map[string]string{"STOCKPULSE_CONFIG": "/nonexistent/stockpulse.toml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
