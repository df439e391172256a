package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Port        string `toml:"port"`
	Environment string `toml:"environment"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`

	AlphaVantageKey string `toml:"alpha_vantage_key"`
	GeminiKey       string `toml:"gemini_key"`
	GeminiModel     string `toml:"gemini_model"`
	GeminiRate      int    `toml:"gemini_rate"` // requests per second

	DefaultExchangeSuffix string   `toml:"default_exchange_suffix"`
	RecognizedSuffixes    []string `toml:"recognized_suffixes"`
	ExchangeTimezone      string   `toml:"exchange_timezone"`

	SearchProvider string `toml:"search_provider"` // "alphavantage" or "yahoo"
	SearchLimit    int    `toml:"search_limit"`
	MoversCount    int    `toml:"movers_count"`
	MoversBaseURL  string `toml:"movers_base_url"`

	UpstreamTimeout string `toml:"upstream_timeout"`
	AITimeout       string `toml:"ai_timeout"`

	RateLimitPerMinute int    `toml:"rate_limit_per_minute"`
	CORSOrigins        string `toml:"cors_origins"`

	// Location is resolved from ExchangeTimezone by Load
	Location *time.Location `toml:"-"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port:                  "5001",
		Environment:           "development",
		LogLevel:              "info",
		LogFormat:             "console",
		GeminiModel:           "gemini-2.0-flash",
		GeminiRate:            2,
		DefaultExchangeSuffix: ".BO",
		RecognizedSuffixes:    []string{".BO", ".NS", ".BSE"},
		ExchangeTimezone:      "Asia/Kolkata",
		SearchProvider:        "alphavantage",
		SearchLimit:           7,
		MoversCount:           5,
		MoversBaseURL:         "https://in.finance.yahoo.com",
		UpstreamTimeout:       "10s",
		AITimeout:             "30s",
		RateLimitPerMinute:    100,
		CORSOrigins:           "*",
	}
}

// Load builds the configuration from defaults, an optional TOML file named by
// STOCKPULSE_CONFIG, a .env file and the process environment, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("STOCKPULSE_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// A missing .env is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.AlphaVantageKey = getEnv("ALPHA_VANTAGE_API_KEY", c.AlphaVantageKey)
	c.GeminiKey = getEnv("GEMINI_API_KEY", c.GeminiKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.GeminiRate = getEnvInt("GEMINI_RATE", c.GeminiRate)
	c.DefaultExchangeSuffix = getEnv("DEFAULT_EXCHANGE_SUFFIX", c.DefaultExchangeSuffix)
	if v := os.Getenv("RECOGNIZED_SUFFIXES"); v != "" {
		c.RecognizedSuffixes = splitList(v)
	}
	c.ExchangeTimezone = getEnv("EXCHANGE_TIMEZONE", c.ExchangeTimezone)
	c.SearchProvider = getEnv("SEARCH_PROVIDER", c.SearchProvider)
	c.SearchLimit = getEnvInt("SEARCH_LIMIT", c.SearchLimit)
	c.MoversCount = getEnvInt("MOVERS_COUNT", c.MoversCount)
	c.MoversBaseURL = getEnv("MOVERS_BASE_URL", c.MoversBaseURL)
	c.UpstreamTimeout = getEnv("UPSTREAM_TIMEOUT", c.UpstreamTimeout)
	c.AITimeout = getEnv("AI_TIMEOUT", c.AITimeout)
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.CORSOrigins = getEnv("CORS_ORIGINS", c.CORSOrigins)
}

func (c *Config) resolve() error {
	loc, err := time.LoadLocation(c.ExchangeTimezone)
	if err != nil {
		return fmt.Errorf("loading exchange timezone %q: %w", c.ExchangeTimezone, err)
	}
	c.Location = loc

	c.DefaultExchangeSuffix = strings.ToUpper(strings.TrimSpace(c.DefaultExchangeSuffix))
	if c.DefaultExchangeSuffix == "" {
		return fmt.Errorf("default exchange suffix must not be empty")
	}
	if !strings.HasPrefix(c.DefaultExchangeSuffix, ".") {
		c.DefaultExchangeSuffix = "." + c.DefaultExchangeSuffix
	}

	switch c.SearchProvider {
	case "alphavantage", "yahoo":
	default:
		return fmt.Errorf("unknown search provider %q", c.SearchProvider)
	}

	if c.SearchLimit <= 0 {
		c.SearchLimit = 7
	}
	if c.MoversCount <= 0 {
		c.MoversCount = 5
	}
	return nil
}

// UpstreamTimeoutDuration parses UpstreamTimeout, falling back to 10s
func (c *Config) UpstreamTimeoutDuration() time.Duration {
	return parseDuration(c.UpstreamTimeout, 10*time.Second)
}

// AITimeoutDuration parses AITimeout, falling back to 30s
func (c *Config) AITimeoutDuration() time.Duration {
	return parseDuration(c.AITimeout, 30*time.Second)
}

// AlphaVantageConfigured reports whether symbol search via Alpha Vantage can run
func (c *Config) AlphaVantageConfigured() bool {
	return c.AlphaVantageKey != ""
}

// GeminiConfigured reports whether the AI endpoints can run
func (c *Config) GeminiConfigured() bool {
	return c.GeminiKey != ""
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
