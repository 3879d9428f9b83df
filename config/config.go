package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jainsamta1990/TradingPro/internal/model"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Startup view (overridden by the saved last view when present)
	Symbol    string
	Timeframe string

	// Market data
	YahooBaseURL string
	FetchTimeout time.Duration

	// Infrastructure
	RedisAddr     string // empty disables the bar cache
	RedisPassword string
	CacheTTL      time.Duration
	SQLitePath    string
	MetricsAddr   string // empty disables the metrics server

	// Live stream
	StreamURL string // empty disables live updates

	// Logging
	LogFile  string
	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Symbol:    getEnv("CHART_SYMBOL", "AAPL"),
		Timeframe: getEnv("CHART_TIMEFRAME", "1d"),

		YahooBaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		FetchTimeout: getDuration("FETCH_TIMEOUT", 10*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getDuration("CACHE_TTL", 5*time.Minute),
		SQLitePath:    getEnv("SQLITE_PATH", "data/chart.db"),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),

		StreamURL: getEnv("STREAM_URL", ""),

		LogFile:  getEnv("LOG_FILE", "chart.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// ValidTimeframe returns the configured timeframe if it is one of the
// supported values, falling back to the daily view otherwise.
func (c *Config) ValidTimeframe() model.Timeframe {
	tf := model.Timeframe(strings.TrimSpace(c.Timeframe))
	for _, known := range model.DefaultTimeframes {
		if tf == known {
			return tf
		}
	}
	log.Printf("[config] unsupported timeframe %q, using 1d", c.Timeframe)
	return model.Timeframe("1d")
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] invalid duration %s=%q, using default", key, v)
		return fallback
	}
	return d
}
