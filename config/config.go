package config

import (
	"net/url"
	"os"
	"strconv"
	"time"

	"dagensfynd/dealworker/logger"
	apperrors "dagensfynd/dealworker/pkg/errors"
)

// DefaultTimezone is used when the configured timezone cannot be resolved
const DefaultTimezone = "Europe/Stockholm"

// samplePlaceholderWebhook is the documented sample value and never a real endpoint
const samplePlaceholderWebhook = "https://discordapp.com/api/webhooks/123456789/abcdefghijklmnopqrstuvwxyz"

// Config represents the application configuration
type Config struct {
	// Source page configuration
	SourceURL    string
	FetchTimeout time.Duration

	// Store and feed output
	StorePath string
	FeedPath  string

	// Webhook configuration; empty values disable the notifier/reporter
	WebhookURL      string
	ErrorWebhookURL string

	// Timezone used for deal timestamps
	Timezone string
	Location *time.Location

	// Scrape loop; zero means a single run
	ScrapeInterval time.Duration

	// Optional page cache (memcache)
	MemcacheAddr string
	PageCacheTTL time.Duration

	// Optional Redis stream publisher
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Optional Prometheus listener
	MetricsAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "15"))
	scrapeInterval, _ := strconv.Atoi(getEnv("SCRAPE_INTERVAL_SECONDS", "0"))
	pageCacheTTL, _ := strconv.Atoi(getEnv("PAGE_CACHE_TTL_SECONDS", "3600"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))

	webhookURL := getEnv("DISCORD_WEBHOOK_URL", "")
	if webhookURL == samplePlaceholderWebhook {
		webhookURL = ""
	}
	errorWebhookURL := getEnv("DISCORD_ERROR_WEBHOOK_URL", "")
	if errorWebhookURL == samplePlaceholderWebhook {
		errorWebhookURL = ""
	}

	timezone := getEnv("TIMEZONE", DefaultTimezone)
	location, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("Unknown timezone %q, defaulting to %s", timezone, DefaultTimezone)
		timezone = DefaultTimezone
		location, _ = time.LoadLocation(DefaultTimezone)
	}

	return Config{
		SourceURL:            getEnv("SOURCE_URL", "https://www.sweclockers.com/dagensfynd"),
		FetchTimeout:         time.Duration(fetchTimeout) * time.Second,
		StorePath:            getEnv("STORE_PATH", "dagens_fynd.json"),
		FeedPath:             getEnv("FEED_PATH", "dagens_fynd.rss"),
		WebhookURL:           webhookURL,
		ErrorWebhookURL:      errorWebhookURL,
		Timezone:             timezone,
		Location:             location,
		ScrapeInterval:       time.Duration(scrapeInterval) * time.Second,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		PageCacheTTL:         time.Duration(pageCacheTTL) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "deals"),
		RedisStreamMaxLength: redisStreamMaxLength,
		MetricsAddr:          getEnv("METRICS_ADDR", ""),
		Environment:          getEnv("ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.SourceURL)
	if err != nil || parsed.Host == "" {
		return apperrors.NewConfiguration("source URL must be a valid absolute URL", err)
	}
	if c.FetchTimeout <= 0 {
		return apperrors.NewConfiguration("fetch timeout must be positive", nil)
	}
	if c.StorePath == "" {
		return apperrors.NewConfiguration("store path cannot be empty", nil)
	}
	if c.FeedPath == "" {
		return apperrors.NewConfiguration("feed path cannot be empty", nil)
	}
	if c.RedisAddr != "" && c.RedisStream == "" {
		return apperrors.NewConfiguration("redis stream cannot be empty when redis is enabled", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
