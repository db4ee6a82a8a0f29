package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/theLastOfCats/ficbox/internal/ao3"
	"github.com/theLastOfCats/ficbox/internal/recommend"
)

// Config is read once from the environment at startup.
type Config struct {
	// Storage
	DBPath           string
	RedisAddr        string
	StorageKeyPrefix string

	// Catalog
	CatalogPath string

	// Server
	Port         string
	WidgetSecret string

	// Blind box
	RevealDelay time.Duration

	// AO3 ingestion
	AO3BaseURL      string
	AO3RequestDelay time.Duration

	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		DBPath:           getEnv("DB_PATH", "data/ficbox.db"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		StorageKeyPrefix: os.Getenv("STORAGE_KEY_PREFIX"),
		CatalogPath:      getEnv("CATALOG_PATH", "data/fics.json"),
		Port:             getEnv("PORT", "8080"),
		WidgetSecret:     os.Getenv("WIDGET_SECRET"),
		AO3BaseURL:       getEnv("AO3_BASE_URL", ao3.DefaultBaseURL),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RevealDelay, err = getDuration("REVEAL_DELAY", recommend.DefaultRevealDelay); err != nil {
		return nil, err
	}
	if cfg.AO3RequestDelay, err = getDuration("AO3_REQUEST_DELAY", ao3.DefaultRequestDelay); err != nil {
		return nil, err
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("PORT must be a number, got %q", cfg.Port)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go durations ("2.5s") or plain milliseconds ("2500").
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("%s must not be negative", key)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
