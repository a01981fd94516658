package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/epeers/marketpulse/internal/models"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Supported price providers
const (
	ProviderYahoo        = "yahoo"
	ProviderAlphaVantage = "alphavantage"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	Port             string
	Provider         string
	AVKey            string
	AVAdjusted       bool // use split and dividend adjusted closes, premium keys only
	PGURL            string // optional, enables the postgres close cache
	CacheTTL         time.Duration
	HistoryDays      int
	AllowedOrigin    string
	CacheControl     string
	WarmCron         string // empty disables the warm-up job
	InstrumentsFile  string
	FetchParallelism int
	LogLevel         string
	Sets             []models.InstrumentSet
}

// Load reads configuration from a .env file (if present) and environment variables.
// Variables already set in the shell take precedence over the .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Provider:        getEnv("PROVIDER", ProviderYahoo),
		AVKey:           os.Getenv("AV_KEY"),
		PGURL:           os.Getenv("PG_URL"),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "*"),
		CacheControl:    getEnv("CACHE_CONTROL", "s-maxage=60, stale-while-revalidate=300"),
		WarmCron:        os.Getenv("WARM_CRON"),
		InstrumentsFile: os.Getenv("INSTRUMENTS_FILE"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	switch cfg.Provider {
	case ProviderYahoo:
	case ProviderAlphaVantage:
		if cfg.AVKey == "" {
			return nil, fmt.Errorf("AV_KEY environment variable is required for the %s provider", ProviderAlphaVantage)
		}
	default:
		return nil, fmt.Errorf("unknown PROVIDER %q", cfg.Provider)
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "60s")); err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if cfg.HistoryDays, err = getEnvInt("HISTORY_DAYS", 366); err != nil {
		return nil, err
	}
	if cfg.HistoryDays < 2 {
		return nil, fmt.Errorf("HISTORY_DAYS must be at least 2, got %d", cfg.HistoryDays)
	}
	if cfg.FetchParallelism, err = getEnvInt("FETCH_PARALLELISM", 4); err != nil {
		return nil, err
	}
	if v := os.Getenv("AV_ADJUSTED"); v != "" {
		if cfg.AVAdjusted, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid AV_ADJUSTED: %w", err)
		}
	}

	cfg.Sets = DefaultSets()
	if cfg.InstrumentsFile != "" {
		if cfg.Sets, err = LoadInstrumentSets(cfg.InstrumentsFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
