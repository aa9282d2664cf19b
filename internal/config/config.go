package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Statistics backend (day-of-year odds) configuration.
	StatsAPIURL    string
	StatsEnabled   bool
	StatsTimeout   time.Duration
	StatsCacheSize int

	// Historical span used for odds queries.
	OddsStartYear int
	OddsEndYear   int

	// Kafka summary sink configuration.
	KafkaBrokers      []string
	KafkaSummaryTopic string
	KafkaEnabled      bool

	// Provenance stamped into exports.
	DataSourceName string
	DataSourceURL  string
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is merged in first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	statsTimeout, err := parseDuration("STATS_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	statsURL := os.Getenv("STATS_API_URL")
	statsEnabled := statsURL != ""
	if v := os.Getenv("STATS_ENABLED"); v != "" {
		statsEnabled = v == "true"
	}

	startYear, err := parseInt("ODDS_START_YEAR", 1995)
	if err != nil {
		return nil, err
	}
	endYear, err := parseInt("ODDS_END_YEAR", 2024)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseInt("STATS_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		StatsAPIURL:    statsURL,
		StatsEnabled:   statsEnabled,
		StatsTimeout:   statsTimeout,
		StatsCacheSize: cacheSize,

		OddsStartYear: startYear,
		OddsEndYear:   endYear,

		KafkaBrokers:      parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSummaryTopic: envOrDefault("KAFKA_SUMMARY_TOPIC", "daily-weather-summaries"),
		KafkaEnabled:      os.Getenv("KAFKA_ENABLED") == "true",

		DataSourceName: envOrDefault("DATA_SOURCE_NAME", "NASA POWER API (MERRA-2)"),
		DataSourceURL:  envOrDefault("DATA_SOURCE_URL", "https://power.larc.nasa.gov/"),
	}

	if cfg.StatsEnabled && cfg.StatsAPIURL == "" {
		return nil, errors.New("STATS_ENABLED is true but STATS_API_URL is not set")
	}
	if cfg.StatsCacheSize <= 0 {
		return nil, errors.New("STATS_CACHE_SIZE must be positive")
	}
	if cfg.OddsStartYear > cfg.OddsEndYear {
		return nil, errors.New("ODDS_START_YEAR must not exceed ODDS_END_YEAR")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SUMMARY_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
