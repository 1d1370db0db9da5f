package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// DefaultExcludeSites are the publisher sites whose articles the provider
// search drops.
var DefaultExcludeSites = []string{
	"https://www.cw.com.tw",
	"https://www.parenting.com.tw",
	"https://www.ithome.com.tw",
	"https://news.housefun.com.tw",
	"https://www.soft4fun.net",
}

// MaxNewsResults is the provider's per-search result cap.
const MaxNewsResults = 100

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetPath          string
	BoundaryPath         string
	BoundaryNameProperty string

	// News provider configuration.
	NewsBaseURL      string
	NewsLanguage     string
	NewsCountry      string
	NewsQuery        string
	NewsKeyword      string
	NewsMaxResults   int
	NewsExcludeSites []string
	NewsTimeout      time.Duration
	NewsRateLimitRPM int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional record publishing.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is read first; variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	newsTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("NEWS_TIMEOUT", "30s"))
	if err != nil || newsTimeout <= 0 {
		return nil, errors.New("invalid NEWS_TIMEOUT")
	}

	maxResults, err := parsePositiveInt("NEWS_MAX_RESULTS", MaxNewsResults)
	if err != nil {
		return nil, err
	}
	rpm, err := parsePositiveInt("NEWS_RATE_LIMIT_RPM", 30)
	if err != nil {
		return nil, err
	}

	excludes := DefaultExcludeSites
	if v, ok := os.LookupEnv("NEWS_EXCLUDE_SITES"); ok {
		excludes = sharedcfg.ParseBrokers(v)
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DatasetPath:          sharedcfg.EnvOrDefault("DATASET_PATH", "data/news_list.json"),
		BoundaryPath:         sharedcfg.EnvOrDefault("BOUNDARY_PATH", "data/taiwan_counties.geojson"),
		BoundaryNameProperty: sharedcfg.EnvOrDefault("BOUNDARY_NAME_PROPERTY", "COUNTYNAME"),

		NewsBaseURL:      strings.TrimRight(sharedcfg.EnvOrDefault("NEWS_BASE_URL", "https://news.google.com/rss"), "/"),
		NewsLanguage:     sharedcfg.EnvOrDefault("NEWS_LANGUAGE", "zh-Hant"),
		NewsCountry:      sharedcfg.EnvOrDefault("NEWS_COUNTRY", "TW"),
		NewsQuery:        sharedcfg.EnvOrDefault("NEWS_QUERY", `"停電" AND "戶"`),
		NewsKeyword:      sharedcfg.EnvOrDefault("NEWS_KEYWORD", "停電"),
		NewsMaxResults:   maxResults,
		NewsExcludeSites: excludes,
		NewsTimeout:      newsTimeout,
		NewsRateLimitRPM: rpm,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "outage-records"),
		KafkaEnabled: kafkaEnabled,
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, errors.New("LOG_FORMAT must be json or text")
	}
	if cfg.NewsMaxResults > MaxNewsResults {
		return nil, fmt.Errorf("NEWS_MAX_RESULTS must be at most %d", MaxNewsResults)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when publishing is enabled")
	}

	return cfg, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
