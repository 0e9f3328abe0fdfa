package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else; the scoring
// pipeline itself never touches the environment.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional, used for score snapshots)
	Database DatabaseConfig

	// Redis (optional, used for provider response caching)
	Redis RedisConfig

	// External data providers
	Providers ProvidersConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether snapshot persistence is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// ProvidersConfig holds the external market-data provider settings.
type ProvidersConfig struct {
	// Timeout is the hard per-request bound applied to every provider call.
	Timeout time.Duration
	// CacheTTL is how long resolved price series stay in the Redis cache.
	CacheTTL time.Duration

	Yahoo      YahooConfig
	TwelveData TwelveDataConfig
	Finnhub    FinnhubConfig
	Polygon    PolygonConfig
}

// YahooConfig holds Yahoo Finance settings. Yahoo needs no API key.
type YahooConfig struct {
	BaseURL  string
	PageURL  string // HTML site, used by the statistics-scrape fallback
	Adjusted bool   // use adjusted closes when available
}

// TwelveDataConfig holds Twelve Data API settings.
type TwelveDataConfig struct {
	APIKey  string
	BaseURL string
}

// FinnhubConfig holds Finnhub API settings.
type FinnhubConfig struct {
	APIKey  string
	BaseURL string
}

// PolygonConfig holds Polygon API settings (real-time last trade).
type PolygonConfig struct {
	APIKey  string
	BaseURL string
}

// SchedulerConfig holds the periodic re-scoring settings.
type SchedulerConfig struct {
	Enabled bool
	// Spec is a cron expression (with seconds field).
	Spec string
	// Presets is a comma-separated list of basket preset names to re-score.
	Presets string
	// Window is the history window used by scheduled runs.
	Window string
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Providers: ProvidersConfig{
			Timeout:  getEnvAsDuration("PROVIDER_TIMEOUT", "20s"),
			CacheTTL: getEnvAsDuration("PROVIDER_CACHE_TTL", "15m"),
			Yahoo: YahooConfig{
				BaseURL:  getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
				PageURL:  getEnv("YAHOO_PAGE_URL", "https://finance.yahoo.com"),
				Adjusted: getEnvAsBool("YAHOO_ADJUSTED", true),
			},
			TwelveData: TwelveDataConfig{
				APIKey:  getEnv("TWELVE_API_KEY", ""),
				BaseURL: getEnv("TWELVE_BASE_URL", "https://api.twelvedata.com"),
			},
			Finnhub: FinnhubConfig{
				APIKey:  getEnv("FINNHUB_API_KEY", ""),
				BaseURL: getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
			},
			Polygon: PolygonConfig{
				APIKey:  getEnv("POLYGON_API_KEY", ""),
				BaseURL: getEnv("POLYGON_BASE_URL", "https://api.polygon.io"),
			},
		},

		Scheduler: SchedulerConfig{
			Enabled: getEnvAsBool("SCHEDULER_ENABLED", false),
			Spec:    getEnv("SCHEDULER_SPEC", "0 */15 * * * *"),
			Presets: getEnv("SCHEDULER_PRESETS", "mega-tech-us"),
			Window:  getEnv("SCHEDULER_WINDOW", "1y"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks configuration consistency.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}

	return nil
}

// APIKeysDetected lists the providers with a configured key, for startup logs.
func (c *Config) APIKeysDetected() []string {
	var detected []string
	if c.Providers.TwelveData.APIKey != "" {
		detected = append(detected, "twelvedata")
	}
	if c.Providers.Finnhub.APIKey != "" {
		detected = append(detected, "finnhub")
	}
	if c.Providers.Polygon.APIKey != "" {
		detected = append(detected, "polygon")
	}
	return detected
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
