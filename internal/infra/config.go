package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv               string
	LogLevel             string
	Port                 string
	DefaultLocale        string
	APIURL               string
	APIToken             string
	DatabaseURL          string
	DBMaxConns           int
	CORSOrigins          []string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	FeedRetryDelay       time.Duration
	FeedRetention        time.Duration
	SSEKeepAlive         time.Duration
	BackendTimeout       time.Duration
	UploadConcurrency    int
	HTTPReadTimeout      time.Duration
	HTTPWriteTimeout     time.Duration
	HTTPIdleTimeout      time.Duration
	RateLimitPerMin      int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		LogLevel:             os.Getenv("LOG_LEVEL"),
		Port:                 getEnv("PORT", "8080"),
		DefaultLocale:        getEnv("DEFAULT_LOCALE", "en"),
		APIURL:               strings.TrimRight(os.Getenv("API_URL"), "/"),
		APIToken:             os.Getenv("API_TOKEN"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		DBMaxConns:           getEnvInt("DB_MAX_CONNS", 4),
		CORSOrigins:          getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		SessionTTL:           getEnvDuration("SESSION_TTL", 2*time.Hour),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		FeedRetryDelay:       getEnvDuration("FEED_RETRY_DELAY", 5*time.Second),
		FeedRetention:        getEnvDuration("FEED_RETENTION", 7*24*time.Hour),
		SSEKeepAlive:         getEnvDuration("SSE_KEEPALIVE", 15*time.Second),
		BackendTimeout:       getEnvDuration("BACKEND_TIMEOUT", 30*time.Second),
		UploadConcurrency:    getEnvInt("UPLOAD_CONCURRENCY", 4),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:      getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("API_URL is required")
	}

	if cfg.DefaultLocale != "en" && cfg.DefaultLocale != "id" {
		return nil, fmt.Errorf("DEFAULT_LOCALE must be en or id, got %q", cfg.DefaultLocale)
	}

	return cfg, nil
}

// PersistFeed reports whether task and notification snapshots go to PostgreSQL.
func (c *Config) PersistFeed() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "2h") or bare seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if i, err := strconv.Atoi(v); err == nil {
		return time.Duration(i) * time.Second
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
