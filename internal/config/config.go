package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port              string
	LogLevel          string
	StorageDriver     string
	DatabaseURL       string
	DatabaseSchema    string
	AutoMigrate       bool
	BcryptCost        int
	AllowAdminSignup  bool
	RateLimitRegister RateLimitConfig
	ShutdownTimeout   time.Duration
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		StorageDriver:    strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DatabaseSchema:   getEnv("DATABASE_SCHEMA", "public"),
		AutoMigrate:      parseBool(getEnv("AUTO_MIGRATE", "true")),
		AllowAdminSignup: parseBool(getEnv("ALLOW_ADMIN_SIGNUP", "false")),
		ShutdownTimeout:  parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")),
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST value: %w", err)
	}
	cfg.BcryptCost = cost

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_REGISTER", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REGISTER value: %w", err)
	}
	cfg.RateLimitRegister = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	if strings.EqualFold(strings.TrimSpace(value), "off") {
		return RateLimitConfig{}, nil
	}

	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func parseBool(input string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(input))
	return err == nil && b
}
