// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	KitchenAPIURL string
	PublicBaseURL string
	RedisURL      string

	RecipeCacheTTL time.Duration
	SpinDuration   time.Duration
	WheelIdleTTL   time.Duration
	KitchenTimeout time.Duration
	RequestTimeout time.Duration

	LogLevel  string
	LogFormat string
}

const (
	DefaultKitchenAPIURL = "http://localhost:5000"
	DefaultSQLiteURL     = "file:mealpick.db"
)

// ParseFlags validates flags and fills in defaults from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("mealpick", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or pgx)")
	fs.StringVar(&cfg.KitchenAPIURL, "k", "", "Kitchen API origin")
	fs.StringVar(&cfg.PublicBaseURL, "public-url", "", "Base URL used for share links")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for the recipe cache (optional)")

	// Timing
	fs.DurationVar(&cfg.RecipeCacheTTL, "cache-ttl", 0, "Recipe detail cache TTL")
	fs.DurationVar(&cfg.SpinDuration, "spin", 0, "Picker spin duration")
	fs.DurationVar(&cfg.WheelIdleTTL, "wheel-idle-ttl", 0, "How long an unused lobby wheel is kept")
	fs.DurationVar(&cfg.KitchenTimeout, "kitchen-timeout", 0, "Kitchen API request timeout")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", 0, "Per-request deadline")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", "sqlite")
	}
	cfg.DatabaseType = strings.ToLower(cfg.DatabaseType)
	switch cfg.DatabaseType {
	case "sqlite", "postgres", "pgx":
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultSQLiteURL
	}

	if cfg.KitchenAPIURL == "" {
		cfg.KitchenAPIURL = envOr("KITCHEN_API_URL", DefaultKitchenAPIURL)
	}
	cfg.KitchenAPIURL = strings.TrimRight(cfg.KitchenAPIURL, "/")

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = envOr("PUBLIC_BASE_URL", fmt.Sprintf("http://localhost:%d", cfg.Port))
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}

	var err error
	if cfg.RecipeCacheTTL, err = durationOr(cfg.RecipeCacheTTL, "RECIPE_CACHE_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.SpinDuration, err = durationOr(cfg.SpinDuration, "SPIN_DURATION", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.WheelIdleTTL, err = durationOr(cfg.WheelIdleTTL, "WHEEL_IDLE_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.KitchenTimeout, err = durationOr(cfg.KitchenTimeout, "KITCHEN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = durationOr(cfg.RequestTimeout, "REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = envOr("LOG_LEVEL", "info")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = envOr("LOG_FORMAT", "text")
	}

	return cfg, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// durationOr keeps a flag value when set, otherwise reads name from the env
func durationOr(flagValue time.Duration, name string, fallback time.Duration) (time.Duration, error) {
	if flagValue < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	if flagValue > 0 {
		return flagValue, nil
	}
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return d, nil
}
