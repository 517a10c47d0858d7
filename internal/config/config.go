package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type AppConfig struct {
	// AppEnv selects the logger format ("dev" gets a pretty handler).
	AppEnv   string
	LogLevel slog.Level

	Port string

	// SQLitePath is the database file; the whole system persists to a single
	// local SQLite file.
	SQLitePath string

	// Outbound weather API settings.
	WeatherBaseURL string
	WeatherTimeout time.Duration

	// SeedDemoSensors controls whether the two demo sensors are created at
	// startup if missing.
	SeedDemoSensors bool
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.SQLitePath = getenvDefault("SQLITE_PATH", "eirae.db")

	cfg.WeatherBaseURL = getenvDefault("WEATHER_BASE_URL", "https://api.open-meteo.com/v1/forecast")

	timeoutStr := getenvDefault("WEATHER_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_TIMEOUT: %w", err)
	}
	cfg.WeatherTimeout = timeout

	cfg.SeedDemoSensors = getenvDefault("SEED_DEMO_SENSORS", "true") == "true"

	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
