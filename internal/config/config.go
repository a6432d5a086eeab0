package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. A .env file in the
// working directory is loaded first when present.
type Config struct {
	Port            string
	DBPath          string
	LogLevel        string
	ReconcileCron   string
	Location        *time.Location
	RejectPastDates bool
}

func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getenv("CHOREQUEST_PORT", "8080"),
		DBPath:        getenv("CHOREQUEST_DB_PATH", "chorequest.db"),
		LogLevel:      getenv("CHOREQUEST_LOG_LEVEL", "info"),
		ReconcileCron: getenv("CHOREQUEST_RECONCILE_CRON", "5 0 * * *"),
	}

	tz := getenv("CHOREQUEST_TZ", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	cfg.Location = loc

	if v := os.Getenv("CHOREQUEST_REJECT_PAST_DATES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse CHOREQUEST_REJECT_PAST_DATES: %w", err)
		}
		cfg.RejectPastDates = b
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
