package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CHOREQUEST_PORT", "CHOREQUEST_DB_PATH", "CHOREQUEST_LOG_LEVEL",
		"CHOREQUEST_RECONCILE_CRON", "CHOREQUEST_TZ", "CHOREQUEST_REJECT_PAST_DATES",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DBPath != "chorequest.db" {
		t.Errorf("db path = %q, want chorequest.db", cfg.DBPath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
	if cfg.ReconcileCron != "5 0 * * *" {
		t.Errorf("cron = %q, want 5 0 * * *", cfg.ReconcileCron)
	}
	if cfg.Location != time.Local {
		t.Errorf("location = %v, want Local", cfg.Location)
	}
	if cfg.RejectPastDates {
		t.Error("reject past dates should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHOREQUEST_PORT", "9000")
	t.Setenv("CHOREQUEST_TZ", "Europe/Berlin")
	t.Setenv("CHOREQUEST_REJECT_PAST_DATES", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("port = %q, want 9000", cfg.Port)
	}
	if cfg.Location.String() != "Europe/Berlin" {
		t.Errorf("location = %v, want Europe/Berlin", cfg.Location)
	}
	if !cfg.RejectPastDates {
		t.Error("reject past dates should be true")
	}
}

func TestLoadBadTimezone(t *testing.T) {
	t.Setenv("CHOREQUEST_TZ", "Mars/Olympus")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestLoadBadBool(t *testing.T) {
	t.Setenv("CHOREQUEST_TZ", "")
	t.Setenv("CHOREQUEST_REJECT_PAST_DATES", "maybe")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable boolean")
	}
}
