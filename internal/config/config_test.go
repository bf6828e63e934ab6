package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Load("")

	if cfg.Scheduler.IntervalDuration() != 5*time.Minute {
		t.Errorf("expected 5m interval, got %v", cfg.Scheduler.IntervalDuration())
	}
	if cfg.Delivery.PacingDuration() != 4*time.Second {
		t.Errorf("expected 4s pacing, got %v", cfg.Delivery.PacingDuration())
	}
	if cfg.Delivery.CooldownDuration() != 10*time.Second {
		t.Errorf("expected 10s cooldown, got %v", cfg.Delivery.CooldownDuration())
	}
	if cfg.Storage.Driver != DriverJSON {
		t.Errorf("expected json driver, got %s", cfg.Storage.Driver)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
source:
  url: https://forum.example.org/page/1/
  topicPath: /thread/
scheduler:
  interval: 90s
delivery:
  pacing: 1s
storage:
  driver: sqlite
  path: /var/lib/topicwatcher/seen.db
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(endpointEnv, "https://hooks.example.org/topics")
	t.Setenv(logLevelEnv, "warn")

	cfg := Load(path)

	if cfg.Source.URL != "https://forum.example.org/page/1/" || cfg.Source.TopicPath != "/thread/" {
		t.Errorf("source not merged: %+v", cfg.Source)
	}
	if cfg.Source.ItemSelector != ".tthumb_grid_item" {
		t.Errorf("default selector lost: %q", cfg.Source.ItemSelector)
	}
	if cfg.Scheduler.IntervalDuration() != 90*time.Second {
		t.Errorf("expected 90s interval, got %v", cfg.Scheduler.IntervalDuration())
	}
	if cfg.Delivery.PacingDuration() != time.Second || cfg.Delivery.CooldownDuration() != 10*time.Second {
		t.Errorf("unexpected delivery durations: %+v", cfg.Delivery)
	}
	if cfg.Delivery.Endpoint != "https://hooks.example.org/topics" {
		t.Errorf("env endpoint not applied: %s", cfg.Delivery.Endpoint)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Storage.Path != "/var/lib/topicwatcher/seen.db" {
		t.Errorf("storage not merged: %+v", cfg.Storage)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("env log level not applied: %s", cfg.Logging.Level)
	}
}

func TestLoadInvalidFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("source: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load(path)
	if cfg.Source.URL != defaultConfig().Source.URL {
		t.Errorf("expected default url, got %s", cfg.Source.URL)
	}
}

func TestUnknownDriverReverts(t *testing.T) {
	t.Setenv(storageDriverEnv, "redis")

	cfg := Load("")
	if cfg.Storage.Driver != DriverJSON {
		t.Errorf("expected json fallback, got %s", cfg.Storage.Driver)
	}
}

func TestParseDurationFallback(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"", time.Minute},
		{"garbage", time.Minute},
		{"-5s", time.Minute},
		{"30s", 30 * time.Second},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.input, time.Minute); got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
