package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "TOPIC_WATCHER_CONFIG"
	pageURLEnv       = "TOPIC_WATCHER_URL"
	endpointEnv      = "TOPIC_WATCHER_ENDPOINT"
	storageDriverEnv = "TOPIC_WATCHER_STORAGE_DRIVER"
	storagePathEnv   = "TOPIC_WATCHER_STORAGE_PATH"
	logLevelEnv      = "LOG_LEVEL"

	// DriverJSON stores the seen set as a JSON file.
	DriverJSON = "json"
	// DriverSQLite stores the seen set in a SQLite database.
	DriverSQLite = "sqlite"
)

// Config holds high-level settings required across the application.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig describes the monitored listing page.
type SourceConfig struct {
	URL          string `yaml:"url"`
	UserAgent    string `yaml:"userAgent"`
	Timeout      string `yaml:"timeout"`
	ItemSelector string `yaml:"itemSelector"`
	LinkSelector string `yaml:"linkSelector"`
	TopicPath    string `yaml:"topicPath"`
}

// SchedulerConfig defines how often a cycle runs.
type SchedulerConfig struct {
	Interval string `yaml:"interval"`
}

// DeliveryConfig wires the downstream endpoint and its pacing.
type DeliveryConfig struct {
	Endpoint string `yaml:"endpoint"`
	Source   string `yaml:"source"`
	Pacing   string `yaml:"pacing"`
	Cooldown string `yaml:"cooldown"`
	Timeout  string `yaml:"timeout"`
}

// StorageConfig selects where seen topic keys are persisted.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TimeoutDuration resolves the fetch timeout.
func (s SourceConfig) TimeoutDuration() time.Duration {
	return parseDuration(s.Timeout, 60*time.Second)
}

// IntervalDuration resolves the cycle interval.
func (s SchedulerConfig) IntervalDuration() time.Duration {
	return parseDuration(s.Interval, 5*time.Minute)
}

// PacingDuration resolves the pause between posts.
func (d DeliveryConfig) PacingDuration() time.Duration {
	return parseDuration(d.Pacing, 4*time.Second)
}

// CooldownDuration resolves the extra pause after a 429.
func (d DeliveryConfig) CooldownDuration() time.Duration {
	return parseDuration(d.Cooldown, 10*time.Second)
}

// TimeoutDuration resolves the per-post HTTP timeout.
func (d DeliveryConfig) TimeoutDuration() time.Duration {
	return parseDuration(d.Timeout, 15*time.Second)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Load reads YAML configuration (if present) and applies environment
// overrides. An explicit path wins over TOPIC_WATCHER_CONFIG.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalizeDriver()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(pageURLEnv); v != "" {
		c.Source.URL = v
	}

	if v := os.Getenv(endpointEnv); v != "" {
		c.Delivery.Endpoint = v
	}

	if v := os.Getenv(storageDriverEnv); v != "" {
		c.Storage.Driver = v
	}

	if v := os.Getenv(storagePathEnv); v != "" {
		c.Storage.Path = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) normalizeDriver() {
	switch c.Storage.Driver {
	case DriverJSON, DriverSQLite:
	default:
		log.Printf("config: unknown storage driver %q, reverting to %s", c.Storage.Driver, DriverJSON)
		c.Storage.Driver = DriverJSON
	}
}

func mergeConfig(base, override Config) Config {
	if override.Source.URL != "" {
		base.Source.URL = override.Source.URL
	}
	if override.Source.UserAgent != "" {
		base.Source.UserAgent = override.Source.UserAgent
	}
	if override.Source.Timeout != "" {
		base.Source.Timeout = override.Source.Timeout
	}
	if override.Source.ItemSelector != "" {
		base.Source.ItemSelector = override.Source.ItemSelector
	}
	if override.Source.LinkSelector != "" {
		base.Source.LinkSelector = override.Source.LinkSelector
	}
	if override.Source.TopicPath != "" {
		base.Source.TopicPath = override.Source.TopicPath
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	if override.Delivery.Endpoint != "" {
		base.Delivery.Endpoint = override.Delivery.Endpoint
	}
	if override.Delivery.Source != "" {
		base.Delivery.Source = override.Delivery.Source
	}
	if override.Delivery.Pacing != "" {
		base.Delivery.Pacing = override.Delivery.Pacing
	}
	if override.Delivery.Cooldown != "" {
		base.Delivery.Cooldown = override.Delivery.Cooldown
	}
	if override.Delivery.Timeout != "" {
		base.Delivery.Timeout = override.Delivery.Timeout
	}

	if override.Storage.Driver != "" {
		base.Storage.Driver = override.Storage.Driver
	}
	if override.Storage.Path != "" {
		base.Storage.Path = override.Storage.Path
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Source: SourceConfig{
			URL:          "https://forum.example.com/forum/2-new-topics/page/1/",
			Timeout:      "60s",
			ItemSelector: ".tthumb_grid_item",
			LinkSelector: ".tthumb_gal_title a",
			TopicPath:    "/topic/",
		},
		Scheduler: SchedulerConfig{Interval: "5m"},
		Delivery: DeliveryConfig{
			Endpoint: "http://localhost:8080/api/scrape/",
			Source:   "forum-home",
			Pacing:   "4s",
			Cooldown: "10s",
			Timeout:  "15s",
		},
		Storage: StorageConfig{Driver: DriverJSON, Path: "previous-topics.json"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
