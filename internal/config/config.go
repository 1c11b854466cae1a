// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/hafoozi/price-tracker/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Tracker TrackerConfig  `yaml:"tracker"`
	Email   EmailConfig    `yaml:"email"`
	Watch   WatchConfig    `yaml:"watch"`
	Logging LoggingConfig  `yaml:"logging"`
	Buckets []BucketConfig `yaml:"buckets"`
}

// TrackerConfig defines scrape-loop behavior and file locations.
type TrackerConfig struct {
	HistoryFile  string        `yaml:"history_file"`
	AlertedFile  string        `yaml:"alerted_file"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	BlockBackoff time.Duration `yaml:"block_backoff"`
	RequestDelay time.Duration `yaml:"request_delay"`
	StaleAfter   time.Duration `yaml:"stale_after"`
}

// EmailConfig defines SMTP delivery settings. Sender, Password and
// Recipient may be overridden by the SENDER_EMAIL, APP_PASSWORD and
// RECIPIENT_EMAIL environment variables.
type EmailConfig struct {
	SMTPHost  string `yaml:"smtp_host"`
	SMTPPort  int    `yaml:"smtp_port"`
	Sender    string `yaml:"sender"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"`
}

// Addr returns the host:port SMTP dial address.
func (e *EmailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", e.SMTPHost, e.SMTPPort)
}

// WatchConfig defines watch-mode scheduling and the status server.
type WatchConfig struct {
	Interval   time.Duration `yaml:"interval"`
	StatusAddr string        `yaml:"status_addr"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// BucketConfig groups retailer entries for one logical product.
type BucketConfig struct {
	Label     string           `yaml:"label"`
	Retailers []RetailerConfig `yaml:"retailers"`
}

// RetailerConfig is one tracked product page.
type RetailerConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Load reads and parses a YAML config file, performing environment variable
// substitution, credential overrides, and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Products flattens the bucket list into tracked products in config order.
func (c *Config) Products() []domain.TrackedProduct {
	var products []domain.TrackedProduct
	for _, b := range c.Buckets {
		for _, r := range b.Retailers {
			products = append(products, domain.TrackedProduct{
				BucketLabel: b.Label,
				Retailer:    r.Name,
				URL:         r.URL,
			})
		}
	}
	return products
}

func applyDefaults(cfg *Config) {
	applyTrackerDefaults(&cfg.Tracker)
	applyEmailDefaults(&cfg.Email)
	applyWatchDefaults(&cfg.Watch)
	applyLoggingDefaults(&cfg.Logging)
}

func applyTrackerDefaults(t *TrackerConfig) {
	if t.HistoryFile == "" {
		t.HistoryFile = "price_history.csv"
	}
	if t.AlertedFile == "" {
		t.AlertedFile = "last_alerted.json"
	}
	if t.FetchTimeout == 0 {
		t.FetchTimeout = 15 * time.Second
	}
	if t.BlockBackoff == 0 {
		t.BlockBackoff = 3 * time.Second
	}
	if t.RequestDelay == 0 {
		t.RequestDelay = 2 * time.Second
	}
	if t.StaleAfter == 0 {
		t.StaleAfter = 24 * time.Hour
	}
}

func applyEmailDefaults(e *EmailConfig) {
	if e.SMTPHost == "" {
		e.SMTPHost = "smtp.gmail.com"
	}
	if e.SMTPPort == 0 {
		e.SMTPPort = 465
	}
}

func applyWatchDefaults(w *WatchConfig) {
	if w.Interval == 0 {
		w.Interval = time.Hour
	}
	if w.StatusAddr == "" {
		w.StatusAddr = ":8710"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

// applyEnvOverrides lets deployment environments inject credentials without
// writing them into the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		cfg.Email.Sender = v
	}
	if v := os.Getenv("APP_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("RECIPIENT_EMAIL"); v != "" {
		cfg.Email.Recipient = v
	}
}

func validate(cfg *Config) error {
	var errs []error

	if len(cfg.Buckets) == 0 {
		errs = append(errs, fmt.Errorf("at least one bucket is required"))
	}
	for i, b := range cfg.Buckets {
		if b.Label == "" {
			errs = append(errs, fmt.Errorf("buckets[%d].label is required", i))
		}
		for j, r := range b.Retailers {
			if r.Name == "" {
				errs = append(errs, fmt.Errorf("buckets[%d].retailers[%d].name is required", i, j))
			}
			if r.URL == "" {
				errs = append(errs, fmt.Errorf("buckets[%d].retailers[%d].url is required", i, j))
			}
		}
	}

	return errors.Join(errs...)
}
