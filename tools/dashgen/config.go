package main

import "errors"

// KnownMetrics is the set of metric names exported by price-tracker plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"price_tracker_http_request_duration_seconds":        true,
	"price_tracker_http_request_duration_seconds_bucket": true,
	"price_tracker_http_requests_total":                  true,

	// Health metrics.
	"price_tracker_healthz_up": true,

	// Scrape metrics.
	"price_tracker_products_checked_total":      true,
	"price_tracker_fetch_failures_total":        true,
	"price_tracker_extraction_misses_total":     true,
	"price_tracker_run_duration_seconds":        true,
	"price_tracker_run_duration_seconds_bucket": true,

	// Alerting metrics.
	"price_tracker_price_drops_total":           true,
	"price_tracker_alerts_sent_total":           true,
	"price_tracker_alerts_suppressed_total":     true,
	"price_tracker_notification_failures_total": true,
	"price_tracker_stale_products":              true,

	// Recording rules.
	"price_tracker:http_requests:rate5m":     true,
	"price_tracker:http_errors:rate5m":       true,
	"price_tracker:fetch_failures:rate5m":    true,
	"price_tracker:extraction_misses:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
