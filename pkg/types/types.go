// Package domain defines the core business types for price-tracker.
package domain

import (
	"fmt"
	"time"
)

// TrackedProduct is a single retailer entry for a logical product bucket.
// It is immutable for the duration of a run and comes from configuration.
type TrackedProduct struct {
	BucketLabel string
	Retailer    string
	URL         string
}

// Key returns the identity key used in the history log and suppression
// state: "<bucket label> - <retailer name>". The same logical product
// tracked at two retailers yields two independent keys.
func (p TrackedProduct) Key() string {
	return fmt.Sprintf("%s - %s", p.BucketLabel, p.Retailer)
}

// Reading is one successful extraction for one product at one point in
// time. Readings are append-only; prior rows are never mutated.
type Reading struct {
	Timestamp  time.Time
	Name       string
	Price      float64
	URL        string
	ImageURL   string
	OutOfStock bool
}

// PriceDropEvent is the transient payload handed to the notifier when a
// product's price falls below its last recorded price.
type PriceDropEvent struct {
	Name     string
	URL      string
	OldPrice float64
	NewPrice float64
	Drop     float64
	DropPct  float64
}

// Outcome classifies what happened to one product during one run pass.
type Outcome string

// Outcome constants, logged with each processed product.
const (
	OutcomeBaseline Outcome = "baseline" // first recorded price, no alert
	OutcomeSteady   Outcome = "ok"       // price unchanged or higher
	OutcomeDrop     Outcome = "drop"     // price fell, alert candidate
	OutcomeOOS      Outcome = "oos"      // sold out, logged but never alerted
	OutcomeSkip     Outcome = "skip"     // no price extracted, nothing logged
	OutcomeError    Outcome = "error"    // fetch or unexpected failure
)

// RunSummary aggregates the result of one full pass over all products.
type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	Checked    int
	Logged     int
	Drops      int
	AlertsSent int
	Skipped    int
	Errors     int
	Stale      int
}
