// Package notify defines the notification interface and implementations
// for alert delivery.
package notify

import (
	"context"
	"time"

	domain "github.com/hafoozi/price-tracker/pkg/types"
)

// WeeklyRow is one product line in the weekly summary email.
type WeeklyRow struct {
	Name     string
	Current  *float64 // nil when unavailable or out of stock this run
	LastWeek *float64 // nil when no row existed 7 days ago
}

// Notifier delivers the pipeline's structured payloads. The engine's
// obligation ends at handing these over; delivery failures are logged by
// the caller and never escalate into the scrape pipeline.
type Notifier interface {
	// SendDropAlerts sends one email covering every drop event of a run.
	SendDropAlerts(ctx context.Context, events []domain.PriceDropEvent) error

	// SendStalenessAlert reports products whose history has gone quiet
	// for longer than threshold. One aggregated email per run.
	SendStalenessAlert(ctx context.Context, stale []string, threshold time.Duration) error

	// SendWeeklySummary sends the full current-vs-last-week table.
	SendWeeklySummary(ctx context.Context, rows []WeeklyRow) error
}
