package notify

import (
	"context"
	"log/slog"
	"time"

	domain "github.com/hafoozi/price-tracker/pkg/types"
)

// NoOpNotifier implements Notifier by logging discarded payloads. It is
// used for dry runs and when email is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards payloads with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendDropAlerts logs and discards drop events.
func (n *NoOpNotifier) SendDropAlerts(_ context.Context, events []domain.PriceDropEvent) error {
	n.log.Debug("drop alert discarded (no email configured)", "count", len(events))
	return nil
}

// SendStalenessAlert logs and discards the staleness notice.
func (n *NoOpNotifier) SendStalenessAlert(_ context.Context, stale []string, threshold time.Duration) error {
	n.log.Debug("staleness alert discarded (no email configured)",
		"count", len(stale),
		"threshold", threshold,
	)
	return nil
}

// SendWeeklySummary logs and discards the weekly summary.
func (n *NoOpNotifier) SendWeeklySummary(_ context.Context, rows []WeeklyRow) error {
	n.log.Debug("weekly summary discarded (no email configured)", "rows", len(rows))
	return nil
}
