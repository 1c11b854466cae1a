package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"github.com/hafoozi/price-tracker/internal/config"
	domain "github.com/hafoozi/price-tracker/pkg/types"
)

// EmailNotifier implements Notifier via SMTP.
type EmailNotifier struct {
	cfg  config.EmailConfig
	send func(e *email.Email) error
	now  func() time.Time
}

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithSendFunc overrides SMTP delivery, used by tests to capture the
// rendered message.
func WithSendFunc(f func(e *email.Email) error) EmailOption {
	return func(n *EmailNotifier) {
		n.send = f
	}
}

// WithNowFunc overrides the clock used in email footers.
func WithNowFunc(f func() time.Time) EmailOption {
	return func(n *EmailNotifier) {
		n.now = f
	}
}

// NewEmailNotifier creates a notifier that delivers via the configured
// SMTP server with plain auth.
func NewEmailNotifier(cfg config.EmailConfig, opts ...EmailOption) *EmailNotifier {
	n := &EmailNotifier{
		cfg: cfg,
		now: time.Now,
	}
	n.send = func(e *email.Email) error {
		return e.Send(cfg.Addr(), smtp.PlainAuth("", cfg.Sender, cfg.Password, cfg.SMTPHost))
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SendDropAlerts sends one email listing every price drop of the run.
func (n *EmailNotifier) SendDropAlerts(_ context.Context, events []domain.PriceDropEvent) error {
	if len(events) == 0 {
		return nil
	}

	subject := fmt.Sprintf("🔔 Price Drop Alert — %d item(s) dropped!", len(events))
	body, err := renderDropAlert(events, n.now())
	if err != nil {
		return fmt.Errorf("rendering drop alert: %w", err)
	}
	return n.deliver(subject, body)
}

// SendStalenessAlert sends the aggregated stale-product notice.
func (n *EmailNotifier) SendStalenessAlert(_ context.Context, stale []string, threshold time.Duration) error {
	if len(stale) == 0 {
		return nil
	}

	hours := int(threshold.Hours())
	subject := fmt.Sprintf("⚠️ Price Tracker — Data Stale (%dh+)", hours)
	body, err := renderStaleness(stale, hours, n.now())
	if err != nil {
		return fmt.Errorf("rendering staleness alert: %w", err)
	}
	return n.deliver(subject, body)
}

// SendWeeklySummary sends the current-vs-last-week table for every
// configured product.
func (n *EmailNotifier) SendWeeklySummary(_ context.Context, rows []WeeklyRow) error {
	subject := fmt.Sprintf("📊 Weekly Price Summary — %s", n.now().Format("January 2, 2006"))
	body, err := renderWeeklySummary(rows, n.now())
	if err != nil {
		return fmt.Errorf("rendering weekly summary: %w", err)
	}
	return n.deliver(subject, body)
}

func (n *EmailNotifier) deliver(subject string, body []byte) error {
	e := email.NewEmail()
	e.From = n.cfg.Sender
	e.To = []string{n.cfg.Recipient}
	e.Subject = subject
	e.HTML = bytes.TrimSpace(body)

	if err := n.send(e); err != nil {
		return fmt.Errorf("sending email %q: %w", subject, err)
	}
	return nil
}
