// Package fetch retrieves product pages over HTTP with a retry-on-block
// fallback to an alternate client identity.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout = 15 * time.Second
	defaultBackoff = 3 * time.Second
)

// Identity header profiles. Retailers that block the desktop profile with a
// bot-detection status often serve the mobile one.
var (
	desktopHeaders = map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		"Accept-Language": "en-US,en;q=0.9",
	}
	mobileHeaders = map[string]string{
		"User-Agent":      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
		"Accept-Language": "en-US,en;q=0.9",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	}
)

// StatusError reports a non-200 HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.Code)
}

// Blocked reports whether the status is a bot-blocking signal worth
// retrying with the alternate identity.
func (e *StatusError) Blocked() bool {
	return e.Code == http.StatusForbidden ||
		e.Code == http.StatusTooManyRequests ||
		e.Code == http.StatusServiceUnavailable
}

// Fetcher issues product page requests. Safe for sequential reuse across
// products; it holds no per-request state.
type Fetcher struct {
	client  *resty.Client
	backoff time.Duration
	log     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.SetTimeout(d)
	}
}

// WithBlockBackoff sets the wait before the alternate-identity retry.
func WithBlockBackoff(d time.Duration) Option {
	return func(f *Fetcher) {
		f.backoff = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.log = l
	}
}

// New creates a Fetcher with the default 15s timeout and 3s block backoff.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  resty.New().SetTimeout(defaultTimeout).SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)),
		backoff: defaultBackoff,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs url with the desktop identity. On 403/429/503 it waits the
// block backoff and retries once with the mobile identity. Any other
// non-200 status or transport error fails immediately. At most two
// attempts are made per call.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	profiles := []map[string]string{desktopHeaders, mobileHeaders}

	var lastStatus *StatusError
	for i, headers := range profiles {
		resp, err := f.client.R().
			SetContext(ctx).
			SetHeaders(headers).
			Get(url)
		if err != nil {
			return nil, fmt.Errorf("requesting %s: %w", url, err)
		}

		statusErr := &StatusError{URL: url, Code: resp.StatusCode()}
		switch {
		case resp.StatusCode() == http.StatusOK:
			return resp.Body(), nil
		case statusErr.Blocked():
			lastStatus = statusErr
			if i < len(profiles)-1 {
				f.log.Warn("blocked, retrying with alternate identity",
					"url", url,
					"status", resp.StatusCode(),
				)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(f.backoff):
				}
			}
		default:
			return nil, statusErr
		}
	}

	return nil, fmt.Errorf("blocked on all attempts: %w", lastStatus)
}
