// Package engine orchestrates the scrape pipeline: fetch, extract, log,
// decide, notify. One run is a single sequential pass over every
// configured product.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hafoozi/price-tracker/internal/alerts"
	"github.com/hafoozi/price-tracker/internal/config"
	"github.com/hafoozi/price-tracker/internal/extract"
	"github.com/hafoozi/price-tracker/internal/history"
	"github.com/hafoozi/price-tracker/internal/metrics"
	"github.com/hafoozi/price-tracker/internal/notify"
	domain "github.com/hafoozi/price-tracker/pkg/types"
)

// Fetcher retrieves one product page. Satisfied by fetch.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Engine runs the tracker pass with injected dependencies.
type Engine struct {
	cfg      *config.Config
	fetcher  Fetcher
	store    history.Store
	notifier notify.Notifier
	log      *slog.Logger
	limiter  *rate.Limiter
	now      func() time.Time

	mu      sync.Mutex
	lastRun *domain.RunSummary
}

// NewEngine creates an Engine. The politeness limiter defaults to the
// configured request delay.
func NewEngine(
	cfg *config.Config,
	f Fetcher,
	s history.Store,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		cfg:      cfg,
		fetcher:  f,
		store:    s,
		notifier: n,
		log:      slog.Default(),
		limiter:  rate.NewLimiter(rate.Every(cfg.Tracker.RequestDelay), 1),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithRequestDelay overrides the inter-product politeness delay. A zero
// delay disables waiting, used by tests.
func WithRequestDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithNowFunc overrides the clock, used by tests to cross day and
// staleness boundaries.
func WithNowFunc(f func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = f
	}
}

// productResult is the tagged outcome of one product pass.
type productResult struct {
	Outcome domain.Outcome
	Event   *domain.PriceDropEvent
	Price   *float64 // current price for the weekly table; nil when absent or OOS
	Logged  bool
}

// Run executes one full pass: migrate the log, check every product,
// send the drop email, optionally the weekly summary, save suppression
// state, and finish with the staleness scan. Only setup failures abort
// the run; per-product failures are logged and skipped.
func (e *Engine) Run(ctx context.Context, includeWeekly bool) (*domain.RunSummary, error) {
	start := e.now()
	runID := uuid.New().String()
	log := e.log.With("run_id", runID)
	defer func() {
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	if err := e.store.Init(); err != nil {
		return nil, fmt.Errorf("initializing history log: %w", err)
	}

	state, err := alerts.Load(e.cfg.Tracker.AlertedFile, alerts.WithNowFunc(e.now))
	if err != nil {
		return nil, fmt.Errorf("loading alert state: %w", err)
	}

	products := e.cfg.Products()
	summary := &domain.RunSummary{RunID: runID, StartedAt: start}

	// The limiter starts with a full token (and refills between watch-mode
	// passes); drain it so the wait after the first product actually waits.
	e.limiter.ReserveN(time.Now(), 1)

	var pending []domain.PriceDropEvent
	var pendingKeys []string
	currentPrices := make(map[string]*float64, len(products))

	log.Info("run starting", "products", len(products))

	for _, p := range products {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		res := e.checkProduct(ctx, p)
		summary.Checked++
		metrics.ProductsCheckedTotal.Inc()
		currentPrices[p.Key()] = res.Price

		log.Info("product checked",
			"product", p.Key(),
			"outcome", res.Outcome,
		)

		if res.Logged {
			summary.Logged++
		}

		switch res.Outcome {
		case domain.OutcomeDrop:
			summary.Drops++
			metrics.PriceDropsTotal.Inc()
			if state.AlreadyToday(p.Key()) {
				metrics.AlertsSuppressedTotal.Inc()
				log.Info("drop alert suppressed, already sent today", "product", p.Key())
			} else {
				pending = append(pending, *res.Event)
				pendingKeys = append(pendingKeys, p.Key())
			}
		case domain.OutcomeSkip:
			summary.Skipped++
		case domain.OutcomeError:
			summary.Errors++
		}

		// Politeness delay after every product, regardless of outcome.
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	summary.AlertsSent = e.dispatchDropAlerts(ctx, log, state, pending, pendingKeys)

	if includeWeekly {
		e.dispatchWeeklySummary(ctx, log, products, currentPrices)
	}

	if err := state.Save(); err != nil {
		log.Error("saving alert state failed", "error", err)
	}

	summary.Stale = e.checkStaleness(ctx, log, products)
	summary.Duration = time.Since(start)

	e.mu.Lock()
	e.lastRun = summary
	e.mu.Unlock()

	log.Info("run complete",
		"checked", summary.Checked,
		"logged", summary.Logged,
		"drops", summary.Drops,
		"alerts_sent", summary.AlertsSent,
		"skipped", summary.Skipped,
		"errors", summary.Errors,
		"stale", summary.Stale,
		"duration", summary.Duration,
	)
	return summary, nil
}

// LastRun returns the most recent run summary, or nil before the first
// completed run. Safe for concurrent use by the status server.
func (e *Engine) LastRun() *domain.RunSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRun
}

// checkProduct fetches, extracts, logs, and classifies one product. A
// panic in any stage is contained here so the pass continues.
func (e *Engine) checkProduct(ctx context.Context, p domain.TrackedProduct) (res productResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("panic while checking product", "product", p.Key(), "panic", r)
			res = productResult{Outcome: domain.OutcomeError}
		}
	}()

	body, err := e.fetcher.Fetch(ctx, p.URL)
	if err != nil {
		e.log.Error("fetch failed", "product", p.Key(), "error", err)
		metrics.FetchFailuresTotal.Inc()
		return productResult{Outcome: domain.OutcomeError}
	}

	result, err := extract.Extract(body, p.URL)
	if err != nil {
		e.log.Error("parse failed", "product", p.Key(), "error", err)
		return productResult{Outcome: domain.OutcomeError}
	}

	if result.Price == nil {
		e.log.Warn("no price extracted", "product", p.Key())
		metrics.ExtractionMissesTotal.Inc()
		return productResult{Outcome: domain.OutcomeSkip}
	}

	lastPrice, err := e.store.LastPrice(p.Key())
	if err != nil {
		e.log.Error("reading history failed", "product", p.Key(), "error", err)
		return productResult{Outcome: domain.OutcomeError}
	}

	if err := e.store.Append(domain.Reading{
		Timestamp:  e.now(),
		Name:       p.Key(),
		Price:      *result.Price,
		URL:        p.URL,
		ImageURL:   result.ImageURL,
		OutOfStock: !result.InStock,
	}); err != nil {
		e.log.Error("appending history failed", "product", p.Key(), "error", err)
		return productResult{Outcome: domain.OutcomeError}
	}

	return e.classify(p, *result.Price, result.InStock, lastPrice)
}

// classify applies the per-product decision machine. OOS wins over any
// price movement; a first-ever price is a baseline, never an alert.
func (e *Engine) classify(
	p domain.TrackedProduct,
	price float64,
	inStock bool,
	lastPrice *float64,
) productResult {
	switch {
	case !inStock:
		return productResult{Outcome: domain.OutcomeOOS, Logged: true}
	case lastPrice == nil:
		return productResult{Outcome: domain.OutcomeBaseline, Price: &price, Logged: true}
	case price < *lastPrice:
		drop := *lastPrice - price
		return productResult{
			Outcome: domain.OutcomeDrop,
			Price:   &price,
			Logged:  true,
			Event: &domain.PriceDropEvent{
				Name:     p.Key(),
				URL:      p.URL,
				OldPrice: *lastPrice,
				NewPrice: price,
				Drop:     drop,
				DropPct:  drop / *lastPrice * 100,
			},
		}
	default:
		return productResult{Outcome: domain.OutcomeSteady, Price: &price, Logged: true}
	}
}

// dispatchDropAlerts sends the aggregated drop email and marks the
// products as alerted only on successful delivery, so a transient SMTP
// failure retries on the next run. Returns the number of alerts sent.
func (e *Engine) dispatchDropAlerts(
	ctx context.Context,
	log *slog.Logger,
	state *alerts.State,
	events []domain.PriceDropEvent,
	keys []string,
) int {
	if len(events) == 0 {
		return 0
	}

	if err := e.notifier.SendDropAlerts(ctx, events); err != nil {
		log.Error("sending drop alerts failed", "count", len(events), "error", err)
		metrics.NotificationFailuresTotal.Inc()
		return 0
	}

	for _, key := range keys {
		state.Mark(key)
	}
	metrics.AlertsSentTotal.Add(float64(len(events)))
	log.Info("drop alerts sent", "count", len(events))
	return len(events)
}

func (e *Engine) dispatchWeeklySummary(
	ctx context.Context,
	log *slog.Logger,
	products []domain.TrackedProduct,
	currentPrices map[string]*float64,
) {
	rows := e.weeklyRows(products, currentPrices)
	if err := e.notifier.SendWeeklySummary(ctx, rows); err != nil {
		log.Error("sending weekly summary failed", "error", err)
		metrics.NotificationFailuresTotal.Inc()
		return
	}
	log.Info("weekly summary sent", "rows", len(rows))
}

// checkStaleness reports products whose most recent history row is
// older than the configured threshold, including products never logged
// at all. One aggregated email per run; a send failure is logged only.
func (e *Engine) checkStaleness(
	ctx context.Context,
	log *slog.Logger,
	products []domain.TrackedProduct,
) int {
	now := e.now()
	var stale []string

	for _, p := range products {
		lastSeen, err := e.store.LastSeen(p.Key())
		if err != nil {
			log.Error("staleness lookup failed", "product", p.Key(), "error", err)
			continue
		}
		switch {
		case lastSeen == nil:
			stale = append(stale, fmt.Sprintf("%s (no data yet)", p.Key()))
		case now.Sub(*lastSeen) > e.cfg.Tracker.StaleAfter:
			stale = append(stale, fmt.Sprintf("%s (last seen %dh ago)",
				p.Key(), int(now.Sub(*lastSeen).Hours())))
		}
	}

	metrics.StaleProducts.Set(float64(len(stale)))
	if len(stale) == 0 {
		return 0
	}

	log.Warn("stale products detected", "count", len(stale))
	if err := e.notifier.SendStalenessAlert(ctx, stale, e.cfg.Tracker.StaleAfter); err != nil {
		log.Error("sending staleness alert failed", "error", err)
		metrics.NotificationFailuresTotal.Inc()
	}
	return len(stale)
}
