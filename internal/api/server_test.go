package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/hafoozi/price-tracker/pkg/types"
)

type fakeSource struct {
	last *domain.RunSummary
}

func (f *fakeSource) LastRun() *domain.RunSummary {
	return f.last
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	s := NewServer(":0", &fakeSource{}, quietLogger())
	rec := doRequest(t, s, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestStatus_BeforeFirstRun(t *testing.T) {
	t.Parallel()

	s := NewServer(":0", &fakeSource{}, quietLogger())
	rec := doRequest(t, s, "/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"waiting for first run"}`, rec.Body.String())
}

func TestStatus_ReportsLastRun(t *testing.T) {
	t.Parallel()

	src := &fakeSource{last: &domain.RunSummary{
		RunID:      "abc-123",
		StartedAt:  time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Duration:   2500 * time.Millisecond,
		Checked:    4,
		Logged:     3,
		Drops:      1,
		AlertsSent: 1,
		Skipped:    1,
		Errors:     0,
		Stale:      2,
	}}
	s := NewServer(":0", src, quietLogger())
	rec := doRequest(t, s, "/status")

	require.Equal(t, http.StatusOK, rec.Code)

	var got statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "abc-123", got.RunID)
	assert.Equal(t, int64(2500), got.DurationMS)
	assert.Equal(t, 4, got.Checked)
	assert.Equal(t, 1, got.Drops)
	assert.Equal(t, 2, got.Stale)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := NewServer(":0", &fakeSource{}, quietLogger())
	rec := doRequest(t, s, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "price_tracker_products_checked_total")
}

func TestRecovery_PanicReturns500(t *testing.T) {
	t.Parallel()

	s := NewServer(":0", &fakeSource{}, quietLogger())
	s.echo.GET("/boom", func(echo.Context) error {
		panic("kaboom")
	})

	rec := doRequest(t, s, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
