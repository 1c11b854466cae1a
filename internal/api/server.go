// Package api serves the watch-mode status endpoints: liveness, the
// last run summary, and Prometheus metrics.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domain "github.com/hafoozi/price-tracker/pkg/types"
)

// StatusSource exposes the most recent run summary. Satisfied by
// engine.Engine.
type StatusSource interface {
	LastRun() *domain.RunSummary
}

// Server is the watch-mode HTTP status server.
type Server struct {
	echo *echo.Echo
	addr string
	src  StatusSource
	log  *slog.Logger
}

// NewServer creates a status server listening on addr.
func NewServer(addr string, src StatusSource, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(RequestLog(log), Metrics(), Recovery(log))

	s := &Server{
		echo: e,
		addr: addr,
		src:  src,
		log:  log,
	}

	e.GET("/healthz", s.healthz)
	e.GET("/status", s.status)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("status server starting", "addr", s.addr)
	return s.echo.Start(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (*Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// statusResponse is the JSON shape of the last completed run.
type statusResponse struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Checked    int       `json:"checked"`
	Logged     int       `json:"logged"`
	Drops      int       `json:"drops"`
	AlertsSent int       `json:"alerts_sent"`
	Skipped    int       `json:"skipped"`
	Errors     int       `json:"errors"`
	Stale      int       `json:"stale"`
}

func (s *Server) status(c echo.Context) error {
	last := s.src.LastRun()
	if last == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": "waiting for first run"})
	}
	return c.JSON(http.StatusOK, statusResponse{
		RunID:      last.RunID,
		StartedAt:  last.StartedAt,
		DurationMS: last.Duration.Milliseconds(),
		Checked:    last.Checked,
		Logged:     last.Logged,
		Drops:      last.Drops,
		AlertsSent: last.AlertsSent,
		Skipped:    last.Skipped,
		Errors:     last.Errors,
		Stale:      last.Stale,
	})
}
