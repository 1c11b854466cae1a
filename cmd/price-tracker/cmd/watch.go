package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hafoozi/price-tracker/internal/api"
	"github.com/hafoozi/price-tracker/internal/engine"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run tracker passes on an interval",
	Long: "Runs a pass immediately, then repeats on the configured interval\n" +
		"while serving status and Prometheus metrics endpoints.",
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	eng := buildEngine(cfg, log)

	scheduler, err := engine.NewScheduler(eng, cfg.Watch.Interval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	server := api.NewServer(cfg.Watch.StatusAddr, eng, log)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("status server error", "error", err)
		}
	}()

	// First pass runs right away; the scheduler handles the rest.
	if _, err := eng.Run(context.Background(), false); err != nil {
		log.Error("initial pass failed", "error", err)
	}
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down status server: %w", err)
	}

	log.Info("stopped")
	return nil
}
