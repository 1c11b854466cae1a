package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var weekly bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one tracker pass",
	Long: "Fetches every configured product page once, logs extracted prices,\n" +
		"emails drop alerts, and finishes with the staleness check.",
	RunE: runPass,
}

func init() {
	runCmd.Flags().BoolVar(&weekly, "weekly", false, "also send the weekly summary email")
	rootCmd.AddCommand(runCmd)
}

func runPass(_ *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, err = buildEngine(cfg, log).Run(ctx, weekly)
	return err
}
