// Package cmd implements the CLI commands for price-tracker.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hafoozi/price-tracker/internal/config"
	"github.com/hafoozi/price-tracker/internal/engine"
	"github.com/hafoozi/price-tracker/internal/fetch"
	"github.com/hafoozi/price-tracker/internal/history"
	"github.com/hafoozi/price-tracker/internal/notify"
	"github.com/hafoozi/price-tracker/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "price-tracker",
	Short: "Track retail prices and email alerts on drops",
	Long: "price-tracker scrapes configured retailer product pages, logs prices\n" +
		"to an append-only history, and emails alerts on price drops, stale\n" +
		"data, and weekly summaries.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")

	cobra.CheckErr(viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format")))

	viper.SetEnvPrefix("PRICE_TRACKER")
	viper.AutomaticEnv()
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads configuration and builds the logger. Config load failure
// is fatal; nothing meaningful can run without it.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if v := viper.GetString("log-level"); v != "" {
		level = v
	}
	format := cfg.Logging.Format
	if v := viper.GetString("log-format"); v != "" {
		format = v
	}

	return cfg, logger.New(level, format), nil
}

func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	if cfg.Email.Sender == "" || cfg.Email.Recipient == "" {
		log.Warn("email not configured, alerts will be discarded")
		return notify.NewNoOpNotifier(log)
	}
	return notify.NewEmailNotifier(cfg.Email)
}

func buildEngine(cfg *config.Config, log *slog.Logger) *engine.Engine {
	fetcher := fetch.New(
		fetch.WithTimeout(cfg.Tracker.FetchTimeout),
		fetch.WithBlockBackoff(cfg.Tracker.BlockBackoff),
		fetch.WithLogger(log),
	)
	store := history.NewCSVStore(cfg.Tracker.HistoryFile, history.WithLogger(log))

	return engine.NewEngine(cfg, fetcher, store, buildNotifier(cfg, log),
		engine.WithLogger(log),
		engine.WithRequestDelay(cfg.Tracker.RequestDelay),
	)
}
