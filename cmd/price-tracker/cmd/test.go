package cmd

import (
	"context"

	"github.com/spf13/cobra"

	domain "github.com/hafoozi/price-tracker/pkg/types"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a sample drop alert without scraping",
	Long:  "Verifies SMTP configuration by emailing one canned price-drop event.",
	RunE:  runTestAlert,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTestAlert(_ *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	sample := domain.PriceDropEvent{
		Name:     "Test Product - Example Store",
		URL:      "https://example.com/product",
		OldPrice: 399.00,
		NewPrice: 349.00,
		Drop:     50.00,
		DropPct:  12.5,
	}

	if err := buildNotifier(cfg, log).SendDropAlerts(context.Background(), []domain.PriceDropEvent{sample}); err != nil {
		return err
	}
	log.Info("sample alert sent", "recipient", cfg.Email.Recipient)
	return nil
}
