package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// PriceDrops returns a timeseries panel showing detected drops per hour.
func PriceDrops() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Price Drops / h").
		Description("Detected price drops over the trailing hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`increase(price_tracker_price_drops_total{job="price-tracker"}[1h])`,
			"drops", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine).
		Tooltip(MultiTooltip())
}

// AlertDelivery returns a timeseries panel comparing sent and suppressed
// drop alerts.
func AlertDelivery() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Alerts Sent vs Suppressed").
		Description("Drop alerts emailed versus held back by the once-per-day rule").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`increase(price_tracker_alerts_sent_total{job="price-tracker"}[1h])`,
			"sent", "A",
		)).
		WithTarget(PromQuery(
			`increase(price_tracker_alerts_suppressed_total{job="price-tracker"}[1h])`,
			"suppressed", "B",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine).
		Tooltip(MultiTooltip())
}

// NotificationFailures returns a timeseries panel showing failed email
// deliveries per hour.
func NotificationFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Notification Failures / h").
		Description("Failed email deliveries over the trailing hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`increase(price_tracker_notification_failures_total{job="price-tracker"}[1h])`,
			"failures", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine).
		Tooltip(MultiTooltip())
}
