package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate returns a timeseries panel showing status server requests
// per second.
func RequestRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Request Rate").
		Description("Status server requests per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`price_tracker:http_requests:rate5m`, "req/s", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine).
		Tooltip(MultiTooltip())
}

// LatencyPercentiles returns a timeseries panel showing p50/p95/p99
// request latency.
func LatencyPercentiles() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Latency Percentiles").
		Description("Status server request latency").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(price_tracker_http_request_duration_seconds_bucket{job="price-tracker"}[5m])) by (le))`,
			"p50", "A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(price_tracker_http_request_duration_seconds_bucket{job="price-tracker"}[5m])) by (le))`,
			"p95", "B",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.99, sum(rate(price_tracker_http_request_duration_seconds_bucket{job="price-tracker"}[5m])) by (le))`,
			"p99", "C",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine).
		Tooltip(MultiTooltip())
}

// ErrorRate returns a timeseries panel showing the 5xx ratio.
func ErrorRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Error Rate").
		Description("Fraction of requests returning 5xx").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`price_tracker:http_errors:rate5m / price_tracker:http_requests:rate5m`,
			"error ratio", "A",
		)).
		Unit("percentunit").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.01, 0.05)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine).
		Tooltip(MultiTooltip())
}
