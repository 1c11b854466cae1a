package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FetchFailures returns a timeseries panel showing failed page fetches
// per minute.
func FetchFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Fetch Failures / min").
		Description("Rate of failed page fetches per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`price_tracker:fetch_failures:rate5m * 60`, "failures/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine).
		Tooltip(MultiTooltip())
}

// ExtractionMisses returns a timeseries panel showing pages with no
// extractable price per minute.
func ExtractionMisses() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Extraction Misses / min").
		Description("Rate of pages where no price could be extracted").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`price_tracker:extraction_misses:rate5m * 60`, "misses/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine).
		Tooltip(MultiTooltip())
}

// RunDuration returns a timeseries panel showing the p95 pass duration.
func RunDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Run Duration (p95)").
		Description("95th percentile duration of a full tracker pass").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(price_tracker_run_duration_seconds_bucket{job="price-tracker"}[1h])) by (le))`,
			"p95", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine).
		Tooltip(MultiTooltip())
}
