// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/hafoozi/price-tracker/tools/dashgen/panels"
)

// BuildOverview constructs the Price Tracker Overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Price Tracker Overview").
		Uid("price-tracker-overview").
		Tags([]string{"price-tracker"}).
		Refresh("30s").
		Time("now-24h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.UptimeStat()).
		WithPanel(panels.StaleProductsStat()).
		WithPanel(panels.ChecksTodayStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Scraping.
	b.WithRow(dashboard.NewRowBuilder("Scraping").
		WithPanel(panels.FetchFailures()).
		WithPanel(panels.ExtractionMisses()).
		WithPanel(panels.RunDuration()))

	// Row 4: Alerts.
	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.PriceDrops()).
		WithPanel(panels.AlertDelivery()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
