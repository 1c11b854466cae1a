package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hafoozi/price-tracker/tools/dashgen/dashboards"
	"github.com/hafoozi/price-tracker/tools/dashgen/rules"
	"github.com/hafoozi/price-tracker/tools/dashgen/validate"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_EmptyOutputDir(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "", DashboardEnabled: true}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NothingEnabled(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "/tmp", DashboardEnabled: false, RulesEnabled: false}
	assert.Error(t, cfg.Validate())
}

func TestBuildOverviewDashboard(t *testing.T) {
	t.Parallel()

	builder := dashboards.BuildOverview()
	dash, err := builder.Build()
	require.NoError(t, err)

	require.NotNil(t, dash.Uid)
	assert.Equal(t, "price-tracker-overview", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "Price Tracker Overview", *dash.Title)

	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	// Four rows: Overview, HTTP, Scraping, Alerts.
	assert.Len(t, dash.Panels, 4)

	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 13, totalPanels)

	result := validate.Dashboard(dash, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "price-tracker-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "price-tracker-recording", group.Name)
	require.Len(t, group.Rules, 4)

	expectedRecords := []string{
		"price_tracker:http_requests:rate5m",
		"price_tracker:http_errors:rate5m",
		"price_tracker:fetch_failures:rate5m",
		"price_tracker:extraction_misses:rate5m",
	}
	for i, rule := range group.Rules {
		assert.Equal(t, expectedRecords[i], rule.Record)
		assert.NotEmpty(t, rule.Expr)
	}

	result := validate.Exprs(ruleExprs(cr), KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)

	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "price-tracker-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "price-tracker-alerts", group.Name)
	require.Len(t, group.Rules, 6)

	expectedAlerts := []string{
		"TrackerDown",
		"TrackerHighErrorRate",
		"TrackerFetchFailures",
		"TrackerExtractionMisses",
		"TrackerStaleProducts",
		"TrackerNotificationFailures",
	}
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Expr)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}

	result := validate.Exprs(ruleExprs(cr), KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
}

func TestValidateCatchesUnknownMetric(t *testing.T) {
	t.Parallel()

	result := validate.Exprs([]string{`rate(price_tracker_renamed_total[5m])`}, KnownMetrics)
	require.False(t, result.Ok())
	assert.Contains(t, result.Errors[0], "price_tracker_renamed_total")
}

func TestValidateCatchesBadPromQL(t *testing.T) {
	t.Parallel()

	result := validate.Exprs([]string{`rate(price_tracker_http_requests_total[5m`}, KnownMetrics)
	require.False(t, result.Ok())
	assert.Contains(t, result.Errors[0], "invalid PromQL")
}
