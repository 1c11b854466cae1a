package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "price-tracker-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "price-tracker-recording",
					Rules: []Rule{
						{
							Record: "price_tracker:http_requests:rate5m",
							Expr:   `sum(rate(price_tracker_http_requests_total[5m]))`,
						},
						{
							Record: "price_tracker:http_errors:rate5m",
							Expr:   `sum(rate(price_tracker_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "price_tracker:fetch_failures:rate5m",
							Expr:   `rate(price_tracker_fetch_failures_total[5m])`,
						},
						{
							Record: "price_tracker:extraction_misses:rate5m",
							Expr:   `rate(price_tracker_extraction_misses_total[5m])`,
						},
					},
				},
			},
		},
	}
}
