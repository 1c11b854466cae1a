package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// price-tracker operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "price-tracker-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "price-tracker-alerts",
					Rules: []Rule{
						{
							Alert: "TrackerDown",
							Expr:  `absent(up{job="price-tracker"})`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Price tracker is down",
								"description": "The price-tracker job has been absent for more than 10 minutes.",
							},
						},
						{
							Alert: "TrackerHighErrorRate",
							Expr:  `price_tracker:http_errors:rate5m / price_tracker:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on the status server",
								"description": "More than 5% of status server requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "TrackerFetchFailures",
							Expr:  `price_tracker:fetch_failures:rate5m > 0`,
							For:   "30m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Page fetches are failing",
								"description": "Retailer page fetches have been failing for more than 30 minutes; a retailer may be blocking both client identities.",
							},
						},
						{
							Alert: "TrackerExtractionMisses",
							Expr:  `price_tracker:extraction_misses:rate5m > 0`,
							For:   "30m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Price extraction is missing",
								"description": "Pages have been yielding no extractable price for more than 30 minutes; a retailer may have changed its markup.",
							},
						},
						{
							Alert: "TrackerStaleProducts",
							Expr:  `price_tracker_stale_products > 0`,
							For:   "1h",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Products have stale price data",
								"description": "One or more products have had no fresh history row for over the staleness threshold.",
							},
						},
						{
							Alert: "TrackerNotificationFailures",
							Expr:  `increase(price_tracker_notification_failures_total[15m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more alert emails have failed to send via SMTP.",
							},
						},
					},
				},
			},
		},
	}
}
