package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	domain "github.com/hafoozi/price-tracker/pkg/types"
)

// Email bodies are self-contained HTML with inline styles; most mail
// clients strip stylesheets.

var dropTmpl = template.Must(template.New("drop").Parse(`<html><body style='font-family:Arial,sans-serif'>
<h2 style='color:#2c3e50'>💰 Price Drop Alert</h2>
<table style='border-collapse:collapse;width:100%'>
  <thead><tr style='background:#2c3e50;color:white'>
    <th style='padding:8px'>Product</th><th style='padding:8px'>Old</th>
    <th style='padding:8px'>New</th><th style='padding:8px'>Savings</th><th style='padding:8px'>Link</th>
  </tr></thead>
  <tbody>
  {{- range .Events}}
  <tr>
    <td style='padding:8px;border:1px solid #ddd'>{{.Name}}</td>
    <td style='padding:8px;border:1px solid #ddd;color:#888;text-decoration:line-through'>${{printf "%.2f" .OldPrice}}</td>
    <td style='padding:8px;border:1px solid #ddd;color:#2ecc71;font-weight:bold'>${{printf "%.2f" .NewPrice}}</td>
    <td style='padding:8px;border:1px solid #ddd;color:#e74c3c'>-${{printf "%.2f" .Drop}} ({{printf "%.1f" .DropPct}}%)</td>
    <td style='padding:8px;border:1px solid #ddd'><a href='{{.URL}}'>View</a></td>
  </tr>
  {{- end}}
  </tbody>
</table>
<p style='color:#888;font-size:12px;margin-top:20px'>Checked on {{.CheckedAt}}</p>
</body></html>
`))

var staleTmpl = template.Must(template.New("stale").Parse(`<html><body style='font-family:Arial,sans-serif'>
<h2 style='color:#e74c3c'>⚠️ Stale Price Data Detected</h2>
<p>The following products have not been updated in over <strong>{{.Hours}} hours</strong>,
which may indicate a scraper failure:</p>
<ul style='line-height:1.8'>
{{- range .Products}}
  <li style='padding:4px 0'>{{.}}</li>
{{- end}}
</ul>
<p>Check the tracker logs for errors.</p>
<p style='color:#888;font-size:12px;margin-top:20px'>Checked on {{.CheckedAt}}</p>
</body></html>
`))

var weeklyTmpl = template.Must(template.New("weekly").Parse(`<html><body style='font-family:Arial,sans-serif'>
<h2 style='color:#2c3e50'>📊 Weekly Price Summary</h2>
<table style='border-collapse:collapse;width:100%'>
  <thead><tr style='background:#2c3e50;color:white'>
    <th style='padding:8px;text-align:left'>Product</th>
    <th style='padding:8px;text-align:left'>Current</th>
    <th style='padding:8px;text-align:left'>vs Last Week</th>
  </tr></thead>
  <tbody>
  {{- range .Rows}}
  <tr>
    <td style='padding:8px;border:1px solid #ddd'>{{.Name}}</td>
    <td style='padding:8px;border:1px solid #ddd;font-weight:bold'>{{.Current}}</td>
    <td style='padding:8px;border:1px solid #ddd'>{{.Change}}</td>
  </tr>
  {{- end}}
  </tbody>
</table>
<p style='color:#888;font-size:12px;margin-top:20px'>{{.CheckedAt}} · Tracker running normally ✅</p>
</body></html>
`))

const footerTimeFormat = "January 2, 2006 at 3:04 PM"

func renderDropAlert(events []domain.PriceDropEvent, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	err := dropTmpl.Execute(&buf, struct {
		Events    []domain.PriceDropEvent
		CheckedAt string
	}{events, now.Format(footerTimeFormat)})
	return buf.Bytes(), err
}

func renderStaleness(products []string, hours int, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	err := staleTmpl.Execute(&buf, struct {
		Products  []string
		Hours     int
		CheckedAt string
	}{products, hours, now.Format(footerTimeFormat)})
	return buf.Bytes(), err
}

// weeklyDisplayRow is a WeeklyRow with its change column pre-rendered;
// the direction arrow and color depend on comparisons the template
// language is the wrong place for.
type weeklyDisplayRow struct {
	Name    string
	Current template.HTML
	Change  template.HTML
}

func renderWeeklySummary(rows []WeeklyRow, now time.Time) ([]byte, error) {
	display := make([]weeklyDisplayRow, 0, len(rows))
	for _, r := range rows {
		display = append(display, weeklyDisplayRow{
			Name:    r.Name,
			Current: currentCell(r.Current),
			Change:  changeCell(r.Current, r.LastWeek),
		})
	}

	var buf bytes.Buffer
	err := weeklyTmpl.Execute(&buf, struct {
		Rows      []weeklyDisplayRow
		CheckedAt string
	}{display, now.Format(footerTimeFormat)})
	return buf.Bytes(), err
}

func currentCell(current *float64) template.HTML {
	if current == nil {
		return "<em>unavailable</em>"
	}
	return template.HTML(fmt.Sprintf("$%.2f", *current)) //nolint:gosec // numeric formatting only
}

func changeCell(current, lastWeek *float64) template.HTML {
	switch {
	case current == nil:
		return "—"
	case lastWeek == nil:
		return "<span style='color:#888'>No history</span>"
	case *current < *lastWeek:
		d := *lastWeek - *current
		return template.HTML(fmt.Sprintf( //nolint:gosec // numeric formatting only
			"<span style='color:#2ecc71'>▼ $%.2f (%.1f%%)</span>", d, d / *lastWeek * 100))
	case *current > *lastWeek:
		d := *current - *lastWeek
		return template.HTML(fmt.Sprintf( //nolint:gosec // numeric formatting only
			"<span style='color:#e74c3c'>▲ $%.2f (%.1f%%)</span>", d, d / *lastWeek * 100))
	default:
		return "<span style='color:#888'>No change</span>"
	}
}
