// Package validate checks generated dashboards and rules for PromQL
// syntax errors and references to unknown metrics, so a renamed metric
// breaks the build instead of silently blanking a panel.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"
)

// Result collects validation findings.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation produced no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Dashboard validates every query expression in a built dashboard
// against the known metric set.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result

	raw, err := json.Marshal(dash)
	if err != nil {
		res.errorf("marshaling dashboard: %v", err)
		return res
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		res.errorf("decoding dashboard: %v", err)
		return res
	}

	exprs := collectExprs(doc)
	if len(exprs) == 0 {
		res.warnf("dashboard contains no query expressions")
	}
	for _, expr := range exprs {
		checkExpr(expr, known, &res)
	}
	return res
}

// Exprs validates a list of standalone PromQL expressions, as found in
// recording and alert rules.
func Exprs(exprs []string, known map[string]bool) Result {
	var res Result
	for _, expr := range exprs {
		checkExpr(expr, known, &res)
	}
	return res
}

// collectExprs walks the decoded JSON tree gathering every "expr" value.
func collectExprs(v any) []string {
	var exprs []string
	switch node := v.(type) {
	case map[string]any:
		for key, child := range node {
			if key == "expr" {
				if s, ok := child.(string); ok && s != "" {
					exprs = append(exprs, s)
					continue
				}
			}
			exprs = append(exprs, collectExprs(child)...)
		}
	case []any:
		for _, child := range node {
			exprs = append(exprs, collectExprs(child)...)
		}
	}
	return exprs
}

func checkExpr(expr string, known map[string]bool, res *Result) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("invalid PromQL %q: %v", expr, err)
		return
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok {
			return nil
		}
		name := vs.Name
		if name == "" {
			for _, m := range vs.LabelMatchers {
				if m.Name == "__name__" {
					name = m.Value
				}
			}
		}
		if name != "" && !known[name] {
			res.errorf("expression %q references unknown metric %q", expr, name)
		}
		return nil
	})
}
