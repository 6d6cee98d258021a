package presenter

import (
	"math"
	"strconv"
	"strings"

	"github.com/wichananm65/assoc-rules/internal/mining"
)

// FormatItems joins item names for display.
func FormatItems(items []string) string {
	return strings.Join(items, ", ")
}

// RuleView is the JSON shape of a rule. Conviction is null when infinite.
type RuleView struct {
	Antecedents       string   `json:"antecedents"`
	Consequents       string   `json:"consequents"`
	AntecedentSupport float64  `json:"antecedentSupport"`
	ConsequentSupport float64  `json:"consequentSupport"`
	Support           float64  `json:"support"`
	Confidence        float64  `json:"confidence"`
	Lift              float64  `json:"lift"`
	Leverage          float64  `json:"leverage"`
	Conviction        *float64 `json:"conviction"`
}

func ToView(r mining.Rule) RuleView {
	v := RuleView{
		Antecedents:       FormatItems(r.Antecedents),
		Consequents:       FormatItems(r.Consequents),
		AntecedentSupport: r.AntecedentSupport,
		ConsequentSupport: r.ConsequentSupport,
		Support:           r.Support,
		Confidence:        r.Confidence,
		Lift:              r.Lift,
		Leverage:          r.Leverage,
	}
	if !math.IsInf(r.Conviction, 0) && !math.IsNaN(r.Conviction) {
		c := r.Conviction
		v.Conviction = &c
	}
	return v
}

func ToViews(rules []mining.Rule) []RuleView {
	out := make([]RuleView, 0, len(rules))
	for _, r := range rules {
		out = append(out, ToView(r))
	}
	return out
}

var ruleColumns = []Column{
	{Key: "antecedents", Label: "antecedents", Type: "text", Align: "left"},
	{Key: "consequents", Label: "consequents", Type: "text", Align: "left"},
	{Key: "support", Label: "support", Type: "number", Align: "right"},
	{Key: "confidence", Label: "confidence", Type: "number", Align: "right"},
	{Key: "lift", Label: "lift", Type: "number", Align: "right"},
}

// RulesTable lists antecedents, consequents, support, confidence and lift
// for every rule, in the given order.
func RulesTable(rules []mining.Rule) *TableData {
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{
			FormatItems(r.Antecedents),
			FormatItems(r.Consequents),
			FormatFloat(r.Support),
			FormatFloat(r.Confidence),
			FormatFloat(r.Lift),
		})
	}
	return &TableData{
		Title:   "Association Rules",
		Columns: ruleColumns,
		Rows:    rows,
	}
}

// PreviewTable shows the first rows of an uploaded dataset.
func PreviewTable(items []string, rows [][]string) *TableData {
	cols := make([]Column, 0, len(items))
	for _, it := range items {
		cols = append(cols, Column{Key: it, Label: it, Type: "text", Align: "center"})
	}
	return &TableData{Title: "Preview of Uploaded Data", Columns: cols, Rows: rows}
}

// FormatFloat prints v with up to six decimals and no trailing zeros.
func FormatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
