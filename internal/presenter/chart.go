package presenter

import (
	"sort"

	"github.com/wichananm65/assoc-rules/internal/mining"
)

// TopN is how many rules the lift bar chart shows.
const TopN = 10

// BuildCharts produces the three rule charts. Nil rules give empty charts.
func BuildCharts(rules []mining.Rule) Charts {
	return Charts{
		SupportConfidence: SupportConfidenceScatter(rules),
		ConfidenceLift:    ConfidenceLiftScatter(rules),
		TopLift:           TopLiftBar(rules, TopN),
	}
}

// SupportConfidenceScatter plots support against confidence, one mark per rule.
func SupportConfidenceScatter(rules []mining.Rule) *ChartConfig {
	return scatter("Support vs. Confidence", "Support", "Confidence", rules,
		func(r mining.Rule) (float64, float64) { return r.Support, r.Confidence })
}

// ConfidenceLiftScatter plots confidence against lift, one mark per rule.
func ConfidenceLiftScatter(rules []mining.Rule) *ChartConfig {
	return scatter("Lift vs. Confidence", "Confidence", "Lift", rules,
		func(r mining.Rule) (float64, float64) { return r.Confidence, r.Lift })
}

func scatter(title, x, y string, rules []mining.Rule, xy func(mining.Rule) (float64, float64)) *ChartConfig {
	points := make([]ChartPoint, 0, len(rules))
	for _, r := range rules {
		px, py := xy(r)
		points = append(points, ChartPoint{
			X:     px,
			Y:     py,
			Label: FormatItems(r.Antecedents) + " → " + FormatItems(r.Consequents),
		})
	}
	return &ChartConfig{
		ChartType: "scatter",
		Title:     title,
		XAxis:     x,
		YAxis:     y,
		Series:    []ChartSeries{{Name: "Rules", Color: colorAt(1), Data: points}},
		ShowGrid:  true,
	}
}

// TopRulesByLift returns at most n rules ordered by descending lift. Rules
// with equal lift keep their original order.
func TopRulesByLift(rules []mining.Rule, n int) []mining.Rule {
	sorted := make([]mining.Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Lift > sorted[j].Lift })
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// TopLiftBar draws the top n rules by lift as horizontal bars labelled by
// antecedents, with one series (and colour) per consequent.
func TopLiftBar(rules []mining.Rule, n int) *ChartConfig {
	top := TopRulesByLift(rules, n)

	config := &ChartConfig{
		ChartType:  "bar",
		Title:      "Top 10 Association Rules by Lift",
		XAxis:      "Lift",
		YAxis:      "Antecedents",
		Horizontal: true,
		Categories: make([]string, 0, len(top)),
		Series:     []ChartSeries{},
		ShowLegend: true,
		ShowGrid:   true,
		LegendName: "Consequents",
	}

	index := map[string]int{}
	seenCat := map[string]bool{}
	for _, r := range top {
		ante := FormatItems(r.Antecedents)
		cons := FormatItems(r.Consequents)
		if !seenCat[ante] {
			seenCat[ante] = true
			config.Categories = append(config.Categories, ante)
		}
		i, ok := index[cons]
		if !ok {
			i = len(config.Series)
			index[cons] = i
			config.Series = append(config.Series, ChartSeries{Name: cons, Color: colorAt(i)})
		}
		config.Series[i].Data = append(config.Series[i].Data, ChartPoint{X: r.Lift, Label: ante})
	}
	return config
}
