// Package presenter shapes mined rules for display: a rules table, two
// scatter plots and a top-rules bar chart, plus text renderers for the CLI.
// It never feeds anything back into rule generation.
package presenter

// ChartConfig is a render-ready chart description consumed by the page's
// charting script.
type ChartConfig struct {
	ChartType  string        `json:"chartType"` // "scatter", "bar"
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis"`
	YAxis      string        `json:"yAxis"`
	Horizontal bool          `json:"horizontal,omitempty"`
	Categories []string      `json:"categories,omitempty"`
	Series     []ChartSeries `json:"series"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
	LegendName string        `json:"legendName,omitempty"`
}

// ChartSeries is one coloured group of points.
type ChartSeries struct {
	Name  string       `json:"name"`
	Color string       `json:"color"`
	Data  []ChartPoint `json:"data"`
}

// ChartPoint is a single mark. Scatter plots use X and Y; bars use Label for
// the category and X for the bar length.
type ChartPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// Column describes one table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"` // "text", "number"
	Align string `json:"align"`
}

// TableData is a render-ready table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Charts groups the three rule charts.
type Charts struct {
	SupportConfidence *ChartConfig `json:"supportConfidence"`
	ConfidenceLift    *ChartConfig `json:"confidenceLift"`
	TopLift           *ChartConfig `json:"topLift"`
}

// Default color palette for chart series.
var defaultColors = []string{
	"#440154", "#3B528B", "#21918C", "#5EC962", "#FDE725",
	"#482878", "#2C728E", "#27AD81", "#AADC32", "#31688E",
}

func colorAt(i int) string { return defaultColors[i%len(defaultColors)] }
