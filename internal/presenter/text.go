package presenter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Text output formats accepted by RenderTable.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

// RenderTable writes t to w in the requested format.
func RenderTable(w io.Writer, t *TableData, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, t)
	case FormatCSV, FormatMarkdown, "markdown", FormatTable, "":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if len(t.Rows) == 0 && (format == FormatTable || format == "") {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Label
	}
	tw.AppendHeader(header)

	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		tw.AppendRow(row)
	}

	switch format {
	case FormatCSV:
		tw.RenderCSV()
	case FormatMarkdown, "markdown":
		tw.RenderMarkdown()
	default:
		tw.Render()
		_, _ = fmt.Fprintf(w, "(%d rows)\n", len(t.Rows))
	}
	return nil
}

// Records returns the rows of t keyed by column.
func Records(t *TableData) []map[string]string {
	rows := make([]map[string]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		m := make(map[string]string, len(t.Columns))
		for i, c := range t.Columns {
			if i < len(r) {
				m[c.Key] = r[i]
			}
		}
		rows = append(rows, m)
	}
	return rows
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderJSON(w io.Writer, t *TableData) error {
	return WriteJSON(w, Records(t))
}
