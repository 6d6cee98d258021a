package dataset

import (
	"strconv"
	"strings"
	"time"
)

// PreviewRows is how many rows Head returns by default.
const PreviewRows = 5

// Dataset is an uploaded transaction table. Each row is a transaction and
// each column an item; cells are kept as the raw CSV text.
type Dataset struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Items      []string   `json:"items"`
	Rows       [][]string `json:"rows,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	AccessedAt time.Time  `json:"accessedAt"` // last upload or read; idle datasets are purged
}

// Len returns the number of transactions.
func (d *Dataset) Len() int { return len(d.Rows) }

// Head returns the first n rows.
func (d *Dataset) Head(n int) [][]string {
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	out := make([][]string, n)
	copy(out, d.Rows[:n])
	return out
}

// Transactions casts every cell to item presence. Numbers are present when
// non-zero, boolean literals as written, empty cells are absent and any other
// text is present.
func (d *Dataset) Transactions() [][]bool {
	tx := make([][]bool, len(d.Rows))
	for i, row := range d.Rows {
		tx[i] = make([]bool, len(d.Items))
		for j := range d.Items {
			if j < len(row) {
				tx[i][j] = present(row[j])
			}
		}
	}
	return tx
}

func present(cell string) bool {
	v := strings.TrimSpace(cell)
	if v == "" {
		return false
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f != 0
	}
	if b, ok := parseBool(v); ok {
		return b
	}
	return true
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
