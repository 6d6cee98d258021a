package dataset

import (
	"strconv"
	"strings"
)

const (
	LevelSuccess = "success"
	LevelWarning = "warning"

	MessageBinary    = "Data is correctly formatted as binary transactional data."
	MessageNonBinary = "Warning: Non-binary values found! Check your dataset."

	maxIssues = 10
)

// CellIssue points at a cell that is not 0/1.
type CellIssue struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Validation reports whether a dataset is binary. It never blocks processing.
type Validation struct {
	Binary         bool        `json:"binary"`
	NonBinaryCells int         `json:"nonBinaryCells"`
	Issues         []CellIssue `json:"issues,omitempty"`
	Level          string      `json:"level"`
	Message        string      `json:"message"`
}

// Validate checks that every cell of d is 0, 1 or a boolean literal.
func Validate(d *Dataset) Validation {
	v := Validation{}
	for i, row := range d.Rows {
		for j, cell := range row {
			if isBinary(cell) {
				continue
			}
			v.NonBinaryCells++
			if len(v.Issues) < maxIssues {
				col := ""
				if j < len(d.Items) {
					col = d.Items[j]
				}
				v.Issues = append(v.Issues, CellIssue{Row: i, Column: col, Value: cell})
			}
		}
	}

	v.Binary = v.NonBinaryCells == 0
	if v.Binary {
		v.Level, v.Message = LevelSuccess, MessageBinary
	} else {
		v.Level, v.Message = LevelWarning, MessageNonBinary
	}
	return v
}

func isBinary(cell string) bool {
	v := strings.TrimSpace(cell)
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f == 0 || f == 1
	}
	_, ok := parseBool(v)
	return ok
}
