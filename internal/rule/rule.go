// Package rule turns a transaction table and a set of thresholds into the
// association rules shown to the user.
package rule

import (
	"fmt"

	"github.com/wichananm65/assoc-rules/internal/mining"
)

const MessageNoRules = "No rules found with the selected parameters. Try reducing thresholds."

// Result is one generation run. It is recomputed on every request and never
// stored.
type Result struct {
	Params       Params        `json:"params"`
	Transactions int           `json:"transactions"`
	Itemsets     int           `json:"itemsets"`
	Rules        []mining.Rule `json:"-"`
}

// Empty reports whether no rule met the thresholds.
func (r Result) Empty() bool { return len(r.Rules) == 0 }

// Message is the status line shown above the results.
func (r Result) Message() string {
	if r.Empty() {
		return MessageNoRules
	}
	return fmt.Sprintf("Generated %d rules.", len(r.Rules))
}
