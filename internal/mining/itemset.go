// Package mining finds frequent itemsets in a boolean transaction table and
// derives association rules from them.
package mining

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrInvalidSupport = errors.New("min support must be in (0, 1]")
	ErrRaggedTable    = errors.New("transactions have different widths")
	ErrItemMismatch   = errors.New("item names do not match table width")
)

// Itemset is a set of items that co-occur in at least MinSupport of the
// transactions. Items keep the column order of the source table.
type Itemset struct {
	Items   []string `json:"items"`
	Support float64  `json:"support"`

	cols []int
}

// Len returns the number of items in the set.
func (s Itemset) Len() int { return len(s.Items) }

type options struct {
	maxLen int
}

// Option tunes FrequentItemsets.
type Option func(*options)

// WithMaxLen caps the itemset size. Zero means unbounded.
func WithMaxLen(n int) Option {
	return func(o *options) { o.maxLen = n }
}

// bitset holds one bit per transaction.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) set(i int) { b[i/64] |= 1 << (uint(i) % 64) }

func (b bitset) and(o bitset) bitset {
	out := make(bitset, len(b))
	for i := range b {
		out[i] = b[i] & o[i]
	}
	return out
}

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

type candidate struct {
	cols []int
	tids bitset
}

// FrequentItemsets runs Apriori over tx. Each row of tx is one transaction and
// each column one item named by items. The result is ordered by itemset size,
// then by column positions.
func FrequentItemsets(tx [][]bool, items []string, minSupport float64, opts ...Option) ([]Itemset, error) {
	if minSupport <= 0 || minSupport > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSupport, minSupport)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	n := len(tx)
	if n == 0 {
		return []Itemset{}, nil
	}
	width := len(tx[0])
	for i, row := range tx {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedTable, i, len(row), width)
		}
	}
	if len(items) != width {
		return nil, fmt.Errorf("%w: %d names for %d columns", ErrItemMismatch, len(items), width)
	}

	total := float64(n)
	frequent := func(c candidate) (float64, bool) {
		s := float64(c.tids.count()) / total
		return s, s >= minSupport
	}

	var out []Itemset
	level := make([]candidate, 0, width)
	for col := 0; col < width; col++ {
		tids := newBitset(n)
		for row := range tx {
			if tx[row][col] {
				tids.set(row)
			}
		}
		c := candidate{cols: []int{col}, tids: tids}
		if s, ok := frequent(c); ok {
			level = append(level, c)
			out = append(out, newItemset(c.cols, items, s))
		}
	}

	for k := 2; len(level) > 1; k++ {
		if o.maxLen > 0 && k > o.maxLen {
			break
		}
		seen := make(map[string]struct{}, len(level))
		for _, c := range level {
			seen[colsKey(c.cols)] = struct{}{}
		}

		var next []candidate
		for i := 0; i < len(level); i++ {
			for j := i + 1; j < len(level); j++ {
				a, b := level[i].cols, level[j].cols
				if !samePrefix(a, b) {
					break
				}
				cols := append(append([]int{}, a...), b[len(b)-1])
				if !allSubsetsFrequent(cols, seen) {
					continue
				}
				c := candidate{cols: cols, tids: level[i].tids.and(level[j].tids)}
				if s, ok := frequent(c); ok {
					next = append(next, c)
					out = append(out, newItemset(cols, items, s))
				}
			}
		}
		level = next
	}

	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].cols) != len(out[j].cols) {
			return len(out[i].cols) < len(out[j].cols)
		}
		return lessCols(out[i].cols, out[j].cols)
	})
	return out, nil
}

func newItemset(cols []int, items []string, support float64) Itemset {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = items[c]
	}
	return Itemset{Items: names, Support: support, cols: cols}
}

// samePrefix reports whether a and b agree on everything but the last column.
// level is sorted, so once prefixes differ no later b can match.
func samePrefix(a, b []int) bool {
	for i := 0; i < len(a)-1; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allSubsetsFrequent(cols []int, seen map[string]struct{}) bool {
	if len(cols) <= 2 {
		return true
	}
	sub := make([]int, 0, len(cols)-1)
	for skip := range cols {
		sub = sub[:0]
		for i, c := range cols {
			if i != skip {
				sub = append(sub, c)
			}
		}
		if _, ok := seen[colsKey(sub)]; !ok {
			return false
		}
	}
	return true
}

func lessCols(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func colsKey(cols []int) string {
	var sb strings.Builder
	for i, c := range cols {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(c))
	}
	return sb.String()
}
