package mining

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownMetric = errors.New("unknown rule metric")

// Metric names a rule measure used as the derivation threshold.
type Metric string

const (
	MetricSupport    Metric = "support"
	MetricConfidence Metric = "confidence"
	MetricLift       Metric = "lift"
	MetricLeverage   Metric = "leverage"
	MetricConviction Metric = "conviction"
)

// Rule is an association rule Antecedents -> Consequents.
type Rule struct {
	Antecedents       []string `json:"antecedents"`
	Consequents       []string `json:"consequents"`
	AntecedentSupport float64  `json:"antecedentSupport"`
	ConsequentSupport float64  `json:"consequentSupport"`
	Support           float64  `json:"support"`
	Confidence        float64  `json:"confidence"`
	Lift              float64  `json:"lift"`
	Leverage          float64  `json:"leverage"`
	// Conviction is +Inf when Confidence is 1.
	Conviction float64 `json:"-"`
}

// Value returns the rule's value for m.
func (r Rule) Value(m Metric) (float64, error) {
	switch m {
	case MetricSupport:
		return r.Support, nil
	case MetricConfidence:
		return r.Confidence, nil
	case MetricLift:
		return r.Lift, nil
	case MetricLeverage:
		return r.Leverage, nil
	case MetricConviction:
		return r.Conviction, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, m)
}

// AssociationRules derives every rule A -> C from sets where A and C split a
// frequent itemset, and keeps those whose metric is at least minThreshold.
// sets must be downward closed, which FrequentItemsets guarantees.
//
// For each itemset, antecedents are enumerated from the largest size down to
// one, in column order within a size.
func AssociationRules(sets []Itemset, metric Metric, minThreshold float64) ([]Rule, error) {
	if _, err := (Rule{}).Value(metric); err != nil {
		return nil, err
	}

	support := make(map[string]float64, len(sets))
	for _, s := range sets {
		support[colsKey(s.cols)] = s.Support
	}
	lookup := func(set Itemset, cols []int) (float64, error) {
		v, ok := support[colsKey(cols)]
		if !ok {
			return 0, fmt.Errorf("subset %v of itemset %v is not frequent", cols, set.Items)
		}
		return v, nil
	}

	rules := make([]Rule, 0)
	for _, set := range sets {
		k := len(set.cols)
		if k < 2 {
			continue
		}
		for size := k - 1; size >= 1; size-- {
			var err error
			combinations(k, size, func(pick []int) bool {
				ante, cons := split(set.cols, pick)
				var sa, sc float64
				if sa, err = lookup(set, ante); err != nil {
					return false
				}
				if sc, err = lookup(set, cons); err != nil {
					return false
				}
				r := newRule(set, ante, cons, sa, sc)
				v, _ := r.Value(metric)
				if v >= minThreshold {
					rules = append(rules, r)
				}
				return true
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return rules, nil
}

func newRule(set Itemset, ante, cons []int, sa, sc float64) Rule {
	name := make(map[int]string, len(set.cols))
	for i, c := range set.cols {
		name[c] = set.Items[i]
	}
	names := func(cols []int) []string {
		out := make([]string, len(cols))
		for i, c := range cols {
			out[i] = name[c]
		}
		return out
	}

	s := set.Support
	conf := s / sa
	conviction := math.Inf(1)
	if conf < 1 {
		conviction = (1 - sc) / (1 - conf)
	}
	return Rule{
		Antecedents:       names(ante),
		Consequents:       names(cons),
		AntecedentSupport: sa,
		ConsequentSupport: sc,
		Support:           s,
		Confidence:        conf,
		Lift:              conf / sc,
		Leverage:          s - sa*sc,
		Conviction:        conviction,
	}
}

// split partitions cols into the positions listed in pick and the rest.
func split(cols, pick []int) (in, out []int) {
	j := 0
	for i, c := range cols {
		if j < len(pick) && pick[j] == i {
			in = append(in, c)
			j++
			continue
		}
		out = append(out, c)
	}
	return in, out
}

// combinations calls fn with every size-r subset of [0,n) in lexicographic
// order until fn returns false.
func combinations(n, r int, fn func([]int) bool) {
	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	for {
		if !fn(idx) {
			return
		}
		i := r - 1
		for i >= 0 && idx[i] == n-r+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < r; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
