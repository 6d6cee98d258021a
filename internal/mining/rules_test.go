package mining

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleKey(r Rule) string {
	return strings.Join(r.Antecedents, "") + "->" + strings.Join(r.Consequents, "")
}

func basketRules(t *testing.T, metric Metric, threshold float64) []Rule {
	t.Helper()
	tx, items := basket()
	sets, err := FrequentItemsets(tx, items, 0.1)
	require.NoError(t, err)
	rules, err := AssociationRules(sets, metric, threshold)
	require.NoError(t, err)
	return rules
}

func TestAssociationRules_AllRules(t *testing.T) {
	rules := basketRules(t, MetricSupport, 0)

	keys := make([]string, 0, len(rules))
	for _, r := range rules {
		keys = append(keys, ruleKey(r))
	}
	assert.Equal(t, []string{
		"A->B", "B->A",
		"A->C", "C->A",
		"B->C", "C->B",
		"AB->C", "AC->B", "BC->A",
		"A->BC", "B->AC", "C->AB",
	}, keys)
}

func TestAssociationRules_Metrics(t *testing.T) {
	rules := basketRules(t, MetricConfidence, 0)
	byKey := make(map[string]Rule, len(rules))
	for _, r := range rules {
		byKey[ruleKey(r)] = r
	}

	ab := byKey["A->B"]
	assert.InDelta(t, 0.8, ab.AntecedentSupport, 1e-9)
	assert.InDelta(t, 0.8, ab.ConsequentSupport, 1e-9)
	assert.InDelta(t, 0.6, ab.Support, 1e-9)
	assert.InDelta(t, 0.75, ab.Confidence, 1e-9)
	assert.InDelta(t, 0.9375, ab.Lift, 1e-9)
	assert.InDelta(t, -0.04, ab.Leverage, 1e-9)
	assert.InDelta(t, 0.8, ab.Conviction, 1e-9)

	cb := byKey["C->B"]
	assert.InDelta(t, 1.0, cb.Confidence, 1e-9)
	assert.InDelta(t, 1.25, cb.Lift, 1e-9)
	assert.True(t, math.IsInf(cb.Conviction, 1))

	acb := byKey["AC->B"]
	assert.Equal(t, []string{"A", "C"}, acb.Antecedents)
	assert.Equal(t, []string{"B"}, acb.Consequents)
	assert.InDelta(t, 1.25, acb.Lift, 1e-9)
}

func TestAssociationRules_ConfidenceThreshold(t *testing.T) {
	rules := basketRules(t, MetricConfidence, 0.5)

	for _, r := range rules {
		assert.GreaterOrEqual(t, r.Confidence, 0.5, ruleKey(r))
	}
	assert.Len(t, rules, 8)
}

func TestAssociationRules_LiftMetric(t *testing.T) {
	rules := basketRules(t, MetricLift, 1.1)

	for _, r := range rules {
		assert.Greater(t, r.Lift, 1.1)
	}
	assert.NotEmpty(t, rules)
}

func TestAssociationRules_UnknownMetric(t *testing.T) {
	_, err := AssociationRules(nil, Metric("zhang"), 0)
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestAssociationRules_SingletonsOnly(t *testing.T) {
	tx, items := basket()
	sets, err := FrequentItemsets(tx, items, 0.1, WithMaxLen(1))
	require.NoError(t, err)

	rules, err := AssociationRules(sets, MetricConfidence, 0)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestCombinations(t *testing.T) {
	var got [][]int
	combinations(4, 2, func(idx []int) bool {
		got = append(got, append([]int{}, idx...))
		return true
	})
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, got)
}
