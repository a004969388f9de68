package strata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborian/stratadb/datalog"
	"github.com/arborian/stratadb/datalog/dlerrors"
)

func expr(pred string, negated bool, terms ...datalog.Term) datalog.Expression {
	return datalog.NewExpression(pred, terms, negated)
}

func TestStratifyPositiveRecursionStaysInOneStratum(t *testing.T) {
	rules := []datalog.Rule{
		{Head: expr("ancestor", false, "X", "Y"), Body: []datalog.Expression{expr("parent", false, "X", "Y")}},
		{Head: expr("ancestor", false, "X", "Y"), Body: []datalog.Expression{
			expr("parent", false, "X", "Z"), expr("ancestor", false, "Z", "Y"),
		}},
	}
	strataOut, err := Stratify(rules, false)
	require.NoError(t, err)
	require.Len(t, strataOut, 1)
	assert.Len(t, strataOut[0], 2)
}

func TestStratifyNegationMovesToLaterStratum(t *testing.T) {
	rules := []datalog.Rule{
		{Head: expr("p", false, "X"), Body: []datalog.Expression{
			expr("q", false, "X"), expr("r", true, "X"),
		}},
	}
	strataOut, err := Stratify(rules, false)
	require.NoError(t, err)
	require.Len(t, strataOut, 2)
	assert.Empty(t, strataOut[0], "stratum 0 has no rule head, q/r are EDB predicates")
	require.Len(t, strataOut[1], 1)
	assert.Equal(t, "p", strataOut[1][0].Head.Predicate)
}

func TestStratifyAppendsSentinelStratum(t *testing.T) {
	rules := []datalog.Rule{
		{Head: expr("p", false, "X"), Body: []datalog.Expression{expr("q", false, "X")}},
	}
	strataOut, err := Stratify(rules, true)
	require.NoError(t, err)
	require.Len(t, strataOut, 2)
	assert.Equal(t, rules, strataOut[len(strataOut)-1])
}

// S6 — negative recursion rejected.
func TestStratifyRejectsNegativeRecursion(t *testing.T) {
	rules := []datalog.Rule{
		{Head: expr("p", false, "X"), Body: []datalog.Expression{expr("q", true, "X"), expr("r", false, "X")}},
		{Head: expr("q", false, "X"), Body: []datalog.Expression{expr("p", true, "X"), expr("r", false, "X")}},
	}
	_, err := Stratify(rules, false)
	require.Error(t, err)
	var nr *dlerrors.NegativeRecursion
	assert.ErrorAs(t, err, &nr)
}

func TestStratifyAllowsMutualPositiveRecursion(t *testing.T) {
	rules := []datalog.Rule{
		{Head: expr("even", false, "X"), Body: []datalog.Expression{expr("zero", false, "X")}},
		{Head: expr("even", false, "X"), Body: []datalog.Expression{expr("succ", false, "X", "Y"), expr("odd", false, "Y")}},
		{Head: expr("odd", false, "X"), Body: []datalog.Expression{expr("succ", false, "X", "Y"), expr("even", false, "Y")}},
	}
	_, err := Stratify(rules, false)
	assert.NoError(t, err)
}
