package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborian/stratadb/datalog"
	"github.com/arborian/stratadb/datalog/observe"
	"github.com/arborian/stratadb/datalog/strata"
	"github.com/arborian/stratadb/datalog/store"
)

func expr(pred string, negated bool, terms ...datalog.Term) datalog.Expression {
	return datalog.NewExpression(pred, terms, negated)
}

func ancestryRules() []datalog.Rule {
	return []datalog.Rule{
		{Head: expr("ancestor", false, "X", "Y"), Body: []datalog.Expression{expr("parent", false, "X", "Y")}},
		{Head: expr("ancestor", false, "X", "Y"), Body: []datalog.Expression{
			expr("parent", false, "X", "Z"), expr("ancestor", false, "Z", "Y"),
		}},
	}
}

func ancestryFacts() []datalog.Expression {
	return []datalog.Expression{
		expr("parent", false, "a", "aa"),
		expr("parent", false, "a", "ab"),
		expr("parent", false, "aa", "aaa"),
		expr("parent", false, "aa", "aab"),
		expr("parent", false, "aaa", "aaaa"),
	}
}

func TestExpandStratumComputesTransitiveClosure(t *testing.T) {
	facts := store.NewMemoryStore()
	_, err := facts.AddAll(ancestryFacts())
	require.NoError(t, err)

	require.NoError(t, ExpandStratum(ancestryRules(), facts, nil))

	all, err := store.Facts(facts, "ancestor")
	require.NoError(t, err)
	assert.Len(t, all, 9, "5 direct parent edges plus 4 transitive ancestor edges")
}

func TestExpandStratumEmitsRuleFired(t *testing.T) {
	facts := store.NewMemoryStore()
	_, err := facts.AddAll(ancestryFacts())
	require.NoError(t, err)

	var fired []string
	handler := func(e observe.Event) {
		if e.Name == observe.RuleFired {
			fired = append(fired, e.Data["head"].(string))
		}
	}

	require.NoError(t, ExpandStratum(ancestryRules(), facts, handler))
	assert.Contains(t, fired, "ancestor")
}

func TestQueryPrunesIrrelevantRules(t *testing.T) {
	facts := store.NewMemoryStore()
	_, err := facts.AddAll(ancestryFacts())
	require.NoError(t, err)
	_, err = facts.Add(expr("unrelated", false, "x"))
	require.NoError(t, err)

	rules := append(ancestryRules(), datalog.Rule{
		Head: expr("noise", false, "X"), Body: []datalog.Expression{expr("unrelated", false, "X")},
	})
	strataOut, err := strata.Stratify(rules, false)
	require.NoError(t, err)

	goals := []datalog.Expression{expr("ancestor", false, "aa", "X")}
	answers, err := Query(goals, nil, facts, rules, strataOut, nil)
	require.NoError(t, err)

	var xs []datalog.Term
	for _, a := range answers {
		xs = append(xs, a["X"])
	}
	assert.ElementsMatch(t, []datalog.Term{"aaa", "aab", "aaaa"}, xs)
}

func TestDeleteRemovesFactsMatchingConjunction(t *testing.T) {
	facts := store.NewMemoryStore()
	_, err := facts.AddAll(ancestryFacts())
	require.NoError(t, err)

	rules := ancestryRules()
	strataOut, err := strata.Stratify(rules, false)
	require.NoError(t, err)

	goals := []datalog.Expression{
		expr("parent", false, "aa", "X"),
		expr("parent", false, "X", "aaaa"),
	}
	removed, err := Delete(goals, nil, facts, rules, strataOut, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	remaining, err := facts.All()
	require.NoError(t, err)
	for _, f := range remaining {
		assert.False(t, f.Predicate == "parent" && f.Terms[0] == "aa" && f.Terms[1] == "aaa")
		assert.False(t, f.Predicate == "parent" && f.Terms[0] == "aaa" && f.Terms[1] == "aaaa")
	}
}
