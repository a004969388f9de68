package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborian/stratadb/datalog"
	"github.com/arborian/stratadb/datalog/store"
)

func expr(pred string, negated bool, terms ...datalog.Term) datalog.Expression {
	return datalog.NewExpression(pred, terms, negated)
}

func TestUnifyBindsVariables(t *testing.T) {
	goal := expr("parent", false, "X", "Y")
	fact := expr("parent", false, "alice", "bob")
	scope, ok := Unify(goal, fact, datalog.NewBindings())
	require.True(t, ok)
	x, _ := scope.Get("X")
	y, _ := scope.Get("Y")
	assert.Equal(t, datalog.Term("alice"), x)
	assert.Equal(t, datalog.Term("bob"), y)
}

func TestUnifyRejectsArityOrPredicateMismatch(t *testing.T) {
	_, ok := Unify(expr("parent", false, "X"), expr("parent", false, "alice", "bob"), datalog.NewBindings())
	assert.False(t, ok)
	_, ok = Unify(expr("parent", false, "X", "Y"), expr("friend", false, "alice", "bob"), datalog.NewBindings())
	assert.False(t, ok)
}

func TestUnifyRejectsConflictingRebinding(t *testing.T) {
	b := datalog.NewBindings()
	b.Insert("X", "alice")
	_, ok := Unify(expr("parent", false, "X", "Y"), expr("parent", false, "bob", "carol"), b)
	assert.False(t, ok)
}

func TestReorderGoalsKeepsEqualityPinnedAtOriginalIndex(t *testing.T) {
	goals := []datalog.Expression{
		expr("=", false, "A", "1"),
		expr("not_friend", true, "A"),
		expr("person", false, "A"),
	}
	out := ReorderGoals(goals)
	assert.Equal(t, "=", out[0].Predicate, "equality stays pinned at its original index")
	assert.Equal(t, "person", out[1].Predicate, "positive non-built-in goals come before negated ones")
	assert.Equal(t, "not_friend", out[2].Predicate)
}

func newFactStore(t *testing.T, facts ...datalog.Expression) store.Store {
	t.Helper()
	s := store.NewMemoryStore()
	_, err := s.AddAll(facts)
	require.NoError(t, err)
	return s
}

func TestMatchGoalsPositiveConjunction(t *testing.T) {
	facts := newFactStore(t,
		expr("parent", false, "a", "aa"),
		expr("parent", false, "aa", "aaa"),
	)
	goals := []datalog.Expression{
		expr("parent", false, "X", "Y"),
		expr("parent", false, "Y", "Z"),
	}
	results, err := MatchGoals(goals, facts, datalog.NewBindings())
	require.NoError(t, err)
	require.Len(t, results, 1)
	flat := results[0].Flatten()
	assert.Equal(t, datalog.Term("a"), flat["X"])
	assert.Equal(t, datalog.Term("aa"), flat["Y"])
	assert.Equal(t, datalog.Term("aaa"), flat["Z"])
}

func TestMatchGoalsNegationFailsWhenFactExists(t *testing.T) {
	facts := newFactStore(t,
		expr("person", false, "alice"),
		expr("married", false, "alice"),
	)
	goals := []datalog.Expression{
		expr("person", false, "X"),
		expr("married", true, "X"),
	}
	results, err := MatchGoals(goals, facts, datalog.NewBindings())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchGoalsNegationSucceedsWhenFactAbsent(t *testing.T) {
	facts := newFactStore(t,
		expr("person", false, "alice"),
	)
	goals := []datalog.Expression{
		expr("person", false, "X"),
		expr("married", true, "X"),
	}
	results, err := MatchGoals(goals, facts, datalog.NewBindings())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, datalog.Term("alice"), results[0].Flatten()["X"])
}

func TestMatchGoalsBuiltInFilter(t *testing.T) {
	facts := newFactStore(t,
		expr("parent", false, "p", "a"),
		expr("parent", false, "p", "b"),
	)
	goals := []datalog.Expression{
		expr("parent", false, "P", "A"),
		expr("parent", false, "P", "B"),
		expr("<>", false, "A", "B"),
	}
	results, err := MatchGoals(goals, facts, datalog.NewBindings())
	require.NoError(t, err)
	for _, r := range results {
		flat := r.Flatten()
		assert.NotEqual(t, flat["A"], flat["B"])
	}
	assert.Len(t, results, 2, "sibling pairs (a,b) and (b,a), self-pairs excluded by <>")
}
