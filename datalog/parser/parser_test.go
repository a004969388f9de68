package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborian/stratadb/datalog"
)

func TestParseFact(t *testing.T) {
	stmts, err := Parse(`parent(alice, bob).`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	s := stmts[0]
	assert.Equal(t, KindFact, s.Kind)
	assert.Equal(t, "parent", s.Fact.Predicate)
	assert.Equal(t, []datalog.Term{"alice", "bob"}, s.Fact.Terms)
	assert.False(t, s.Fact.Negated)
}

func TestParseZeroArityAtom(t *testing.T) {
	stmts, err := Parse(`sunny.`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "sunny", stmts[0].Fact.Predicate)
	assert.Empty(t, stmts[0].Fact.Terms)
}

func TestParseRule(t *testing.T) {
	stmts, err := Parse(`grandparent(X, Z) :- parent(X, Y), parent(Y, Z).`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	s := stmts[0]
	require.Equal(t, KindRule, s.Kind)
	assert.Equal(t, "grandparent", s.Rule.Head.Predicate)
	require.Len(t, s.Rule.Body, 2)
	assert.Equal(t, "parent", s.Rule.Body[0].Predicate)
	assert.Equal(t, "parent", s.Rule.Body[1].Predicate)
}

func TestParseRuleWithNegationAndBuiltIn(t *testing.T) {
	stmts, err := Parse(`single(X) :- person(X), not married(X), X <> "nobody".`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	body := stmts[0].Rule.Body
	require.Len(t, body, 3)
	assert.False(t, body[0].Negated)
	assert.True(t, body[1].Negated)
	assert.Equal(t, "married", body[1].Predicate)
	assert.Equal(t, "<>", body[2].Predicate)
	assert.True(t, body[2].IsBuiltIn())
}

func TestParseQuery(t *testing.T) {
	stmts, err := Parse(`parent(X, bob)?`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, KindQuery, stmts[0].Kind)
	require.Len(t, stmts[0].Goals, 1)
	assert.Equal(t, "parent", stmts[0].Goals[0].Predicate)
}

func TestParseMultiGoalQuery(t *testing.T) {
	stmts, err := Parse(`parent(X, Y), parent(Y, Z)?`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, KindQuery, stmts[0].Kind)
	assert.Len(t, stmts[0].Goals, 2)
}

func TestParseDelete(t *testing.T) {
	stmts, err := Parse(`parent(alice, bob)~`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, KindDelete, stmts[0].Kind)
}

func TestParseQuotedStringConstant(t *testing.T) {
	stmts, err := Parse(`likes(alice, "ice cream").`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	term := stmts[0].Fact.Terms[1]
	assert.True(t, datalog.IsQuoted(term))
	assert.Equal(t, "ice cream", datalog.Unparse(term))
}

func TestParseNegativeAndDecimalNumbers(t *testing.T) {
	stmts, err := Parse(`reading(s1, -3.5).`)
	require.NoError(t, err)
	assert.Equal(t, datalog.Term("-3.5"), stmts[0].Fact.Terms[1])
}

func TestParseMultipleStatements(t *testing.T) {
	source := `
parent(alice, bob).
parent(bob, carol).
grandparent(X, Z) :- parent(X, Y), parent(Y, Z).
grandparent(alice, Z)?
`
	stmts, err := Parse(source)
	require.NoError(t, err)
	require.Len(t, stmts, 4)
	assert.Equal(t, KindFact, stmts[0].Kind)
	assert.Equal(t, KindFact, stmts[1].Kind)
	assert.Equal(t, KindRule, stmts[2].Kind)
	assert.Equal(t, KindQuery, stmts[3].Kind)
}

func TestParseLineComments(t *testing.T) {
	source := `
% a fact about alice
parent(alice, bob). % trailing comment
`
	stmts, err := Parse(source)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "parent", stmts[0].Fact.Predicate)
}

func TestParseComparisonOperators(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`X = Y?`, "="},
		{`X != Y?`, "<>"},
		{`X <> Y?`, "<>"},
		{`X < Y?`, "<"},
		{`X <= Y?`, "<="},
		{`X > Y?`, ">"},
		{`X >= Y?`, ">="},
	}
	for _, c := range cases {
		stmts, err := Parse(c.src)
		require.NoError(t, err, c.src)
		require.Len(t, stmts, 1)
		assert.Equal(t, c.want, stmts[0].Goals[0].Predicate, c.src)
	}
}

func TestParseErrorUnterminatedStatement(t *testing.T) {
	_, err := Parse(`parent(alice, bob)`)
	require.Error(t, err)
}

func TestParseErrorUnterminatedString(t *testing.T) {
	_, err := Parse(`likes(alice, "ice cream).`)
	require.Error(t, err)
}
