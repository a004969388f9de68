package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborian/stratadb/datalog"
)

func TestMemoryStoreAddIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	e := datalog.NewExpression("parent", []datalog.Term{"alice", "bob"}, false)

	added, err := s.Add(e)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add(e)
	require.NoError(t, err)
	assert.False(t, added, "re-adding an identical fact must not report a fresh insert")

	all, err := s.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryStoreByPredicateUsesPredicateHash(t *testing.T) {
	s := NewMemoryStore()
	e1 := datalog.NewExpression("parent", []datalog.Term{"alice", "bob"}, false)
	e2 := datalog.NewExpression("parent", []datalog.Term{"bob", "carol"}, false)
	e3 := datalog.NewExpression("friend", []datalog.Term{"alice", "dave"}, false)

	_, err := s.AddAll([]datalog.Expression{e1, e2, e3})
	require.NoError(t, err)

	facts, err := s.ByPredicate(datalog.PredicateHash("parent"))
	require.NoError(t, err)
	assert.Len(t, facts, 2, "ByPredicate must find every fact sharing the queried predicate")

	friends, err := s.ByPredicate(datalog.PredicateHash("friend"))
	require.NoError(t, err)
	assert.Len(t, friends, 1)
}

func TestMemoryStoreRemove(t *testing.T) {
	s := NewMemoryStore()
	e := datalog.NewExpression("parent", []datalog.Term{"alice", "bob"}, false)
	_, err := s.Add(e)
	require.NoError(t, err)

	require.NoError(t, s.Remove(e))

	all, err := s.All()
	require.NoError(t, err)
	assert.Empty(t, all)

	idx, err := s.Indexes()
	require.NoError(t, err)
	assert.Empty(t, idx, "removing a bucket's last fact should drop the index entry")
}

func TestMemoryStoreDistinguishesQuotedFromBarewordFact(t *testing.T) {
	s := NewMemoryStore()
	quoted := datalog.NewExpression("foo", []datalog.Term{datalog.Quote("alice")}, false)
	bareword := datalog.NewExpression("foo", []datalog.Term{"alice"}, false)

	added, err := s.Add(quoted)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add(bareword)
	require.NoError(t, err)
	assert.True(t, added, "a quoted fact and the bareword fact of the same text are structurally distinct")

	all, err := s.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFactsHelperReturnsFactsOfExactPredicate(t *testing.T) {
	s := NewMemoryStore()
	e := datalog.NewExpression("parent", []datalog.Term{"alice", "bob"}, false)
	_, err := s.Add(e)
	require.NoError(t, err)

	facts, err := Facts(s, "parent")
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "parent", facts[0].Predicate)
}
