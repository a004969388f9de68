package datalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindingsChildDoesNotMutateParent(t *testing.T) {
	root := NewBindings()
	root.Insert("X", "a")

	child := root.Child()
	child.Insert("Y", "b")

	_, foundOnRoot := root.Get("Y")
	assert.False(t, foundOnRoot)

	v, found := child.Get("X")
	assert.True(t, found)
	assert.Equal(t, Term("a"), v)
}

func TestBindingsFlattenChildWins(t *testing.T) {
	root := NewBindings()
	root.Insert("X", "a")
	child := root.Child()
	child.Insert("Y", "b")

	flat := child.Flatten()
	assert.Equal(t, map[Term]Term{"X": "a", "Y": "b"}, flat)
}

func TestBindingsResolveFollowsChain(t *testing.T) {
	b := NewBindings()
	b.Insert("X", "Y")
	b.Insert("Y", "42")
	assert.Equal(t, Term("42"), b.Resolve("X"))
}

func TestBindingsResolveUnboundReturnsSelf(t *testing.T) {
	b := NewBindings()
	assert.Equal(t, Term("X"), b.Resolve("X"))
}

func TestBindingsInsertConflictPanics(t *testing.T) {
	root := NewBindings()
	root.Insert("X", "a")
	child := root.Child()

	assert.Panics(t, func() {
		child.Insert("X", "b")
	})
}

func TestBindingsCount(t *testing.T) {
	root := NewBindings()
	root.Insert("X", "a")
	child := root.Child()
	child.Insert("Y", "b")
	assert.Equal(t, 2, child.Count())
}
