package datalog

import "fmt"

// Bindings is a stack-structured variable→term environment (spec §3, §4.3):
// lookup consults the local map first, then walks parent pointers; inserts
// always go to the local map; a child never mutates its parent. This keeps
// each recursion frame in the matcher (datalog/match) cheap to allocate
// without deep-copying everything above it.
type Bindings struct {
	parent *Bindings
	local  map[Term]Term
}

// NewBindings returns an empty, parentless bindings scope.
func NewBindings() *Bindings {
	return &Bindings{local: make(map[Term]Term)}
}

// Child returns a new scope whose parent is b. Writes to the child never
// affect b.
func (b *Bindings) Child() *Bindings {
	return &Bindings{parent: b, local: make(map[Term]Term)}
}

// Get returns the value bound to key and whether it was found, consulting
// the local map first and then each ancestor in turn.
func (b *Bindings) Get(key Term) (Term, bool) {
	for s := b; s != nil; s = s.parent {
		if v, ok := s.local[key]; ok {
			return v, true
		}
	}
	return "", false
}

// Insert binds key to value in b's local map. Binding a key that is already
// bound anywhere in an ancestor scope, whatever its value there, is a
// programming error (a child scope must never reintroduce a variable its
// parent already resolved) and panics with an InternalInvariant-shaped
// message rather than silently shadowing it.
func (b *Bindings) Insert(key, value Term) {
	if b.parent != nil {
		if existing, ok := b.parent.Get(key); ok {
			panic(fmt.Sprintf("internal invariant violated: rebinding %q (already %q in parent scope) to %q", key, existing, value))
		}
	}
	b.local[key] = value
}

// Flatten collapses the scope chain into a single detached map, with the
// most-local binding for each key winning.
func (b *Bindings) Flatten() map[Term]Term {
	out := make(map[Term]Term)
	chain := make([]*Bindings, 0, 4)
	for s := b; s != nil; s = s.parent {
		chain = append(chain, s)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].local {
			out[k] = v
		}
	}
	return out
}

// Count returns the number of distinct keys across the whole chain.
func (b *Bindings) Count() int {
	return len(b.Flatten())
}

// Resolve follows bound variables until it reaches a constant or an unbound
// variable, guarding against pathological binding cycles.
func (b *Bindings) Resolve(term Term) Term {
	seen := map[Term]bool{}
	for IsVariable(term) {
		if seen[term] {
			return term
		}
		seen[term] = true
		v, ok := b.Get(term)
		if !ok {
			return term
		}
		term = v
	}
	return term
}
