// Package match implements the unifier and recursive conjunctive goal
// matcher of spec §4.7 (C7), including the goal-reordering pass that makes
// range-restricted rules safe to evaluate left-to-right. Grounded on the
// teacher's "match a pattern against indexed facts, extend bindings,
// recurse" shape (datalog/storage/matcher.go), adapted from datom-pattern
// matching to literal/fact unification.
package match

import (
	"github.com/arborian/stratadb/datalog"
)

// Unify attempts to match expr against the ground fact under bindings,
// extending a fresh child scope. Per spec §4.7: predicates and arity must
// match; for each position, a variable binds (or must already equal the
// existing binding) and a constant must equal the fact's term at that
// position exactly.
func Unify(expr datalog.Expression, fact datalog.Expression, bindings *datalog.Bindings) (*datalog.Bindings, bool) {
	if expr.Predicate != fact.Predicate || expr.Arity() != fact.Arity() {
		return nil, false
	}
	scope := bindings.Child()
	for i, t := range expr.Terms {
		factTerm := fact.Terms[i]
		if datalog.IsVariable(t) {
			if existing, ok := scope.Get(t); ok {
				if existing != factTerm {
					return nil, false
				}
				continue
			}
			scope.Insert(t, factTerm)
			continue
		}
		if t != factTerm {
			return nil, false
		}
	}
	return scope, true
}
