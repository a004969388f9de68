package match

import (
	"github.com/arborian/stratadb/datalog"
)

// FactSource is the narrow read interface the matcher needs — satisfied by
// datalog/store.Store and by the scratch stores the query driver builds.
// Kept separate from store.Store so this package never has to import it.
type FactSource interface {
	ByPredicate(hash uint64) ([]datalog.Expression, error)
}

// ReorderGoals reorders goals so that positive non-built-in literals come
// first (preserving their mutual order), followed by negated literals and
// non-"=" built-ins in their original order, per spec §4.7. "=" literals
// are left in their original absolute position — it is the only built-in
// allowed to bind a variable, and moving it earlier than the positive
// literals that range-restrict it would break safety.
func ReorderGoals(goals []datalog.Expression) []datalog.Expression {
	var eqPositions []int
	var positive, rest []datalog.Expression
	for i, g := range goals {
		if g.Predicate == "=" {
			eqPositions = append(eqPositions, i)
			continue
		}
		if !g.Negated && !g.IsBuiltIn() {
			positive = append(positive, g)
		} else {
			rest = append(rest, g)
		}
	}
	combined := make([]datalog.Expression, 0, len(positive)+len(rest))
	combined = append(combined, positive...)
	combined = append(combined, rest...)

	out := make([]datalog.Expression, len(goals))
	ci, ei := 0, 0
	for i := range out {
		if ei < len(eqPositions) && eqPositions[ei] == i {
			out[i] = goals[i]
			ei++
			continue
		}
		out[i] = combined[ci]
		ci++
	}
	return out
}

// MatchGoals is the recursive conjunctive matcher of spec §4.7: it reorders
// goals, then matches them against facts starting from bindings, returning
// one fully-extended Bindings scope per successful answer.
func MatchGoals(goals []datalog.Expression, facts FactSource, bindings *datalog.Bindings) ([]*datalog.Bindings, error) {
	return matchOrdered(ReorderGoals(goals), facts, bindings)
}

func matchOrdered(goals []datalog.Expression, facts FactSource, bindings *datalog.Bindings) ([]*datalog.Bindings, error) {
	if len(goals) == 0 {
		return []*datalog.Bindings{bindings}, nil
	}
	goal := goals[0]
	rest := goals[1:]

	if goal.IsBuiltIn() {
		return matchBuiltIn(goal, rest, facts, bindings)
	}
	if !goal.Negated {
		return matchPositive(goal, rest, facts, bindings)
	}
	return matchNegated(goal, rest, facts, bindings)
}

func matchBuiltIn(goal datalog.Expression, rest []datalog.Expression, facts FactSource, bindings *datalog.Bindings) ([]*datalog.Bindings, error) {
	scope := bindings.Child()
	holds, err := datalog.EvalBuiltIn(goal, scope)
	if err != nil {
		return nil, err
	}
	// spec §4.7: proceed iff evaluatesToTrue XOR negated == true.
	if holds == goal.Negated {
		return nil, nil
	}
	return matchOrdered(rest, facts, scope)
}

func matchPositive(goal datalog.Expression, rest []datalog.Expression, facts FactSource, bindings *datalog.Bindings) ([]*datalog.Bindings, error) {
	candidates, err := facts.ByPredicate(datalog.PredicateHash(goal.Predicate))
	if err != nil {
		return nil, err
	}
	var results []*datalog.Bindings
	for _, fact := range candidates {
		scope, ok := Unify(goal, fact, bindings)
		if !ok {
			continue
		}
		sub, err := matchOrdered(rest, facts, scope)
		if err != nil {
			return nil, err
		}
		results = append(results, sub...)
	}
	return results, nil
}

func matchNegated(goal datalog.Expression, rest []datalog.Expression, facts FactSource, bindings *datalog.Bindings) ([]*datalog.Bindings, error) {
	substituted := goal.Substitute(bindings)
	candidates, err := facts.ByPredicate(datalog.PredicateHash(substituted.Predicate))
	if err != nil {
		return nil, err
	}
	for _, fact := range candidates {
		if _, ok := Unify(substituted, fact, datalog.NewBindings()); ok {
			return nil, nil // some ground instance exists: negation fails
		}
	}
	return matchOrdered(rest, facts, bindings)
}
