// Package eval implements the semi-naive fixed-point expander (C8, spec
// §4.8) and the query/deletion driver (C9, spec §4.9). Grounded on the
// teacher's iterate-to-fixed-point executor loop shape
// (datalog/executor/executor_iteration.go: track an active set, loop until
// no new rows, union into the store) and its top-level
// "plan → execute → project" query structure
// (datalog/executor/query_executor.go).
package eval

import (
	"time"

	"github.com/arborian/stratadb/datalog"
	"github.com/arborian/stratadb/datalog/match"
	"github.com/arborian/stratadb/datalog/observe"
	"github.com/arborian/stratadb/datalog/store"
)

// buildDependencyIndex registers each rule under the predicate hash of
// every literal in its body (spec §4.8 step 1), so that once a batch of
// new facts is added we can cheaply find which rules might now fire again.
func buildDependencyIndex(rules []datalog.Rule) map[uint64][]int {
	index := make(map[uint64][]int)
	for i, r := range rules {
		seen := make(map[uint64]bool)
		for _, lit := range r.Body {
			h := datalog.PredicateHash(lit.Predicate)
			if seen[h] {
				continue
			}
			seen[h] = true
			index[h] = append(index[h], i)
		}
	}
	return index
}

// ExpandStratum runs the semi-naive fixed-point computation for one
// stratum of rules against facts, per spec §4.8.
func ExpandStratum(rules []datalog.Rule, facts store.Store, obs observe.Handler) error {
	if len(rules) == 0 {
		return nil
	}
	start := time.Now()
	depIndex := buildDependencyIndex(rules)

	active := make([]int, len(rules))
	for i := range rules {
		active[i] = i
	}

	iteration := 0
	for len(active) > 0 {
		iteration++
		var newFacts []datalog.Expression
		for _, idx := range active {
			r := rules[idx]
			solutions, err := match.MatchGoals(r.Body, facts, datalog.NewBindings())
			if err != nil {
				return err
			}
			if len(solutions) > 0 {
				observe.Emit(obs, observe.RuleFired, map[string]any{"head": r.Head.Predicate, "solutions": len(solutions)})
			}
			for _, b := range solutions {
				newFacts = append(newFacts, r.Head.Substitute(b))
			}
		}

		touched := make(map[uint64]bool)
		addedCount := 0
		for _, f := range newFacts {
			added, err := facts.Add(f)
			if err != nil {
				return err
			}
			if added {
				addedCount++
				touched[datalog.PredicateHash(f.Predicate)] = true
			}
		}
		observe.Emit(obs, observe.StratumIteration, map[string]any{"iteration": iteration, "facts.added": addedCount})
		if addedCount == 0 {
			break
		}

		seen := make(map[int]bool)
		next := active[:0:0]
		for h := range touched {
			for _, idx := range depIndex[h] {
				if !seen[idx] {
					seen[idx] = true
					next = append(next, idx)
				}
			}
		}
		active = next
	}

	observe.EmitTiming(obs, observe.StratumFixedPoint, start, map[string]any{"iterations": iteration})
	return nil
}

// Expand runs ExpandStratum over every stratum, in order, per spec §4.8's
// closing paragraph: "The full database is expanded by running step 1-3
// stratum by stratum in order."
func Expand(strata [][]datalog.Rule, facts store.Store, obs observe.Handler) error {
	for i, rules := range strata {
		observe.Emit(obs, observe.StratumBegin, map[string]any{"stratum": i, "rules.count": len(rules)})
		stratumObs := obs
		if obs != nil {
			stratum := i
			stratumObs = func(e observe.Event) {
				if e.Name == observe.StratumFixedPoint && e.Data != nil {
					e.Data["stratum"] = stratum
				}
				obs(e)
			}
		}
		if err := ExpandStratum(rules, facts, stratumObs); err != nil {
			return err
		}
	}
	return nil
}
