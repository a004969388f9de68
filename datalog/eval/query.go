package eval

import (
	"strings"
	"time"

	"github.com/arborian/stratadb/datalog"
	"github.com/arborian/stratadb/datalog/match"
	"github.com/arborian/stratadb/datalog/observe"
	"github.com/arborian/stratadb/datalog/store"
)

// relevantPredicates computes the closure of spec §4.9 step 1: start from
// the goal predicates, then for every rule whose head predicate is already
// in the set, add every body literal's predicate, to a fixed point.
func relevantPredicates(goals []datalog.Expression, allRules []datalog.Rule) map[string]bool {
	relevant := make(map[string]bool)
	for _, g := range goals {
		if !g.IsBuiltIn() {
			relevant[g.Predicate] = true
		}
	}
	for changed := true; changed; {
		changed = false
		for _, r := range allRules {
			if !relevant[r.Head.Predicate] {
				continue
			}
			for _, lit := range r.Body {
				if lit.IsBuiltIn() {
					continue
				}
				if !relevant[lit.Predicate] {
					relevant[lit.Predicate] = true
					changed = true
				}
			}
		}
	}
	return relevant
}

// pruneStrata keeps, per stratum, only the rules whose head predicate is
// relevant — preserving the stratum order computed over the whole rule set.
func pruneStrata(strata [][]datalog.Rule, relevant map[string]bool) [][]datalog.Rule {
	out := make([][]datalog.Rule, len(strata))
	for i, stratum := range strata {
		for _, r := range stratum {
			if relevant[r.Head.Predicate] {
				out[i] = append(out[i], r)
			}
		}
	}
	return out
}

// Query runs the driver of spec §4.9: it prunes to the relevant rules and
// facts, expands a scratch copy of the EDB to a fixed point, matches the
// goal list against the expanded scratch store, and emits every successful
// binding as a detached, flattened map.
func Query(goals []datalog.Expression, initial *datalog.Bindings, edb store.Store, allRules []datalog.Rule, fullStrata [][]datalog.Rule, obs observe.Handler) ([]map[datalog.Term]datalog.Term, error) {
	start := time.Now()
	observe.Emit(obs, observe.QueryInvoked, map[string]any{"goals": goals})

	relevant := relevantPredicates(goals, allRules)

	scratch := store.NewMemoryStore()
	allFacts, err := edb.All()
	if err != nil {
		return nil, err
	}
	for _, f := range allFacts {
		if relevant[f.Predicate] {
			if _, err := scratch.Add(f); err != nil {
				return nil, err
			}
		}
	}

	pruned := pruneStrata(fullStrata, relevant)
	if err := Expand(pruned, scratch, obs); err != nil {
		return nil, err
	}

	if initial == nil {
		initial = datalog.NewBindings()
	}
	solutions, err := match.MatchGoals(goals, scratch, initial)
	if err != nil {
		return nil, err
	}

	answers := make([]map[datalog.Term]datalog.Term, 0, len(solutions))
	for _, b := range solutions {
		answers = append(answers, b.Flatten())
	}
	observe.EmitTiming(obs, observe.QueryComplete, start, map[string]any{"answers.count": len(answers)})
	return answers, nil
}

// Delete runs spec §4.9's delete semantics: execute goals as a query, then
// for every answer ground the positive, non-built-in goal literals by
// substitution and remove the resulting facts from the EDB. The conjunction
// of goals acts as a filter, not as independent per-literal patterns — only
// facts that arise from some answer to the whole conjunction are removed.
func Delete(goals []datalog.Expression, initial *datalog.Bindings, edb store.Store, allRules []datalog.Rule, fullStrata [][]datalog.Rule, obs observe.Handler) (int, error) {
	answers, err := Query(goals, initial, edb, allRules, fullStrata, nil)
	if err != nil {
		return 0, err
	}

	toRemove := make(map[string]datalog.Expression)
	for _, answer := range answers {
		b := datalog.NewBindings()
		for k, v := range answer {
			b.Insert(k, v)
		}
		for _, g := range goals {
			if g.Negated || g.IsBuiltIn() {
				continue
			}
			ground := g.Substitute(b)
			if !ground.IsGround() {
				continue
			}
			// Raw terms, not String(): String() strips the quote marker and
			// would merge a quoted fact with the bareword fact of the same text.
			toRemove[ground.Predicate+"\x00"+strings.Join(ground.Terms, "\x00")] = ground
		}
	}

	count := 0
	for _, e := range toRemove {
		present, err := store.Facts(edb, e.Predicate)
		if err != nil {
			return count, err
		}
		found := false
		for _, f := range present {
			if f.Equals(e) {
				found = true
				break
			}
		}
		if !found {
			continue
		}
		if err := edb.Remove(e); err != nil {
			return count, err
		}
		count++
	}
	observe.Emit(obs, observe.DeleteApplied, map[string]any{"facts.removed": count})
	return count, nil
}
