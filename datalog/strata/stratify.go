// Package strata implements the dependency-DFS stratifier of spec §4.6
// (C6): it partitions a rule set into an ordered list of strata so that
// negation-as-failure is evaluated soundly, and rejects programs with a
// negative recursive cycle. Algorithmic grounding is spec §4.6/§9 itself
// (an explicit recursion-stack cycle check, not Tarjan/Kosaraju); the
// memoized-map, typed-error-with-a-trail shape follows the teacher's
// general small stateful-pass style (datalog/planner).
package strata

import (
	"github.com/arborian/stratadb/datalog"
	"github.com/arborian/stratadb/datalog/dlerrors"
)

// Stratify partitions rules into ordered strata, lowest first. Per spec
// §4.6 (Open Question resolved in DESIGN.md), when appendSentinel is true
// the full rule set is also appended as a final sentinel stratum so any
// rule not otherwise reached is still evaluated at least once.
func Stratify(rules []datalog.Rule, appendSentinel bool) ([][]datalog.Rule, error) {
	byHead := make(map[string][]datalog.Rule)
	for _, r := range rules {
		byHead[r.Head.Predicate] = append(byHead[r.Head.Predicate], r)
	}

	s := &stratifier{
		byHead:  byHead,
		stratum: make(map[string]int),
		state:   make(map[string]visitState),
	}

	maxStratum := -1
	for pred := range byHead {
		n, err := s.stratumOf(pred, false, nil)
		if err != nil {
			return nil, err
		}
		if n > maxStratum {
			maxStratum = n
		}
	}
	if maxStratum < 0 {
		maxStratum = 0
	}

	strataOut := make([][]datalog.Rule, maxStratum+1)
	for _, r := range rules {
		n := s.stratum[r.Head.Predicate]
		strataOut[n] = append(strataOut[n], r)
	}

	if appendSentinel {
		strataOut = append(strataOut, append([]datalog.Rule(nil), rules...))
	}
	return strataOut, nil
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	done
)

type stratifier struct {
	byHead  map[string][]datalog.Rule
	stratum map[string]int
	state   map[string]visitState
}

type stackEntry struct {
	pred    string // predicate at this stack position
	negated bool   // whether the edge entering this predicate was negated
}

// stratumOf returns the (negation-independent) stratum number for pred. The
// "+1 if negated" contribution from spec §4.6 is applied by the caller,
// once for each negated body literal that depends on pred, not here.
// stack is the current DFS recursion path (predicate entered from its
// caller, with the sign of the edge that led to it), used to detect a
// negative cycle.
func (s *stratifier) stratumOf(pred string, negatedIn bool, stack []stackEntry) (int, error) {
	if s.state[pred] == done {
		return s.stratum[pred], nil
	}

	for i, f := range stack {
		if f.pred != pred {
			continue
		}
		cycle := stack[i:]
		negativeCycle := negatedIn
		for _, f2 := range cycle {
			if f2.negated {
				negativeCycle = true
			}
		}
		if negativeCycle {
			trail := make([]string, 0, len(cycle)+1)
			for _, f2 := range cycle {
				trail = append(trail, f2.pred)
			}
			trail = append(trail, pred)
			return 0, dlerrors.NewNegativeRecursion(trail)
		}
		// Positive cycle: this back-edge contributes nothing on its own;
		// the rest of the DFS (still unwinding) settles the real number.
		return 0, nil
	}

	rules, ok := s.byHead[pred]
	if !ok {
		// Pure EDB predicate (never a rule head): contributes stratum 0.
		s.stratum[pred] = 0
		s.state[pred] = done
		return 0, nil
	}

	s.state[pred] = visiting
	childStack := make([]stackEntry, len(stack), len(stack)+1)
	copy(childStack, stack)
	childStack = append(childStack, stackEntry{pred: pred, negated: negatedIn})

	maxN := 0
	for _, r := range rules {
		for _, lit := range r.Body {
			if lit.IsBuiltIn() {
				continue
			}
			n, err := s.stratumOf(lit.Predicate, lit.Negated, childStack)
			if err != nil {
				return 0, err
			}
			if lit.Negated {
				n++
			}
			if n > maxN {
				maxN = n
			}
		}
	}

	s.stratum[pred] = maxN
	s.state[pred] = done
	return maxN, nil
}
