// Package validate implements the range-restriction and ground/negation
// checks of spec §4.5 (C5), run on every fact and rule insertion.
package validate

import (
	"fmt"

	"github.com/arborian/stratadb/datalog"
	"github.com/arborian/stratadb/datalog/dlerrors"
)

// Fact verifies I1: e must be ground and non-negated to be accepted into
// the EDB.
func Fact(e datalog.Expression) error {
	if e.Negated {
		return dlerrors.NewValidationError(fmt.Sprintf("fact %s must not be negated", e))
	}
	if !e.IsGround() {
		return dlerrors.NewValidationError(fmt.Sprintf("fact %s must be ground", e))
	}
	if e.IsBuiltIn() {
		return dlerrors.NewValidationError(fmt.Sprintf("fact %s must not be a built-in predicate", e))
	}
	return nil
}

// Rule verifies I2 and that the head is neither built-in nor negated, and
// that the body is non-empty (spec §3, §4.5).
func Rule(r datalog.Rule) error {
	if r.Head.Negated {
		return dlerrors.NewValidationError(fmt.Sprintf("rule head %s must not be negated", r.Head))
	}
	if r.Head.IsBuiltIn() {
		return dlerrors.NewValidationError(fmt.Sprintf("rule head %s must not be a built-in predicate", r.Head))
	}
	if len(r.Body) == 0 {
		return dlerrors.NewValidationError(fmt.Sprintf("rule for %s must have a non-empty body", r.Head.Predicate))
	}

	positive := make(map[datalog.Term]bool)
	for _, lit := range r.Body {
		if !lit.Negated && !lit.IsBuiltIn() {
			for _, t := range lit.Terms {
				if datalog.IsVariable(t) {
					positive[t] = true
				}
			}
		}
	}

	mustBeRestricted := func(source string, lit datalog.Expression) error {
		for _, t := range lit.Terms {
			if datalog.IsVariable(t) && !positive[t] {
				return dlerrors.NewValidationError(fmt.Sprintf(
					"rule for %s is not range-restricted: variable %s in %s %s does not appear in a positive non-built-in body literal",
					r.Head.Predicate, t, source, lit))
			}
		}
		return nil
	}

	for _, t := range r.Head.Terms {
		if datalog.IsVariable(t) && !positive[t] {
			return dlerrors.NewValidationError(fmt.Sprintf(
				"rule for %s is not range-restricted: head variable %s does not appear in a positive non-built-in body literal",
				r.Head.Predicate, t))
		}
	}
	for _, lit := range r.Body {
		if lit.Negated {
			if err := mustBeRestricted("negated literal", lit); err != nil {
				return err
			}
		} else if lit.IsBuiltIn() {
			if err := mustBeRestricted("built-in literal", lit); err != nil {
				return err
			}
		}
	}
	return nil
}
