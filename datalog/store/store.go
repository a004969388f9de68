// Package store provides the indexed fact store of spec §4.2: a set of
// ground Expressions with a predicate-keyed index for O(1) predicate
// lookup, behind a narrow Store interface so the EDB can be backed by
// something other than a plain in-memory map (spec §6's EDB-provider
// contract). Grounded on the teacher's storage.Store interface
// (Assert/Retract/Scan/Get/Close), renamed to the fact-oriented verbs the
// spec names.
package store

import (
	"github.com/arborian/stratadb/datalog"
)

// Store is the abstract fact-store / EDB-provider contract of spec §6.
type Store interface {
	// Add inserts e if not already present (idempotent under structural
	// equality) and reports whether anything new was added.
	Add(e datalog.Expression) (bool, error)

	// AddAll inserts every expression in es, preserving set semantics, and
	// reports whether anything new was added.
	AddAll(es []datalog.Expression) (bool, error)

	// Remove deletes e by structural equality. Removing an absent
	// expression is a no-op.
	Remove(e datalog.Expression) error

	// All returns every fact currently in the store.
	All() ([]datalog.Expression, error)

	// ByPredicate returns the facts whose predicate hashes to hash.
	ByPredicate(hash uint64) ([]datalog.Expression, error)

	// Indexes enumerates the predicate hashes currently present.
	Indexes() ([]uint64, error)

	// Close releases any resources held by the store.
	Close() error
}

// Facts returns every fact in s whose predicate equals predicate — a
// convenience built on ByPredicate for callers that don't want to
// pre-compute the hash themselves (spec §6's getFacts(predicate)).
func Facts(s Store, predicate string) ([]datalog.Expression, error) {
	all, err := s.ByPredicate(datalog.PredicateHash(predicate))
	if err != nil {
		return nil, err
	}
	out := make([]datalog.Expression, 0, len(all))
	for _, f := range all {
		if f.Predicate == predicate {
			out = append(out, f)
		}
	}
	return out, nil
}
