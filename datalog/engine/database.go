package engine

import (
	"fmt"
	"sync"

	"github.com/arborian/stratadb/datalog"
	"github.com/arborian/stratadb/datalog/dlerrors"
	"github.com/arborian/stratadb/datalog/eval"
	"github.com/arborian/stratadb/datalog/observe"
	"github.com/arborian/stratadb/datalog/store"
	"github.com/arborian/stratadb/datalog/strata"
	"github.com/arborian/stratadb/datalog/validate"
)

// Database is the top-level façade of spec §6: an EDB (facts) plus a rule
// set, with insert/query/delete operations that validate, stratify and
// evaluate on demand. Grounded on storage/database.go's Database, trading
// its datom/transaction machinery for this package's fact/rule model and
// its persistent plan cache for stratumCache.
type Database struct {
	mu      sync.RWMutex
	facts   store.Store
	rules   []datalog.Rule
	cache   *stratumCache
	opts    Options
	Observe observe.Handler
}

// NewDatabase creates a Database per opts. When opts.BadgerPath is empty
// the EDB is an in-memory store; otherwise it is backed by BadgerDB at
// that path.
func NewDatabase(opts Options) (*Database, error) {
	var s store.Store
	if opts.BadgerPath != "" {
		bs, err := store.NewBadgerStore(opts.BadgerPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		s = bs
	} else {
		s = store.NewMemoryStore()
	}

	cache, err := newStratumCache(opts.StatementCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create stratum cache: %w", err)
	}

	return &Database{facts: s, cache: cache, opts: opts}, nil
}

// Close releases the EDB's resources (a no-op for MemoryStore).
func (db *Database) Close() error {
	return db.facts.Close()
}

// InsertFact validates and adds a single ground fact to the EDB (spec
// §4.5, §4.10 "insert a fact").
func (db *Database) InsertFact(e datalog.Expression) error {
	if err := validate.Fact(e); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.facts.Add(e)
	return err
}

// InsertRule validates and adds a rule to the rule set, invalidating the
// stratification cache (spec §4.10 "insert a rule").
func (db *Database) InsertRule(r datalog.Rule) error {
	if err := validate.Rule(r); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.rules = append(db.rules, r)
	db.cache.invalidate()
	return nil
}

// stratified returns the current rule set's stratification, reusing a
// cached result keyed by the rule set's content hash when available.
func (db *Database) stratified() ([][]datalog.Rule, error) {
	key := ruleSetHash(db.rules)
	if cached, ok := db.cache.get(key); ok {
		return cached, nil
	}

	observe.Emit(db.Observe, observe.StratifyBegin, nil)
	strataOut, err := strata.Stratify(db.rules, db.opts.AppendSentinelStratum)
	if err != nil {
		if nr, ok := err.(*dlerrors.NegativeRecursion); ok {
			observe.Emit(db.Observe, observe.NegativeRecursionDetected, map[string]any{"trail": nr.Trail})
		}
		return nil, err
	}
	observe.Emit(db.Observe, observe.StratifyComplete, map[string]any{"strata.count": len(strataOut)})

	db.cache.put(key, strataOut)
	return strataOut, nil
}

// Validate runs spec §4.5 over every stored rule and fact and forces
// stratification of the current rule set, so a negative-recursion cycle
// (spec §9 scenario S6: "raised at the first query or validate") is caught
// by an explicit Validate call even when no query has run yet.
func (db *Database) Validate() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	facts, err := db.facts.All()
	if err != nil {
		return err
	}
	for _, f := range facts {
		if err := validate.Fact(f); err != nil {
			return err
		}
	}
	for _, r := range db.rules {
		if err := validate.Rule(r); err != nil {
			return err
		}
	}

	_, err = db.stratified()
	return err
}

// Query runs goals against the current EDB and rule set (spec §4.9),
// returning every satisfying binding as a detached map. Quote-prefix
// markers are stripped from returned terms when Options.StripQuotePrefix
// is set.
func (db *Database) Query(goals []datalog.Expression, initial *datalog.Bindings) ([]map[datalog.Term]datalog.Term, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	strataOut, err := db.stratified()
	if err != nil {
		return nil, err
	}
	answers, err := eval.Query(goals, initial, db.facts, db.rules, strataOut, db.Observe)
	if err != nil {
		return nil, err
	}
	if db.opts.StripQuotePrefix {
		for _, a := range answers {
			for k, v := range a {
				a[k] = datalog.Term(datalog.Unparse(v))
			}
		}
	}
	return answers, nil
}

// Delete runs goals as a query and removes every fact that produced a
// satisfying answer from the EDB (spec §4.9 "delete"), returning the
// count of facts actually removed.
func (db *Database) Delete(goals []datalog.Expression, initial *datalog.Bindings) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	strataOut, err := db.stratified()
	if err != nil {
		return 0, err
	}
	removed, err := eval.Delete(goals, initial, db.facts, db.rules, strataOut, db.Observe)
	db.cache.invalidate()
	return removed, err
}

// ExecuteAll runs every statement in stmts in order against db, collecting
// query answers per statement. Facts and rules affect later statements in
// the batch, matching the spec's "statements execute in source order"
// requirement.
func (db *Database) ExecuteAll(stmts []Statement) ([][]map[datalog.Term]datalog.Term, error) {
	results := make([][]map[datalog.Term]datalog.Term, 0, len(stmts))
	for _, stmt := range stmts {
		answers, _, err := stmt.Execute(db, nil)
		if err != nil {
			return results, err
		}
		if stmt.Kind == Query {
			results = append(results, answers)
		}
	}
	return results, nil
}

// Facts returns every fact currently in the EDB (for inspection/testing).
func (db *Database) Facts() ([]datalog.Expression, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.facts.All()
}

// Rules returns the current rule set (for inspection/testing).
func (db *Database) Rules() []datalog.Rule {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]datalog.Rule, len(db.rules))
	copy(out, db.rules)
	return out
}

// MakeBindings returns a fresh, empty root Bindings scope suitable as the
// "initial" argument to Query/Delete.
func MakeBindings() *datalog.Bindings {
	return datalog.NewBindings()
}
