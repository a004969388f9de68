// Package engine is the statement façade (C10, spec §4.10 and §6): the
// top-level Database API a caller actually drives, wiring together the
// store, validator, stratifier and evaluator behind insert/query/delete
// operations.
package engine

// Options configures a Database. A flat struct with a Default constructor,
// grounded on the teacher's planner.PlannerOptions / executor.ExecutorOptions
// shape rather than a builder or a functional-options API.
type Options struct {
	// AppendSentinelStratum appends the full rule set as a final stratum
	// after normal stratification (spec §4.6, §9 open question 1). Kept on
	// by default for parity with the documented reference behavior.
	AppendSentinelStratum bool

	// StripQuotePrefix strips the internal quote marker from answer terms
	// before they are returned to a caller (§9 open question 2).
	StripQuotePrefix bool

	// StatementCacheSize bounds the ristretto-backed stratification cache
	// (datalog/engine/cache.go). 0 disables caching.
	StatementCacheSize int64

	// BadgerPath, when non-empty, backs the EDB with a BadgerStore at this
	// path instead of an in-memory MemoryStore.
	BadgerPath string
}

// DefaultOptions returns the engine's default configuration.
func DefaultOptions() Options {
	return Options{
		AppendSentinelStratum: true,
		StripQuotePrefix:      true,
		StatementCacheSize:    1 << 20, // ~1M cost units, per ristretto's sizing convention
	}
}
