package engine

import (
	"github.com/dgraph-io/ristretto"

	"github.com/arborian/stratadb/datalog"
)

// stratumCache memoizes the stratification of the current rule set, keyed
// by a hash of the rule set's content, so that repeated queries against an
// unchanged rule set skip re-running Stratify. Grounded on
// planner.PlanCache's invalidate-on-mutation contract (datalog/planner/cache.go)
// but backed by github.com/dgraph-io/ristretto — promoted from an indirect
// (badger-transitive) dependency to a direct one, since a size-bounded,
// concurrent-safe cache is exactly what this component needs.
type stratumCache struct {
	cache *ristretto.Cache
}

type stratumCacheEntry struct {
	strata [][]datalog.Rule
}

func newStratumCache(maxCost int64) (*stratumCache, error) {
	if maxCost <= 0 {
		return &stratumCache{}, nil
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &stratumCache{cache: c}, nil
}

func (c *stratumCache) get(key uint64) ([][]datalog.Rule, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry, ok := v.(stratumCacheEntry)
	if !ok {
		return nil, false
	}
	return entry.strata, true
}

func (c *stratumCache) put(key uint64, strata [][]datalog.Rule) {
	if c == nil || c.cache == nil {
		return
	}
	cost := int64(len(strata))
	for _, stratum := range strata {
		cost += int64(len(stratum))
	}
	c.cache.Set(key, stratumCacheEntry{strata: strata}, cost)
	c.cache.Wait()
}

// invalidate drops every cached stratification. Called on every rule
// insertion and every Delete, per spec §4.10.
func (c *stratumCache) invalidate() {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Clear()
}

// ruleSetHash computes a content hash of the rule set for use as a cache
// key, so repeated queries against the same Database with an unchanged rule
// set reuse its cached stratification. Each Database has its own cache.
func ruleSetHash(rules []datalog.Rule) uint64 {
	h := uint64(14695981039346656037) // FNV offset basis, combined with each rule's own hash
	for _, r := range rules {
		h ^= r.Head.Hash()
		h *= 1099511628211
		for _, lit := range r.Body {
			h ^= lit.Hash()
			h *= 1099511628211
		}
	}
	return h
}
