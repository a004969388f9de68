package store

import (
	"strings"
	"sync"

	"github.com/arborian/stratadb/datalog"
)

// MemoryStore is the default in-memory Store: a set of facts with a
// predicate-hash index, per spec §4.2. Grounded on the teacher's general
// constructor+mutex-guarded-map shape (storage/database.go).
type MemoryStore struct {
	mu    sync.RWMutex
	index map[uint64]map[string]datalog.Expression // hash(predicate) -> key -> fact
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[uint64]map[string]datalog.Expression)}
}

// factKey is a structural key over (predicate, terms, negated) built from
// the raw, unprinted term values — never String()/Unparse, which strips the
// internal quote-prefix marker and would collide a quoted fact with the
// bareword fact of the same text (e.g. foo("alice") and foo(alice) must
// remain distinct, per spec §3's structural-equality rule).
func factKey(e datalog.Expression) string {
	var b strings.Builder
	if e.Negated {
		b.WriteByte(1)
	} else {
		b.WriteByte(0)
	}
	b.WriteString(e.Predicate)
	b.WriteByte(0)
	for _, t := range e.Terms {
		b.WriteString(string(t))
		b.WriteByte(0)
	}
	return b.String()
}

func (s *MemoryStore) Add(e datalog.Expression) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(e), nil
}

func (s *MemoryStore) addLocked(e datalog.Expression) bool {
	h := datalog.PredicateHash(e.Predicate)
	bucket, ok := s.index[h]
	if !ok {
		bucket = make(map[string]datalog.Expression)
		s.index[h] = bucket
	}
	key := factKey(e)
	if _, exists := bucket[key]; exists {
		return false
	}
	bucket[key] = e
	return true
}

func (s *MemoryStore) AddAll(es []datalog.Expression) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := false
	for _, e := range es {
		if s.addLocked(e) {
			added = true
		}
	}
	return added, nil
}

func (s *MemoryStore) Remove(e datalog.Expression) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := datalog.PredicateHash(e.Predicate)
	bucket, ok := s.index[h]
	if !ok {
		return nil
	}
	delete(bucket, factKey(e))
	if len(bucket) == 0 {
		delete(s.index, h)
	}
	return nil
}

func (s *MemoryStore) All() ([]datalog.Expression, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]datalog.Expression, 0)
	for _, bucket := range s.index {
		for _, e := range bucket {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) ByPredicate(hash uint64) ([]datalog.Expression, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.index[hash]
	if !ok {
		return nil, nil
	}
	out := make([]datalog.Expression, 0, len(bucket))
	for _, e := range bucket {
		out = append(out, e)
	}
	return out, nil
}

func (s *MemoryStore) Indexes() ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]uint64, 0, len(s.index))
	for h := range s.index {
		out = append(out, h)
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
