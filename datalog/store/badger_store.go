package store

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/arborian/stratadb/datalog"
)

// BadgerStore is a disk-backed implementation of Store, demonstrating that
// the §6 EDB-provider contract is pluggable: the evaluator (datalog/eval)
// only ever talks to the Store interface, never to BadgerStore directly.
// Grounded on the teacher's storage.BadgerStore (NewBadgerStore/
// Assert/Retract), with the teacher's five Datomic EAVT/AEVT/AVET/VAET/TAEV
// secondary indices dropped entirely — those only exist to serve 4-tuple
// datom access patterns (by entity, by attribute, by value...); a ground
// fact here is a flat (predicate, terms) tuple with exactly one access
// pattern worth indexing, "by predicate", so BadgerStore keeps a single
// keyspace prefixed by the predicate hash.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // match the teacher: badger's own logger is disabled
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

// badgerKey is hash(predicate) (8 bytes, big-endian, for correct prefix
// ordering) followed by the fact's own structural key — the same two-part
// shape the teacher's key encoder uses (index type prefix + datom-derived
// suffix), adapted to a single "by predicate" index.
func badgerKey(e datalog.Expression) []byte {
	h := datalog.PredicateHash(e.Predicate)
	key := make([]byte, 8, 8+len(factKey(e)))
	binary.BigEndian.PutUint64(key, h)
	key = append(key, []byte(factKey(e))...)
	return key
}

func predicatePrefix(hash uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, hash)
	return key
}

func encodeExpr(e datalog.Expression) []byte {
	var b bytes.Buffer
	if e.Negated {
		b.WriteByte(1)
	} else {
		b.WriteByte(0)
	}
	b.WriteString(e.Predicate)
	b.WriteByte(0)
	for _, t := range e.Terms {
		b.WriteString(strings.ReplaceAll(t, "\x00", "\x00\x01"))
		b.WriteByte(0)
	}
	return b.Bytes()
}

func decodeExpr(data []byte) (datalog.Expression, error) {
	if len(data) < 1 {
		return datalog.Expression{}, badger.ErrKeyNotFound
	}
	negated := data[0] == 1
	parts := strings.Split(string(data[1:]), "\x00")
	// Split on a trailing-NUL-terminated encoding leaves one empty
	// trailing element; drop it.
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, "\x00\x01", "\x00")
	}
	predicate := ""
	var terms []datalog.Term
	if len(parts) > 0 {
		predicate = parts[0]
		terms = parts[1:]
	}
	return datalog.NewExpression(predicate, terms, negated), nil
}

func (s *BadgerStore) Add(e datalog.Expression) (bool, error) {
	added := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key := badgerKey(e)
		if _, err := txn.Get(key); err == nil {
			return nil
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		added = true
		return txn.Set(key, encodeExpr(e))
	})
	return added, err
}

func (s *BadgerStore) AddAll(es []datalog.Expression) (bool, error) {
	added := false
	for _, e := range es {
		a, err := s.Add(e)
		if err != nil {
			return added, err
		}
		added = added || a
	}
	return added, nil
}

func (s *BadgerStore) Remove(e datalog.Expression) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(badgerKey(e))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

func (s *BadgerStore) All() ([]datalog.Expression, error) {
	var out []datalog.Expression
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				e, err := decodeExpr(val)
				if err != nil {
					return err
				}
				out = append(out, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func (s *BadgerStore) ByPredicate(hash uint64) ([]datalog.Expression, error) {
	var out []datalog.Expression
	prefix := predicatePrefix(hash)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				e, err := decodeExpr(val)
				if err != nil {
					return err
				}
				out = append(out, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func (s *BadgerStore) Indexes() ([]uint64, error) {
	seen := make(map[uint64]bool)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			if len(key) < 8 {
				continue
			}
			seen[binary.BigEndian.Uint64(key[:8])] = true
		}
		return nil
	})
	out := make([]uint64, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	return out, err
}

func (s *BadgerStore) Close() error { return s.db.Close() }
