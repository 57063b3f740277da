package state

import (
	"fmt"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore implements Store using BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(filepath.Clean(dir)).
		WithLogger(nil).
		WithSyncWrites(false)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Close() error { return b.db.Close() }

func (b *BadgerStore) Add(key string, amount float64, seq int64) (RecordState, error) {
	var out RecordState
	err := b.db.Update(func(txn *badger.Txn) error {
		cur := RecordState{FirstSeen: seq}
		item, err := txn.Get([]byte(key))
		if err == nil {
			v, e := item.ValueCopy(nil)
			if e != nil {
				return e
			}
			cur, e = decodeState(v)
			if e != nil {
				return fmt.Errorf("decode %s: %w", key, e)
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		cur.Count++
		cur.Sum += amount
		bytes, e := encodeState(cur)
		if e != nil {
			return e
		}
		if e = txn.Set([]byte(key), bytes); e != nil {
			return e
		}
		out = cur
		return nil
	})
	return out, err
}

func (b *BadgerStore) Range(prefix string, fn func(key string, st RecordState) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			k := item.KeyCopy(nil)
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			st, err := decodeState(v)
			if err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			if err := fn(string(k), st); err != nil {
				return err
			}
		}
		return nil
	})
}
