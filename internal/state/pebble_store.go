package state

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
)

// PebbleStore implements Store using PebbleDB.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	opts := &pebble.Options{
		MemTableSize: 64 << 20,
		// Tallies are rebuilt on every run, nothing to recover after a crash.
		DisableWAL: true,
	}
	d, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: d}, nil
}

func (p *PebbleStore) Close() error { return p.db.Close() }

func encodeState(st RecordState) ([]byte, error) { return json.Marshal(st) }
func decodeState(val []byte) (RecordState, error) {
	var st RecordState
	if err := json.Unmarshal(val, &st); err != nil {
		return RecordState{}, err
	}
	return st, nil
}

func (p *PebbleStore) Add(key string, amount float64, seq int64) (RecordState, error) {
	k := []byte(key)
	cur := RecordState{FirstSeen: seq}
	v, closer, err := p.db.Get(k)
	if err == nil {
		cur, err = decodeState(v)
		_ = closer.Close()
		if err != nil {
			return RecordState{}, fmt.Errorf("decode %s: %w", key, err)
		}
	} else if err != pebble.ErrNotFound {
		return RecordState{}, err
	}
	cur.Count++
	cur.Sum += amount
	b, err := encodeState(cur)
	if err != nil {
		return RecordState{}, err
	}
	if err := p.db.Set(k, b, pebble.NoSync); err != nil {
		return RecordState{}, err
	}
	return cur, nil
}

func (p *PebbleStore) Range(prefix string, fn func(key string, st RecordState) error) error {
	opts := &pebble.IterOptions{LowerBound: []byte(prefix), UpperBound: prefixUpperBound(prefix)}
	it, err := p.db.NewIter(opts)
	if err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}
	defer it.Close()
	for it.First(); it.Valid(); it.Next() {
		k := string(it.Key())
		st, err := decodeState(it.Value())
		if err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
		if err := fn(k, st); err != nil {
			return err
		}
	}
	return it.Error()
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix, or nil when there is none.
func prefixUpperBound(prefix string) []byte {
	end := []byte(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
