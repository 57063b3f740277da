package state

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// RecordState is the running tally for one key.
// FirstSeen is the seq of the first Add for the key and never changes afterwards.
type RecordState struct {
	Count     int64   `json:"count"`
	Sum       float64 `json:"sum"`
	FirstSeen int64   `json:"firstSeen"`
}

// Store abstracts the tally backend. Add on a key that was never added starts
// from the zero RecordState.
type Store interface {
	Add(key string, amount float64, seq int64) (RecordState, error)
	Range(prefix string, fn func(key string, st RecordState) error) error
	Close() error
}

// InMemoryStore is a simple thread-safe map store.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]RecordState
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]RecordState)}
}

func (s *InMemoryStore) Add(key string, amount float64, seq int64) (RecordState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.data[key]
	if !ok {
		st.FirstSeen = seq
	}
	st.Count++
	st.Sum += amount
	s.data[key] = st
	return st, nil
}

// Range visits keys with the given prefix in lexical order, like the disk backends.
func (s *InMemoryStore) Range(prefix string, fn func(key string, st RecordState) error) error {
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	snapshot := make([]RecordState, len(keys))
	for i, k := range keys {
		snapshot[i] = s.data[k]
	}
	s.mu.RUnlock()

	for i, k := range keys {
		if err := fn(k, snapshot[i]); err != nil {
			return fmt.Errorf("range callback failed: %w", err)
		}
	}
	return nil
}

func (s *InMemoryStore) Close() error { return nil }
