package state

import (
	"fmt"
	"os"
)

const (
	BackendMemory = "memory"
	BackendPebble = "pebble"
	BackendBadger = "badger"
)

// OpenScratch opens a store of the given backend. Disk backends live in a
// fresh temporary directory which is removed by Close.
func OpenScratch(backend string) (Store, error) {
	switch backend {
	case "", BackendMemory:
		return NewInMemoryStore(), nil
	case BackendPebble, BackendBadger:
	default:
		return nil, fmt.Errorf("unknown tally backend %q (want memory|pebble|badger)", backend)
	}

	dir, err := os.MkdirTemp("", "orderstats-"+backend+"-")
	if err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	var st Store
	if backend == BackendPebble {
		st, err = NewPebbleStore(dir)
	} else {
		st, err = NewBadgerStore(dir)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}
	return &scratchStore{Store: st, dir: dir}, nil
}

type scratchStore struct {
	Store
	dir string
}

func (s *scratchStore) Close() error {
	err := s.Store.Close()
	if rmErr := os.RemoveAll(s.dir); err == nil && rmErr != nil {
		err = fmt.Errorf("remove scratch dir: %w", rmErr)
	}
	return err
}
