package store

import (
	"bytes"
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used by tests and the local backend.
// It mirrors the mock storage of the host environment: a flat ordered map
// of byte keys.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

// View implements Store
func (s *MemoryStore) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memoryTx{store: s, readOnly: true})
}

// Update implements Store. Writes are staged in an overlay and folded into
// the base map only if fn returns nil.
func (s *MemoryStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{store: s, pending: map[string][]byte{}}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.pending {
		if v == nil {
			delete(s.data, k)
		} else {
			s.data[k] = v
		}
	}
	return nil
}

// Close implements Store
func (s *MemoryStore) Close() error {
	return nil
}

type memoryTx struct {
	store    *MemoryStore
	readOnly bool
	// pending maps key -> staged value; a nil value is a staged delete
	pending map[string][]byte
}

func (t *memoryTx) Get(key []byte) ([]byte, error) {
	k := string(key)
	if t.pending != nil {
		if v, staged := t.pending[k]; staged {
			if v == nil {
				return nil, ErrKeyNotFound
			}
			return append([]byte(nil), v...), nil
		}
	}
	v, ok := t.store.data[k]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (t *memoryTx) Set(key, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.pending[string(key)] = append([]byte(nil), value...)
	return nil
}

func (t *memoryTx) Delete(key []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.pending[string(key)] = nil
	return nil
}

func (t *memoryTx) Scan(prefix []byte, fn func(key, value []byte) error) error {
	keys := make([]string, 0, len(t.store.data))
	for k := range t.store.data {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	if t.pending != nil {
		for k, v := range t.pending {
			if v != nil && bytes.HasPrefix([]byte(k), prefix) {
				if _, exists := t.store.data[k]; !exists {
					keys = append(keys, k)
				}
			}
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		v, err := t.Get([]byte(k))
		if err == ErrKeyNotFound {
			// staged delete
			continue
		}
		if err != nil {
			return err
		}
		if err := fn([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}
