package memory

import (
	"context"
	"slices"
	"sync"

	"milestone-escrow/internal/core/port"
)

// Store implements port.KVStore in process memory. Update transactions are
// serialised by a single writer lock; View transactions share a read lock, so
// readers never observe a half-applied Update.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Update runs fn with exclusive access. Its writes are buffered and applied
// only when fn returns nil.
func (s *Store) Update(ctx context.Context, fn func(tx port.KVTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{data: s.data, writes: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.writes {
		s.data[k] = v
	}
	return nil
}

// View runs fn against a consistent snapshot of the store.
func (s *Store) View(ctx context.Context, fn func(tx port.KVTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memTx{data: s.data, readOnly: true})
}

// Len reports the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

type memTx struct {
	data     map[string][]byte
	writes   map[string][]byte
	readOnly bool
}

func (t *memTx) Get(_ context.Context, key port.Key) ([]byte, bool, error) {
	k := key.String()
	if v, ok := t.writes[k]; ok {
		return slices.Clone(v), true, nil
	}
	v, ok := t.data[k]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (t *memTx) Set(_ context.Context, key port.Key, value []byte) error {
	if t.readOnly {
		return port.ErrReadOnly
	}
	t.writes[key.String()] = slices.Clone(value)
	return nil
}

func (t *memTx) Has(ctx context.Context, key port.Key) (bool, error) {
	_, ok, err := t.Get(ctx, key)
	return ok, err
}
