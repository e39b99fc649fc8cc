package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"milestone-escrow/internal/core/port"
)

// KVStore implements port.KVStore on Redis with optimistic transactions:
// every key read inside Update is WATCHed and the buffered writes are applied
// in a single MULTI/EXEC. If a watched key changed in the meantime EXEC
// aborts and Update returns port.ErrConflict.
type KVStore struct {
	client redis.UniversalClient
	prefix string
}

var _ port.KVStore = (*KVStore)(nil)

// NewKVStore returns a store that namespaces all keys under prefix.
func NewKVStore(client redis.UniversalClient, prefix string) *KVStore {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "escrow"
	}
	return &KVStore{client: client, prefix: prefix}
}

func (s *KVStore) key(k port.Key) string {
	return s.prefix + ":" + k.String()
}

// Update runs fn inside WATCH and commits its writes atomically.
func (s *KVStore) Update(ctx context.Context, fn func(tx port.KVTx) error) error {
	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		tx := &watchTx{store: s, tx: rtx, watched: map[string]bool{}, writes: map[string][]byte{}}
		if err := fn(tx); err != nil {
			return err
		}
		if len(tx.order) == 0 {
			return nil
		}
		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, k := range tx.order {
				pipe.Set(ctx, k, tx.writes[k], 0)
			}
			return nil
		})
		return err
	})
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: watched key modified", port.ErrConflict)
	}
	return err
}

// View reads straight from the client. Reads across keys are not isolated
// from concurrent Updates, which is acceptable for queries.
func (s *KVStore) View(ctx context.Context, fn func(tx port.KVTx) error) error {
	return fn(&viewTx{store: s})
}

type watchTx struct {
	store   *KVStore
	tx      *redis.Tx
	watched map[string]bool
	writes  map[string][]byte
	order   []string
}

func (t *watchTx) watch(ctx context.Context, k string) error {
	if t.watched[k] {
		return nil
	}
	if err := t.tx.Watch(ctx, k).Err(); err != nil {
		return err
	}
	t.watched[k] = true
	return nil
}

func (t *watchTx) Get(ctx context.Context, key port.Key) ([]byte, bool, error) {
	k := t.store.key(key)
	if v, ok := t.writes[k]; ok {
		return v, true, nil
	}
	if err := t.watch(ctx, k); err != nil {
		return nil, false, fmt.Errorf("watch %s: %w", key, err)
	}
	v, err := t.tx.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (t *watchTx) Set(_ context.Context, key port.Key, value []byte) error {
	k := t.store.key(key)
	if _, ok := t.writes[k]; !ok {
		t.order = append(t.order, k)
	}
	t.writes[k] = value
	return nil
}

func (t *watchTx) Has(ctx context.Context, key port.Key) (bool, error) {
	_, ok, err := t.Get(ctx, key)
	return ok, err
}

type viewTx struct {
	store *KVStore
}

func (t *viewTx) Get(ctx context.Context, key port.Key) ([]byte, bool, error) {
	v, err := t.store.client.Get(ctx, t.store.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (t *viewTx) Set(context.Context, port.Key, []byte) error {
	return port.ErrReadOnly
}

func (t *viewTx) Has(ctx context.Context, key port.Key) (bool, error) {
	n, err := t.store.client.Exists(ctx, t.store.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	return n > 0, nil
}
