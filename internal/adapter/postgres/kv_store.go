package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"milestone-escrow/internal/core/port"
)

// KVStore implements port.KVStore on a single kv_entries table using
// pgxpool. Update transactions lock every row they read with
// SELECT ... FOR UPDATE, so two transactions touching the same campaign are
// serialised by the database. The campaign counter row is created by the
// migrations and is locked the same way.
type KVStore struct {
	pool *pgxpool.Pool
}

var _ port.KVStore = (*KVStore)(nil)

// NewKVStore returns a new store instance.
func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{pool: pool}
}

// Update runs fn in a read-committed transaction with row locks. A panic in
// fn rolls the transaction back before propagating.
func (s *KVStore) Update(ctx context.Context, fn func(tx port.KVTx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			err = translate(cerr)
		}
	}()
	err = translate(fn(&pgTx{tx: tx, lock: true}))
	return err
}

// View runs fn in a read-only transaction without row locks.
func (s *KVStore) View(ctx context.Context, fn func(tx port.KVTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	return fn(&pgTx{tx: tx, readOnly: true})
}

type pgTx struct {
	tx       pgx.Tx
	lock     bool
	readOnly bool
}

func (t *pgTx) Get(ctx context.Context, key port.Key) ([]byte, bool, error) {
	query := `SELECT value FROM kv_entries WHERE key = $1`
	if t.lock {
		query += ` FOR UPDATE`
	}
	var value []byte
	err := t.tx.QueryRow(ctx, query, key.String()).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (t *pgTx) Set(ctx context.Context, key port.Key, value []byte) error {
	if t.readOnly {
		return port.ErrReadOnly
	}
	_, err := t.tx.Exec(ctx, `
        INSERT INTO kv_entries (key, kind, campaign_id, value, updated_at)
        VALUES ($1, $2, $3, $4, now())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key.String(), string(key.Kind), int64(key.CampaignID), value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (t *pgTx) Has(ctx context.Context, key port.Key) (bool, error) {
	var ok bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM kv_entries WHERE key = $1)`, key.String()).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("has %s: %w", key, err)
	}
	return ok, nil
}

// translate maps serialization failures and deadlocks to port.ErrConflict.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s", port.ErrConflict, pgErr.Message)
		}
	}
	return err
}
