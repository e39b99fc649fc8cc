// Package sqlite provides an embedded SQLite-backed escrow store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"milestone-escrow/internal/core/port"
	"milestone-escrow/internal/db"
)

// KVStore persists escrow records in a single SQLite table. SQLite allows
// one writer at a time; the handle is limited to a single connection so
// transactions are serialised in-process as well.
type KVStore struct {
	sqlDB *sql.DB
}

var _ port.KVStore = (*KVStore)(nil)

// Open opens the SQLite database at path and applies embedded migrations.
func Open(path string) (*KVStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := db.MigrateSQLite(cleanPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &KVStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *KVStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Update runs fn in a write transaction. A panic in fn rolls the
// transaction back before propagating.
func (s *KVStore) Update(ctx context.Context, fn func(tx port.KVTx) error) (err error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return translate(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = translate(cerr)
		}
	}()
	err = translate(fn(&sqliteTx{tx: tx}))
	return err
}

// View runs fn in a read-only transaction.
func (s *KVStore) View(ctx context.Context, fn func(tx port.KVTx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return translate(err)
	}
	defer func() { _ = tx.Rollback() }()
	return fn(&sqliteTx{tx: tx, readOnly: true})
}

type sqliteTx struct {
	tx       *sql.Tx
	readOnly bool
}

func (t *sqliteTx) Get(ctx context.Context, key port.Key) ([]byte, bool, error) {
	var value []byte
	err := t.tx.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key.String()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (t *sqliteTx) Set(ctx context.Context, key port.Key, value []byte) error {
	if t.readOnly {
		return port.ErrReadOnly
	}
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO kv_entries (key, kind, campaign_id, value, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key.String(), string(key.Kind), int64(key.CampaignID), value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (t *sqliteTx) Has(ctx context.Context, key port.Key) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM kv_entries WHERE key = ?`, key.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("has %s: %w", key, err)
	}
	return n > 0, nil
}

// translate maps SQLITE_BUSY and SQLITE_LOCKED to port.ErrConflict.
func translate(err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return fmt.Errorf("%w: %v", port.ErrConflict, err)
		}
	}
	return err
}
