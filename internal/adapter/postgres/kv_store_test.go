package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"milestone-escrow/internal/core/port"
)

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "40001", Message: "could not serialize access"}), port.ErrConflict)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "40P01", Message: "deadlock detected"}), port.ErrConflict)

	unique := &pgconn.PgError{Code: "23505"}
	assert.Same(t, unique, translate(unique))

	plain := errors.New("boom")
	assert.Equal(t, plain, translate(plain))
	assert.NoError(t, translate(nil))
}

func TestReadOnlyView(t *testing.T) {
	tx := &pgTx{readOnly: true}
	assert.ErrorIs(t, tx.Set(t.Context(), port.CounterKey(), []byte("1")), port.ErrReadOnly)
}
