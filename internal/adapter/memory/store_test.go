package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milestone-escrow/internal/core/port"
)

func TestUpdateCommitsAndReadsOwnWrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	key := port.CampaignKey(1)

	err := s.Update(ctx, func(tx port.KVTx) error {
		ok, err := tx.Has(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, tx.Set(ctx, key, []byte(`{"id":1}`)))
		v, ok, err := tx.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"id":1}`, string(v))
		return nil
	})
	require.NoError(t, err)

	err = s.View(ctx, func(tx port.KVTx) error {
		v, ok, err := tx.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"id":1}`, string(v))
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateDiscardsOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, func(tx port.KVTx) error {
		require.NoError(t, tx.Set(ctx, port.CounterKey(), []byte("1")))
		require.NoError(t, tx.Set(ctx, port.CampaignKey(1), []byte("{}")))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, s.Len())
}

func TestViewIsReadOnly(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.View(ctx, func(tx port.KVTx) error {
		return tx.Set(ctx, port.CounterKey(), []byte("1"))
	})
	assert.ErrorIs(t, err, port.ErrReadOnly)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	key := port.MilestoneKey(1, 2)
	require.NoError(t, s.Update(ctx, func(tx port.KVTx) error {
		return tx.Set(ctx, key, []byte("abc"))
	}))

	require.NoError(t, s.View(ctx, func(tx port.KVTx) error {
		v, _, err := tx.Get(ctx, key)
		v[0] = 'x'
		return err
	}))
	require.NoError(t, s.View(ctx, func(tx port.KVTx) error {
		v, _, err := tx.Get(ctx, key)
		assert.Equal(t, "abc", string(v))
		return err
	}))
}

func TestCanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Update(ctx, func(port.KVTx) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
