package redis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milestone-escrow/internal/adapter/auth"
	"milestone-escrow/internal/adapter/usecase"
	"milestone-escrow/internal/core/port"
)

func newTestStore(t *testing.T) (*KVStore, *miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewKVStore(client, "escrow"), mr, client
}

func TestKeyNamespacing(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, "escrow:campaign/4", NewKVStore(client, "").key(port.CampaignKey(4)))
	assert.Equal(t, "app:milestone/4/1", NewKVStore(client, " app: ").key(port.MilestoneKey(4, 1)))
}

func TestViewIsReadOnly(t *testing.T) {
	s, _, _ := newTestStore(t)

	err := s.View(context.Background(), func(tx port.KVTx) error {
		return tx.Set(context.Background(), port.CounterKey(), []byte("1"))
	})
	assert.ErrorIs(t, err, port.ErrReadOnly)
}

func TestUpdateCommits(t *testing.T) {
	s, mr, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, func(tx port.KVTx) error {
		require.NoError(t, tx.Set(ctx, port.CounterKey(), []byte("1")))
		v, ok, err := tx.Get(ctx, port.CounterKey())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1", string(v))
		return nil
	}))
	got, err := mr.Get("escrow:counter/campaign")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	require.NoError(t, s.View(ctx, func(tx port.KVTx) error {
		ok, err := tx.Has(ctx, port.CounterKey())
		assert.True(t, ok)
		return err
	}))
}

func TestUpdateDiscardsOnError(t *testing.T) {
	s, mr, _ := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, func(tx port.KVTx) error {
		require.NoError(t, tx.Set(ctx, port.CounterKey(), []byte("1")))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("escrow:counter/campaign"))
}

func TestUpdateConflictsOnWatchedKey(t *testing.T) {
	s, mr, client := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("escrow:counter/campaign", "1"))

	err := s.Update(ctx, func(tx port.KVTx) error {
		if _, _, err := tx.Get(ctx, port.CounterKey()); err != nil {
			return err
		}
		// another writer commits between the read and EXEC
		if err := client.Set(ctx, "escrow:counter/campaign", "7", 0).Err(); err != nil {
			return err
		}
		return tx.Set(ctx, port.CounterKey(), []byte("2"))
	})
	assert.ErrorIs(t, err, port.ErrConflict)

	got, err := mr.Get("escrow:counter/campaign")
	require.NoError(t, err)
	assert.Equal(t, "7", got)
}

// TestConcurrentApprovalsNeverLoseUpdates races approvals through the use
// case: every call either commits or reports a conflict, and the stored count
// matches the committed calls exactly.
func TestConcurrentApprovalsNeverLoseUpdates(t *testing.T) {
	s, _, _ := newTestStore(t)
	svc := usecase.NewEscrowUseCase(s, auth.Permissive{}, nil, nil, usecase.Options{})
	ctx := context.Background()

	id, err := svc.CreateCampaign(ctx, port.CreateCampaignReq{Creator: "alice", MilestoneCount: 1})
	require.NoError(t, err)
	require.NoError(t, svc.CreateMilestone(ctx, port.CreateMilestoneReq{CampaignID: id, MilestoneID: 1, RequiredApprovals: 100}))

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		committed uint64
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.ApproveMilestone(ctx, id, 1, "backer-"+string(rune('a'+i)))
			if errors.Is(err, port.ErrConflict) {
				return
			}
			assert.NoError(t, err)
			mu.Lock()
			committed++
			mu.Unlock()
		}()
	}
	wg.Wait()

	m, err := svc.GetMilestone(ctx, id, 1)
	require.NoError(t, err)
	assert.Positive(t, committed)
	assert.Equal(t, committed, m.ApprovalCount)
	assert.Len(t, m.Approvers, int(committed))
}
