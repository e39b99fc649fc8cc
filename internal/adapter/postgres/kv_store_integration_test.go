package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milestone-escrow/internal/adapter/auth"
	"milestone-escrow/internal/adapter/usecase"
	"milestone-escrow/internal/config/configs"
	"milestone-escrow/internal/core/domain"
	"milestone-escrow/internal/core/port"
	"milestone-escrow/internal/db"
)

// newDatabaseStore connects to the database named by PSQL_TEST_ADDRESS and
// skips the test when it is unset.
func newDatabaseStore(t *testing.T) *KVStore {
	t.Helper()
	addr := os.Getenv("PSQL_TEST_ADDRESS")
	if addr == "" {
		t.Skip("PSQL_TEST_ADDRESS not set")
	}
	u, err := url.Parse(addr)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(addr))

	pool, err := db.NewPostgresPool(context.Background(), configs.Postgres{Addr: *u, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewKVStore(pool)
}

func TestRowLocksSerialiseApprovals(t *testing.T) {
	s := newDatabaseStore(t)
	svc := usecase.NewEscrowUseCase(s, auth.Permissive{}, nil, nil, usecase.Options{})
	ctx := context.Background()

	id, err := svc.CreateCampaign(ctx, port.CreateCampaignReq{Creator: "alice", MilestoneCount: 1})
	require.NoError(t, err)
	require.NoError(t, svc.CreateMilestone(ctx, port.CreateMilestoneReq{CampaignID: id, MilestoneID: 1, RequiredApprovals: 30}))

	const n = 30
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.ApproveMilestone(ctx, id, 1, fmt.Sprintf("backer-%d", i)))
		}()
	}
	wg.Wait()

	m, err := svc.GetMilestone(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(n), m.ApprovalCount)
	assert.True(t, m.IsApproved)
}

func TestRowLocksReleaseOnce(t *testing.T) {
	s := newDatabaseStore(t)
	svc := usecase.NewEscrowUseCase(s, auth.Permissive{}, nil, nil, usecase.Options{})
	ctx := context.Background()

	id, err := svc.CreateCampaign(ctx, port.CreateCampaignReq{Creator: "alice", MilestoneCount: 1})
	require.NoError(t, err)
	require.NoError(t, svc.CreateMilestone(ctx, port.CreateMilestoneReq{CampaignID: id, MilestoneID: 1, ReleaseAmount: 40}))
	require.NoError(t, svc.Contribute(ctx, id, "bob", 100))
	require.NoError(t, svc.ApproveMilestone(ctx, id, 1, "bob"))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.ReleaseMilestone(ctx, id, 1, "alice")
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, domain.ErrAlreadyCompleted), err)
		}()
	}
	wg.Wait()

	c, err := svc.GetCampaign(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, successes)
	assert.Equal(t, int64(60), c.RaisedAmount)
}

func TestUpdateRollsBackOnPanic(t *testing.T) {
	s := newDatabaseStore(t)
	ctx := context.Background()
	key := port.ContributionKey(0, "panic-check")

	assert.Panics(t, func() {
		_ = s.Update(ctx, func(tx port.KVTx) error {
			require.NoError(t, tx.Set(ctx, key, []byte("1")))
			panic("boom")
		})
	})
	require.NoError(t, s.View(ctx, func(tx port.KVTx) error {
		ok, err := tx.Has(ctx, key)
		assert.False(t, ok)
		return err
	}))
}
