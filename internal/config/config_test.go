package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milestone-escrow/internal/core/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_PERMISSIVE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.Equal(t, []string{"localhost:6379"}, cfg.Redis.Addrs)
	assert.Equal(t, "escrow", cfg.Redis.KeyPrefix)
	assert.False(t, cfg.AMQP.Enabled)
	assert.Equal(t, int32(10), cfg.Psql.MaxConns)
	assert.Equal(t, uint64(100), cfg.Escrow.MaxMilestones)

	policy, err := cfg.Escrow.Policy()
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalDistinct, policy)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDRS", "r1:6379,r2:6379")
	t.Setenv("ESCROW_APPROVAL_POLICY", "per_call")
	t.Setenv("ESCROW_REQUIRE_BACKER", "true")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("ESCROW_MAX_MILESTONES", "12")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, []string{"r1:6379", "r2:6379"}, cfg.Redis.Addrs)
	assert.True(t, cfg.Escrow.RequireBacker)
	assert.Equal(t, "/tmp/x.db", cfg.SQLite.Path)
	assert.Equal(t, uint64(12), cfg.Escrow.MaxMilestones)

	policy, err := cfg.Escrow.Policy()
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalPerCall, policy)
}

func TestLoadRejects(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		t.Setenv("AUTH_PERMISSIVE", "true")
		t.Setenv("STORE_BACKEND", "etcd")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("policy", func(t *testing.T) {
		t.Setenv("AUTH_PERMISSIVE", "true")
		t.Setenv("ESCROW_APPROVAL_POLICY", "quorum")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("milestone cap", func(t *testing.T) {
		t.Setenv("AUTH_PERMISSIVE", "true")
		t.Setenv("ESCROW_MAX_MILESTONES", "0")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("secret", func(t *testing.T) {
		_, err := Load()
		assert.Error(t, err)
	})
}
