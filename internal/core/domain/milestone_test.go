package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdDefaultsToOne(t *testing.T) {
	assert.Equal(t, uint64(1), Milestone{}.Threshold())
	assert.Equal(t, uint64(3), Milestone{RequiredApprovals: 3}.Threshold())
}

func TestApproveDistinct(t *testing.T) {
	m := PlaceholderMilestone(1, 1)
	require.NoError(t, m.Update("", "ship", 10, 3))

	require.NoError(t, m.Approve("bob", ApprovalDistinct))
	assert.ErrorIs(t, m.Approve("bob", ApprovalDistinct), ErrAlreadyApproved)
	assert.Equal(t, uint64(1), m.ApprovalCount)

	require.NoError(t, m.Approve("carol", ApprovalDistinct))
	assert.False(t, m.IsApproved)
	require.NoError(t, m.Approve("dave", ApprovalDistinct))
	assert.True(t, m.IsApproved)
	assert.Equal(t, uint64(3), m.ApprovalCount)
	assert.Equal(t, []string{"bob", "carol", "dave"}, m.Approvers)
}

func TestApprovePerCallAllowsRepeats(t *testing.T) {
	m := PlaceholderMilestone(1, 1)
	require.NoError(t, m.Update("", "ship", 10, 2))

	require.NoError(t, m.Approve("bob", ApprovalPerCall))
	assert.False(t, m.IsApproved)
	require.NoError(t, m.Approve("bob", ApprovalPerCall))
	assert.True(t, m.IsApproved)
	assert.Equal(t, uint64(2), m.ApprovalCount)
	assert.Empty(t, m.Approvers)
}

func TestApproveCompleted(t *testing.T) {
	m := PlaceholderMilestone(1, 1)
	m.IsApproved, m.IsCompleted = true, true

	assert.ErrorIs(t, m.Approve("bob", ApprovalPerCall), ErrAlreadyCompleted)
	assert.Zero(t, m.ApprovalCount)
}

func TestUpdate(t *testing.T) {
	t.Run("sets editable fields", func(t *testing.T) {
		m := PlaceholderMilestone(1, 2)
		require.NoError(t, m.Update("Prototype", "first build", 250, 3))
		assert.Equal(t, "Prototype", m.Title)
		assert.Equal(t, "first build", m.Description)
		assert.Equal(t, int64(250), m.ReleaseAmount)
		assert.Equal(t, uint64(3), m.RequiredApprovals)
		assert.False(t, m.IsApproved)
	})

	t.Run("keeps approval when threshold rises", func(t *testing.T) {
		m := PlaceholderMilestone(1, 1)
		require.NoError(t, m.Approve("bob", ApprovalDistinct))
		require.True(t, m.IsApproved)

		require.NoError(t, m.Update("", "more", 50, 5))
		assert.True(t, m.IsApproved)
		assert.Equal(t, uint64(1), m.ApprovalCount)
	})

	t.Run("lowered threshold approves", func(t *testing.T) {
		m := PlaceholderMilestone(1, 1)
		require.NoError(t, m.Update("", "x", 1, 3))
		require.NoError(t, m.Approve("bob", ApprovalDistinct))
		require.NoError(t, m.Approve("carol", ApprovalDistinct))
		assert.False(t, m.IsApproved)

		require.NoError(t, m.Update("", "x", 1, 2))
		assert.True(t, m.IsApproved)
	})

	t.Run("zero threshold defaults to one", func(t *testing.T) {
		m := PlaceholderMilestone(1, 1)
		require.NoError(t, m.Update("", "x", 1, 0))
		assert.Equal(t, uint64(1), m.RequiredApprovals)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		m := PlaceholderMilestone(1, 1)
		assert.ErrorIs(t, m.Update("", "x", -1, 1), ErrInvalidAmount)
	})

	t.Run("frozen once completed", func(t *testing.T) {
		m := PlaceholderMilestone(1, 1)
		require.NoError(t, m.Update("", "x", 5, 1))
		m.IsApproved, m.IsCompleted, m.ReleasedAmount = true, true, 5

		assert.ErrorIs(t, m.Update("", "y", 500, 1), ErrAlreadyCompleted)
		assert.Equal(t, "x", m.Description)
		assert.Equal(t, int64(5), m.ReleaseAmount)
	})
}

func TestParseApprovalPolicy(t *testing.T) {
	for in, want := range map[string]ApprovalPolicy{
		"":         ApprovalDistinct,
		"distinct": ApprovalDistinct,
		"PER_CALL": ApprovalPerCall,
		"per-call": ApprovalPerCall,
	} {
		got, err := ParseApprovalPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseApprovalPolicy("majority")
	assert.Error(t, err)
}
