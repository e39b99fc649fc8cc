package domain

import (
	"math"
	"time"
)

// Campaign represents a crowdfunding campaign whose raised funds are held in
// escrow until milestones are released to the creator.
// Amounts are stored in integer units (e.g. cents).
type Campaign struct {
	ID                  uint64      `json:"id"`
	Creator             string      `json:"creator"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	TargetAmount        int64       `json:"target_amount"` // informational only
	RaisedAmount        int64       `json:"raised_amount"` // escrow balance
	IsActive            bool        `json:"is_active"`
	MilestoneCount      uint64      `json:"milestone_count"`
	CompletedMilestones uint64      `json:"completed_milestones"`
	CreatedAt           time.Time   `json:"created_at"`
	Milestones          []Milestone `json:"milestones,omitempty"`
}

// NewCampaign builds an active campaign with zeroed accounting and
// milestoneCount placeholder milestones.
func NewCampaign(id uint64, creator, title, description string, target int64, milestoneCount uint64, now time.Time) (Campaign, error) {
	if target < 0 {
		return Campaign{}, ErrInvalidAmount
	}
	c := Campaign{
		ID:             id,
		Creator:        creator,
		Title:          title,
		Description:    description,
		TargetAmount:   target,
		IsActive:       true,
		MilestoneCount: milestoneCount,
		CreatedAt:      now.UTC(),
		Milestones:     make([]Milestone, 0, milestoneCount),
	}
	for i := uint64(1); i <= milestoneCount; i++ {
		c.Milestones = append(c.Milestones, PlaceholderMilestone(id, i))
	}
	return c, nil
}

// Contribute adds amount to the escrow balance.
func (c *Campaign) Contribute(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !c.IsActive {
		return ErrCampaignInactive
	}
	if c.RaisedAmount > math.MaxInt64-amount {
		return ErrAmountOverflow
	}
	c.RaisedAmount += amount
	return nil
}

// Deactivate stops the campaign from accepting contributions. It only
// succeeds for the creator and is a no-op on an inactive campaign.
func (c *Campaign) Deactivate(requester string) error {
	if requester != c.Creator {
		return ErrNotCreator
	}
	c.IsActive = false
	return nil
}

// Release debits the milestone's release amount from the escrow balance and
// marks the milestone completed. Nothing is modified when a check fails.
func (c *Campaign) Release(m *Milestone, requester string) error {
	if requester != c.Creator {
		return ErrNotCreator
	}
	if m.IsCompleted {
		return ErrAlreadyCompleted
	}
	if !m.IsApproved {
		return ErrNotApproved
	}
	if c.RaisedAmount < m.ReleaseAmount {
		return ErrInsufficientFunds
	}
	c.RaisedAmount -= m.ReleaseAmount
	c.CompletedMilestones++
	m.ReleasedAmount = m.ReleaseAmount
	m.IsCompleted = true
	return nil
}
