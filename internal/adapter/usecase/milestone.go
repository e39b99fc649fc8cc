package usecase

import (
	"context"

	"milestone-escrow/internal/core/domain"
	"milestone-escrow/internal/core/port"
)

// CreateMilestone overwrites the milestone at req.MilestoneID or, when the id
// lies past the end of the sequence, grows the sequence with placeholders up
// to it. Ids above the configured milestone cap are rejected. A completed
// milestone is frozen and yields domain.ErrAlreadyCompleted.
func (u *EscrowUseCase) CreateMilestone(ctx context.Context, req port.CreateMilestoneReq) error {
	if req.MilestoneID == 0 || req.MilestoneID > u.maxMilestones {
		return domain.ErrInvalidMilestone
	}
	return u.update(ctx, func(tx port.KVTx) ([]domain.Event, error) {
		c, err := loadCampaign(ctx, tx, req.CampaignID)
		if err != nil {
			return nil, err
		}
		if err = u.auth.RequireIdentity(ctx, c.Creator); err != nil {
			return nil, err
		}

		var m *domain.Milestone
		if req.MilestoneID <= c.MilestoneCount {
			if m, err = loadMilestone(ctx, tx, c.ID, req.MilestoneID); err != nil {
				return nil, err
			}
		} else {
			for id := c.MilestoneCount + 1; id < req.MilestoneID; id++ {
				gap := domain.PlaceholderMilestone(c.ID, id)
				if err = saveMilestone(ctx, tx, &gap); err != nil {
					return nil, err
				}
			}
			slot := domain.PlaceholderMilestone(c.ID, req.MilestoneID)
			m = &slot
			c.MilestoneCount = req.MilestoneID
			if err = saveCampaign(ctx, tx, c); err != nil {
				return nil, err
			}
		}

		if err = m.Update(req.Title, req.Description, req.ReleaseAmount, req.RequiredApprovals); err != nil {
			return nil, err
		}
		if err = saveMilestone(ctx, tx, m); err != nil {
			return nil, err
		}
		return []domain.Event{
			domain.NewEvent(domain.EventMilestoneCreated, c.ID, m.ID, c.Creator, m.ReleaseAmount, u.now()),
		}, nil
	})
}

// ApproveMilestone records an approval from backer. Under the distinct
// policy a repeated approval from the same identity fails with
// domain.ErrAlreadyApproved and changes nothing.
func (u *EscrowUseCase) ApproveMilestone(ctx context.Context, campaignID, milestoneID uint64, backer string) error {
	if err := u.auth.RequireIdentity(ctx, backer); err != nil {
		return err
	}
	return u.update(ctx, func(tx port.KVTx) ([]domain.Event, error) {
		if _, err := loadCampaign(ctx, tx, campaignID); err != nil {
			return nil, err
		}
		m, err := loadMilestone(ctx, tx, campaignID, milestoneID)
		if err != nil {
			return nil, err
		}
		if u.requireBacker {
			contrib, err := loadContribution(ctx, tx, campaignID, backer)
			if err != nil {
				return nil, err
			}
			if contrib.Amount <= 0 {
				return nil, domain.ErrNotBacker
			}
		}
		if err = m.Approve(backer, u.policy); err != nil {
			return nil, err
		}
		if err = saveMilestone(ctx, tx, m); err != nil {
			return nil, err
		}
		return []domain.Event{
			domain.NewEvent(domain.EventMilestoneApproved, campaignID, milestoneID, backer, 0, u.now()),
		}, nil
	})
}

// ReleaseMilestone moves the milestone's release amount out of escrow. The
// campaign and milestone are written together; a second call on the same
// milestone fails with domain.ErrAlreadyCompleted and never debits twice.
func (u *EscrowUseCase) ReleaseMilestone(ctx context.Context, campaignID, milestoneID uint64, requester string) error {
	return u.update(ctx, func(tx port.KVTx) ([]domain.Event, error) {
		c, err := loadCampaign(ctx, tx, campaignID)
		if err != nil {
			return nil, err
		}
		m, err := loadMilestone(ctx, tx, campaignID, milestoneID)
		if err != nil {
			return nil, err
		}
		if requester != c.Creator {
			return nil, domain.ErrNotCreator
		}
		if err = u.auth.RequireIdentity(ctx, requester); err != nil {
			return nil, err
		}
		if err = c.Release(m, requester); err != nil {
			return nil, err
		}
		if err = saveMilestone(ctx, tx, m); err != nil {
			return nil, err
		}
		if err = saveCampaign(ctx, tx, c); err != nil {
			return nil, err
		}
		return []domain.Event{
			domain.NewEvent(domain.EventMilestoneReleased, campaignID, milestoneID, requester, m.ReleasedAmount, u.now()),
		}, nil
	})
}

// GetMilestone returns one milestone of an existing campaign.
func (u *EscrowUseCase) GetMilestone(ctx context.Context, campaignID, milestoneID uint64) (*domain.Milestone, error) {
	var m *domain.Milestone
	err := u.store.View(ctx, func(tx port.KVTx) error {
		if _, err := loadCampaign(ctx, tx, campaignID); err != nil {
			return err
		}
		var err error
		m, err = loadMilestone(ctx, tx, campaignID, milestoneID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
