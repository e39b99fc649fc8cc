package usecase

import (
	"context"
	"math"

	"milestone-escrow/internal/core/domain"
	"milestone-escrow/internal/core/port"
)

// CreateCampaign allocates the next id from the persisted counter and stores
// the campaign and its milestones in the same transaction, so the counter
// never advances without the campaign being written. Drafts in req.Milestones
// fill the first slots; the rest stay placeholders.
func (u *EscrowUseCase) CreateCampaign(ctx context.Context, req port.CreateCampaignReq) (uint64, error) {
	count := max(req.MilestoneCount, uint64(len(req.Milestones)))
	if count > u.maxMilestones {
		return 0, domain.ErrInvalidMilestone
	}
	if err := u.auth.RequireIdentity(ctx, req.Creator); err != nil {
		return 0, err
	}
	var id uint64
	err := u.update(ctx, func(tx port.KVTx) ([]domain.Event, error) {
		next, err := nextCampaignID(ctx, tx)
		if err != nil {
			return nil, err
		}
		now := u.now()
		c, err := domain.NewCampaign(next, req.Creator, req.Title, req.Description, req.TargetAmount, count, now)
		if err != nil {
			return nil, err
		}
		events := []domain.Event{
			domain.NewEvent(domain.EventCampaignCreated, next, 0, req.Creator, req.TargetAmount, now),
		}
		for i, d := range req.Milestones {
			m := &c.Milestones[i]
			if err = m.Update(d.Title, d.Description, d.ReleaseAmount, d.RequiredApprovals); err != nil {
				return nil, err
			}
			events = append(events, domain.NewEvent(domain.EventMilestoneCreated, next, m.ID, req.Creator, m.ReleaseAmount, now))
		}
		for i := range c.Milestones {
			if err = saveMilestone(ctx, tx, &c.Milestones[i]); err != nil {
				return nil, err
			}
		}
		if err = saveCampaign(ctx, tx, &c); err != nil {
			return nil, err
		}
		id = next
		return events, nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Contribute adds amount to the campaign's escrow balance and to the
// backer's running total.
func (u *EscrowUseCase) Contribute(ctx context.Context, campaignID uint64, backer string, amount int64) error {
	if err := u.auth.RequireIdentity(ctx, backer); err != nil {
		return err
	}
	return u.update(ctx, func(tx port.KVTx) ([]domain.Event, error) {
		c, err := loadCampaign(ctx, tx, campaignID)
		if err != nil {
			return nil, err
		}
		if err = c.Contribute(amount); err != nil {
			return nil, err
		}
		contrib, err := loadContribution(ctx, tx, campaignID, backer)
		if err != nil {
			return nil, err
		}
		if contrib.Amount > math.MaxInt64-amount {
			return nil, domain.ErrAmountOverflow
		}
		now := u.now()
		contrib.Amount += amount
		contrib.UpdatedAt = now.UTC()
		if err = saveContribution(ctx, tx, contrib); err != nil {
			return nil, err
		}
		if err = saveCampaign(ctx, tx, c); err != nil {
			return nil, err
		}
		return []domain.Event{
			domain.NewEvent(domain.EventCampaignContributed, campaignID, 0, backer, amount, now),
		}, nil
	})
}

// DeactivateCampaign switches the campaign to inactive. Deactivating an
// inactive campaign succeeds without writing anything.
func (u *EscrowUseCase) DeactivateCampaign(ctx context.Context, campaignID uint64, requester string) error {
	return u.update(ctx, func(tx port.KVTx) ([]domain.Event, error) {
		c, err := loadCampaign(ctx, tx, campaignID)
		if err != nil {
			return nil, err
		}
		if requester != c.Creator {
			return nil, domain.ErrNotCreator
		}
		if err = u.auth.RequireIdentity(ctx, requester); err != nil {
			return nil, err
		}
		if !c.IsActive {
			return nil, nil
		}
		if err = c.Deactivate(requester); err != nil {
			return nil, err
		}
		if err = saveCampaign(ctx, tx, c); err != nil {
			return nil, err
		}
		return []domain.Event{
			domain.NewEvent(domain.EventCampaignDeactivated, campaignID, 0, requester, 0, u.now()),
		}, nil
	})
}

// GetCampaign returns the campaign with its milestones. A missing campaign is
// reported as domain.ErrCampaignNotFound rather than a zero-valued record.
func (u *EscrowUseCase) GetCampaign(ctx context.Context, campaignID uint64) (*domain.Campaign, error) {
	var c *domain.Campaign
	err := u.store.View(ctx, func(tx port.KVTx) error {
		var err error
		c, err = loadCampaignWithMilestones(ctx, tx, campaignID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCampaigns walks the id sequence up to the current counter value.
// Ids without a campaign record are skipped.
func (u *EscrowUseCase) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	var out []domain.Campaign
	err := u.store.View(ctx, func(tx port.KVTx) error {
		last, err := lastCampaignID(ctx, tx)
		if err != nil {
			return err
		}
		out = make([]domain.Campaign, 0, min(last, 64))
		for id := uint64(1); id <= last; id++ {
			ok, err := tx.Has(ctx, port.CampaignKey(id))
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			c, err := loadCampaignWithMilestones(ctx, tx, id)
			if err != nil {
				return err
			}
			out = append(out, *c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetContribution returns what backer has put into the campaign so far.
func (u *EscrowUseCase) GetContribution(ctx context.Context, campaignID uint64, backer string) (*domain.Contribution, error) {
	var contrib *domain.Contribution
	err := u.store.View(ctx, func(tx port.KVTx) error {
		if _, err := loadCampaign(ctx, tx, campaignID); err != nil {
			return err
		}
		var err error
		contrib, err = loadContribution(ctx, tx, campaignID, backer)
		return err
	})
	if err != nil {
		return nil, err
	}
	return contrib, nil
}
