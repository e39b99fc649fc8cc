package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"milestone-escrow/internal/core/domain"
	"milestone-escrow/internal/core/port"
)

func getJSON(ctx context.Context, tx port.KVTx, key port.Key, v any) (bool, error) {
	raw, ok, err := tx.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err = json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func putJSON(ctx context.Context, tx port.KVTx, key port.Key, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return tx.Set(ctx, key, raw)
}

// nextCampaignID advances the persisted campaign counter inside tx.
func nextCampaignID(ctx context.Context, tx port.KVTx) (uint64, error) {
	var last uint64
	if _, err := getJSON(ctx, tx, port.CounterKey(), &last); err != nil {
		return 0, err
	}
	next := last + 1
	if err := putJSON(ctx, tx, port.CounterKey(), next); err != nil {
		return 0, err
	}
	return next, nil
}

func lastCampaignID(ctx context.Context, tx port.KVTx) (uint64, error) {
	var last uint64
	_, err := getJSON(ctx, tx, port.CounterKey(), &last)
	return last, err
}

// loadCampaign reads the campaign record without its milestones.
func loadCampaign(ctx context.Context, tx port.KVTx, id uint64) (*domain.Campaign, error) {
	var c domain.Campaign
	ok, err := getJSON(ctx, tx, port.CampaignKey(id), &c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}
	return &c, nil
}

func loadCampaignWithMilestones(ctx context.Context, tx port.KVTx, id uint64) (*domain.Campaign, error) {
	c, err := loadCampaign(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	c.Milestones = make([]domain.Milestone, 0, c.MilestoneCount)
	for mid := uint64(1); mid <= c.MilestoneCount; mid++ {
		m, err := loadMilestone(ctx, tx, id, mid)
		if err != nil {
			return nil, err
		}
		c.Milestones = append(c.Milestones, *m)
	}
	return c, nil
}

// saveCampaign writes the campaign record. Milestones live under their own
// keys and are not embedded.
func saveCampaign(ctx context.Context, tx port.KVTx, c *domain.Campaign) error {
	rec := *c
	rec.Milestones = nil
	return putJSON(ctx, tx, port.CampaignKey(c.ID), rec)
}

func loadMilestone(ctx context.Context, tx port.KVTx, campaignID, id uint64) (*domain.Milestone, error) {
	if id == 0 {
		return nil, domain.ErrMilestoneNotFound
	}
	var m domain.Milestone
	ok, err := getJSON(ctx, tx, port.MilestoneKey(campaignID, id), &m)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrMilestoneNotFound
	}
	return &m, nil
}

func saveMilestone(ctx context.Context, tx port.KVTx, m *domain.Milestone) error {
	return putJSON(ctx, tx, port.MilestoneKey(m.CampaignID, m.ID), m)
}

// loadContribution returns the backer's running total, zero-valued when the
// backer never contributed.
func loadContribution(ctx context.Context, tx port.KVTx, campaignID uint64, backer string) (*domain.Contribution, error) {
	c := domain.Contribution{CampaignID: campaignID, Backer: backer}
	if _, err := getJSON(ctx, tx, port.ContributionKey(campaignID, backer), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func saveContribution(ctx context.Context, tx port.KVTx, c *domain.Contribution) error {
	return putJSON(ctx, tx, port.ContributionKey(c.CampaignID, c.Backer), c)
}
