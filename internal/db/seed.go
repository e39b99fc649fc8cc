package db

import (
	"context"
	"fmt"
	"math/rand/v2"

	"milestone-escrow/internal/adapter/auth"
	"milestone-escrow/internal/core/port"
)

var (
	demoCreators = []string{"alice", "carol"}
	demoBackers  = []string{"bob", "dave", "erin"}
)

// Seed creates demo campaigns through svc so every record passes the same
// validation and events as real traffic. It does nothing when campaigns
// already exist.
func Seed(ctx context.Context, svc port.EscrowUseCase) error {
	existing, err := svc.ListCampaigns(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for i, creator := range demoCreators {
		creatorCtx := auth.WithPrincipal(ctx, creator)
		drafts := make([]port.MilestoneDraft, 0, 3)
		for phase := int64(1); phase <= 3; phase++ {
			drafts = append(drafts, port.MilestoneDraft{
				Title:             fmt.Sprintf("Phase %d", phase),
				Description:       "seeded milestone",
				ReleaseAmount:     phase * 1000,
				RequiredApprovals: 2,
			})
		}
		id, err := svc.CreateCampaign(creatorCtx, port.CreateCampaignReq{
			Creator:      creator,
			Title:        fmt.Sprintf("Demo campaign %d", i+1),
			Description:  "seeded on startup",
			TargetAmount: 10000,
			Milestones:   drafts,
		})
		if err != nil {
			return fmt.Errorf("seed campaign: %w", err)
		}

		for _, backer := range demoBackers {
			amount := 1000 + rand.Int64N(4000)
			if err = svc.Contribute(auth.WithPrincipal(ctx, backer), id, backer, amount); err != nil {
				return fmt.Errorf("seed contribution %d/%s: %w", id, backer, err)
			}
		}

		// first milestone of each campaign is ready for release
		for _, backer := range demoBackers[:2] {
			if err = svc.ApproveMilestone(auth.WithPrincipal(ctx, backer), id, 1, backer); err != nil {
				return fmt.Errorf("seed approval %d/%s: %w", id, backer, err)
			}
		}
	}
	return nil
}
