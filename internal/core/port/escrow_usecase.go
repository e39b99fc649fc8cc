package port

import (
	"context"

	"milestone-escrow/internal/core/domain"
)

// EscrowUseCase defines the operations exposed by the escrow engine. This
// interface represents the primary port into the application domain. Every
// mutating call runs as one load-validate-write transaction against the
// KVStore and either commits fully or leaves no trace.
type EscrowUseCase interface {
	// CreateCampaign allocates the next campaign id and stores an active
	// campaign with MilestoneCount placeholder milestones, filling the first
	// slots from req.Milestones. The caller must be authenticated as
	// req.Creator.
	CreateCampaign(ctx context.Context, req CreateCampaignReq) (uint64, error)

	// Contribute adds amount to the campaign's escrow balance. The caller
	// must be authenticated as backer.
	Contribute(ctx context.Context, campaignID uint64, backer string, amount int64) error

	// CreateMilestone overwrites or appends the milestone at position
	// req.MilestoneID. Only the campaign creator may call it, and a released
	// milestone can no longer be changed.
	CreateMilestone(ctx context.Context, req CreateMilestoneReq) error

	// ApproveMilestone records one approval from backer.
	ApproveMilestone(ctx context.Context, campaignID, milestoneID uint64, backer string) error

	// ReleaseMilestone debits an approved milestone's release amount from
	// the escrow balance. A milestone can be released at most once.
	ReleaseMilestone(ctx context.Context, campaignID, milestoneID uint64, requester string) error

	// GetCampaign returns the campaign together with its milestones.
	GetCampaign(ctx context.Context, campaignID uint64) (*domain.Campaign, error)

	// GetMilestone returns a single milestone.
	GetMilestone(ctx context.Context, campaignID, milestoneID uint64) (*domain.Milestone, error)

	// ListCampaigns returns every campaign in id order.
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)

	// DeactivateCampaign stops a campaign from accepting contributions.
	DeactivateCampaign(ctx context.Context, campaignID uint64, requester string) error

	// GetContribution returns the running total backer has contributed. A
	// backer that never contributed yields a zero amount, not an error.
	GetContribution(ctx context.Context, campaignID uint64, backer string) (*domain.Contribution, error)
}

// CreateCampaignReq carries the arguments of CreateCampaign. The campaign
// gets max(MilestoneCount, len(Milestones)) milestones.
type CreateCampaignReq struct {
	Creator        string
	Title          string
	Description    string
	TargetAmount   int64
	MilestoneCount uint64
	Milestones     []MilestoneDraft
}

// MilestoneDraft describes a milestone defined together with its campaign.
type MilestoneDraft struct {
	Title             string
	Description       string
	ReleaseAmount     int64
	RequiredApprovals uint64
}

// CreateMilestoneReq carries the arguments of CreateMilestone.
type CreateMilestoneReq struct {
	CampaignID        uint64
	MilestoneID       uint64
	Title             string
	Description       string
	ReleaseAmount     int64
	RequiredApprovals uint64
}
