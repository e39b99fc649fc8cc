package domain

import "slices"

// Milestone is a fixed-amount disbursement gated by an approval threshold.
// Its ID is its 1-based position within the owning campaign.
type Milestone struct {
	ID                uint64   `json:"id"`
	CampaignID        uint64   `json:"campaign_id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	ReleaseAmount     int64    `json:"release_amount"`
	ApprovalCount     uint64   `json:"approval_count"`
	RequiredApprovals uint64   `json:"required_approvals"`
	IsApproved        bool     `json:"is_approved"`
	IsCompleted       bool     `json:"is_completed"`
	ReleasedAmount    int64    `json:"released_amount"`
	Approvers         []string `json:"approvers,omitempty"`
}

// PlaceholderMilestone returns an empty slot at position id.
func PlaceholderMilestone(campaignID, id uint64) Milestone {
	return Milestone{ID: id, CampaignID: campaignID, RequiredApprovals: 1}
}

// Threshold is the number of approvals needed, defaulting to 1 when unset.
func (m Milestone) Threshold() uint64 {
	if m.RequiredApprovals == 0 {
		return 1
	}
	return m.RequiredApprovals
}

// Update overwrites the editable fields of a milestone that has not been
// released. Recorded approvals are kept and re-evaluated against the new
// threshold; an approved milestone stays approved.
func (m *Milestone) Update(title, description string, releaseAmount int64, requiredApprovals uint64) error {
	if m.IsCompleted {
		return ErrAlreadyCompleted
	}
	if releaseAmount < 0 {
		return ErrInvalidAmount
	}
	m.Title = title
	m.Description = description
	m.ReleaseAmount = releaseAmount
	m.RequiredApprovals = requiredApprovals
	if m.RequiredApprovals == 0 {
		m.RequiredApprovals = 1
	}
	m.refreshApproval()
	return nil
}

// Approve records one approval from approver under the given policy.
func (m *Milestone) Approve(approver string, policy ApprovalPolicy) error {
	if m.IsCompleted {
		return ErrAlreadyCompleted
	}
	switch policy {
	case ApprovalPerCall:
		m.ApprovalCount++
	default:
		if slices.Contains(m.Approvers, approver) {
			return ErrAlreadyApproved
		}
		m.Approvers = append(m.Approvers, approver)
		m.ApprovalCount = uint64(len(m.Approvers))
	}
	m.refreshApproval()
	return nil
}

func (m *Milestone) refreshApproval() {
	if m.ApprovalCount >= m.Threshold() {
		m.IsApproved = true
	}
}
