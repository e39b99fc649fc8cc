package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a committed escrow state transition. It doubles as the
// routing key when events are published to a broker.
type EventType string

const (
	EventCampaignCreated     EventType = "campaign.created"
	EventCampaignContributed EventType = "campaign.contributed"
	EventCampaignDeactivated EventType = "campaign.deactivated"
	EventMilestoneCreated    EventType = "milestone.created"
	EventMilestoneApproved   EventType = "milestone.approved"
	EventMilestoneReleased   EventType = "milestone.released"
)

// Event is a record of a committed operation.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	CampaignID  uint64    `json:"campaign_id"`
	MilestoneID uint64    `json:"milestone_id,omitempty"`
	Actor       string    `json:"actor"`
	Amount      int64     `json:"amount,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(typ EventType, campaignID, milestoneID uint64, actor string, amount int64, at time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        typ,
		CampaignID:  campaignID,
		MilestoneID: milestoneID,
		Actor:       actor,
		Amount:      amount,
		OccurredAt:  at.UTC(),
	}
}
