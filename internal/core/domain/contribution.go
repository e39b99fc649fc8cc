package domain

import "time"

// Contribution is the running total a single backer has put into a campaign.
type Contribution struct {
	CampaignID uint64    `json:"campaign_id"`
	Backer     string    `json:"backer"`
	Amount     int64     `json:"amount"`
	UpdatedAt  time.Time `json:"updated_at"`
}
