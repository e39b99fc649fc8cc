package domain

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrCampaignInactive  = errors.New("campaign is not active")
	ErrAlreadyCompleted  = errors.New("milestone already completed")
	ErrNotApproved       = errors.New("milestone not approved")
	ErrNotCreator        = errors.New("requester is not the campaign creator")
	ErrInsufficientFunds = errors.New("insufficient funds in campaign")

	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidMilestone = errors.New("invalid milestone id")
	ErrAlreadyApproved  = errors.New("milestone already approved by this identity")
	ErrNotBacker        = errors.New("approver has not contributed to the campaign")
	ErrAmountOverflow   = errors.New("amount overflows campaign balance")
)
