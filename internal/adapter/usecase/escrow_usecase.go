package usecase

import (
	"context"
	"log/slog"
	"time"

	"milestone-escrow/internal/core/domain"
	"milestone-escrow/internal/core/port"
)

// DefaultMaxMilestones bounds the milestone sequence of a campaign when
// Options.MaxMilestones is zero.
const DefaultMaxMilestones = 100

// Options tunes the policies the escrow engine leaves open.
type Options struct {
	// ApprovalPolicy selects how approvals are counted. Empty means
	// domain.ApprovalDistinct.
	ApprovalPolicy domain.ApprovalPolicy
	// RequireBacker restricts approvals to identities with a recorded
	// contribution to the campaign.
	RequireBacker bool
	// MaxMilestones caps how many milestones a campaign can hold.
	MaxMilestones uint64
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// EscrowUseCase provides the campaign and milestone state machine. It
// orchestrates the domain, the KV store and the authorizer to implement
// port.EscrowUseCase. Every mutating operation is a single store transaction;
// events are published only after that transaction commits.
type EscrowUseCase struct {
	store  port.KVStore
	auth   port.Authorizer
	events port.EventPublisher
	logger *slog.Logger

	policy        domain.ApprovalPolicy
	requireBacker bool
	maxMilestones uint64
	now           func() time.Time
}

var _ port.EscrowUseCase = (*EscrowUseCase)(nil)

// NewEscrowUseCase creates a new usecase. events and logger may be nil.
func NewEscrowUseCase(store port.KVStore, auth port.Authorizer, events port.EventPublisher, logger *slog.Logger, opts Options) *EscrowUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.ApprovalPolicy == "" {
		opts.ApprovalPolicy = domain.ApprovalDistinct
	}
	if opts.MaxMilestones == 0 {
		opts.MaxMilestones = DefaultMaxMilestones
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &EscrowUseCase{
		store:         store,
		auth:          auth,
		events:        events,
		logger:        logger,
		policy:        opts.ApprovalPolicy,
		requireBacker: opts.RequireBacker,
		maxMilestones: opts.MaxMilestones,
		now:           opts.Now,
	}
}

// update runs fn in one store transaction and publishes the events it
// returns once the transaction has committed.
func (u *EscrowUseCase) update(ctx context.Context, fn func(tx port.KVTx) ([]domain.Event, error)) error {
	var events []domain.Event
	err := u.store.Update(ctx, func(tx port.KVTx) error {
		var err error
		events, err = fn(tx)
		return err
	})
	if err != nil {
		return err
	}
	u.publish(ctx, events)
	return nil
}

func (u *EscrowUseCase) publish(ctx context.Context, events []domain.Event) {
	for _, ev := range events {
		u.logger.Info("escrow event",
			slog.String("type", string(ev.Type)),
			slog.Uint64("campaign_id", ev.CampaignID),
			slog.Uint64("milestone_id", ev.MilestoneID),
			slog.String("actor", ev.Actor),
			slog.Int64("amount", ev.Amount),
		)
		if u.events == nil {
			continue
		}
		if err := u.events.Publish(ctx, ev); err != nil {
			u.logger.Warn("publish event failed",
				slog.String("event_id", ev.ID),
				slog.String("type", string(ev.Type)),
				slog.Any("error", err),
			)
		}
	}
}
