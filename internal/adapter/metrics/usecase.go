package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"milestone-escrow/internal/core/domain"
	"milestone-escrow/internal/core/port"
)

// UseCase decorates a port.EscrowUseCase with operation counters and
// latency histograms.
type UseCase struct {
	next     port.EscrowUseCase
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ port.EscrowUseCase = (*UseCase)(nil)

// NewUseCase registers the escrow collectors on reg and wraps next.
func NewUseCase(next port.EscrowUseCase, reg prometheus.Registerer) (*UseCase, error) {
	u := &UseCase{
		next: next,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "escrow",
			Name:      "operations_total",
			Help:      "Escrow operations by name and outcome.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "escrow",
			Name:      "operation_duration_seconds",
			Help:      "Escrow operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{u.ops, u.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (u *UseCase) observe(op string, start time.Time, err error) {
	u.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	u.ops.WithLabelValues(op, result(err)).Inc()
}

// result collapses an error into a low-cardinality label value.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCampaignNotFound), errors.Is(err, domain.ErrMilestoneNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrNotCreator), errors.Is(err, domain.ErrNotBacker):
		return "denied"
	case errors.Is(err, port.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrAlreadyCompleted), errors.Is(err, domain.ErrNotApproved),
		errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrCampaignInactive),
		errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidMilestone),
		errors.Is(err, domain.ErrAlreadyApproved), errors.Is(err, domain.ErrAmountOverflow):
		return "rejected"
	default:
		return "error"
	}
}

func (u *UseCase) CreateCampaign(ctx context.Context, req port.CreateCampaignReq) (id uint64, err error) {
	defer func(start time.Time) { u.observe("create_campaign", start, err) }(time.Now())
	return u.next.CreateCampaign(ctx, req)
}

func (u *UseCase) Contribute(ctx context.Context, campaignID uint64, backer string, amount int64) (err error) {
	defer func(start time.Time) { u.observe("contribute", start, err) }(time.Now())
	return u.next.Contribute(ctx, campaignID, backer, amount)
}

func (u *UseCase) CreateMilestone(ctx context.Context, req port.CreateMilestoneReq) (err error) {
	defer func(start time.Time) { u.observe("create_milestone", start, err) }(time.Now())
	return u.next.CreateMilestone(ctx, req)
}

func (u *UseCase) ApproveMilestone(ctx context.Context, campaignID, milestoneID uint64, backer string) (err error) {
	defer func(start time.Time) { u.observe("approve_milestone", start, err) }(time.Now())
	return u.next.ApproveMilestone(ctx, campaignID, milestoneID, backer)
}

func (u *UseCase) ReleaseMilestone(ctx context.Context, campaignID, milestoneID uint64, requester string) (err error) {
	defer func(start time.Time) { u.observe("release_milestone", start, err) }(time.Now())
	return u.next.ReleaseMilestone(ctx, campaignID, milestoneID, requester)
}

func (u *UseCase) GetCampaign(ctx context.Context, campaignID uint64) (c *domain.Campaign, err error) {
	defer func(start time.Time) { u.observe("get_campaign", start, err) }(time.Now())
	return u.next.GetCampaign(ctx, campaignID)
}

func (u *UseCase) GetMilestone(ctx context.Context, campaignID, milestoneID uint64) (m *domain.Milestone, err error) {
	defer func(start time.Time) { u.observe("get_milestone", start, err) }(time.Now())
	return u.next.GetMilestone(ctx, campaignID, milestoneID)
}

func (u *UseCase) ListCampaigns(ctx context.Context) (cs []domain.Campaign, err error) {
	defer func(start time.Time) { u.observe("list_campaigns", start, err) }(time.Now())
	return u.next.ListCampaigns(ctx)
}

func (u *UseCase) DeactivateCampaign(ctx context.Context, campaignID uint64, requester string) (err error) {
	defer func(start time.Time) { u.observe("deactivate_campaign", start, err) }(time.Now())
	return u.next.DeactivateCampaign(ctx, campaignID, requester)
}

func (u *UseCase) GetContribution(ctx context.Context, campaignID uint64, backer string) (c *domain.Contribution, err error) {
	defer func(start time.Time) { u.observe("get_contribution", start, err) }(time.Now())
	return u.next.GetContribution(ctx, campaignID, backer)
}
