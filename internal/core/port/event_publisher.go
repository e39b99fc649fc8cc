package port

import (
	"context"

	"milestone-escrow/internal/core/domain"
)

// EventPublisher delivers committed domain events to interested parties.
// Publication happens after the transaction commits, so a failure here never
// undoes state.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
