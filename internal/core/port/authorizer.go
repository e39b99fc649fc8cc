package port

import "context"

// Authorizer verifies that the calling context is attributable to a
// principal. Failures wrap domain.ErrUnauthorized.
type Authorizer interface {
	RequireIdentity(ctx context.Context, principal string) error
}
