package auth

import (
	"context"
	"fmt"

	"milestone-escrow/internal/core/domain"
	"milestone-escrow/internal/core/port"
)

// ContextAuthorizer implements port.Authorizer by comparing the principal
// carried in the context (set by the HTTP middleware after verifying a
// token) with the required one.
type ContextAuthorizer struct{}

var _ port.Authorizer = ContextAuthorizer{}

// RequireIdentity fails unless ctx is attributed to principal.
func (ContextAuthorizer) RequireIdentity(ctx context.Context, principal string) error {
	caller := PrincipalFrom(ctx)
	if caller == "" {
		return fmt.Errorf("%w: anonymous caller", domain.ErrUnauthorized)
	}
	if principal == "" || caller != principal {
		return fmt.Errorf("%w: caller %q is not %q", domain.ErrUnauthorized, caller, principal)
	}
	return nil
}

// Permissive accepts every identity claim. It is meant for local
// development where no token issuer is available.
type Permissive struct{}

var _ port.Authorizer = Permissive{}

// RequireIdentity only rejects an empty principal.
func (Permissive) RequireIdentity(_ context.Context, principal string) error {
	if principal == "" {
		return fmt.Errorf("%w: empty principal", domain.ErrUnauthorized)
	}
	return nil
}
