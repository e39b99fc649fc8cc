package auth

import "context"

type principalKey struct{}

// WithPrincipal returns a copy of ctx attributed to principal.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFrom returns the principal ctx is attributed to, or "" when the
// caller is anonymous.
func PrincipalFrom(ctx context.Context) string {
	p, _ := ctx.Value(principalKey{}).(string)
	return p
}
