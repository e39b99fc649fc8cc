package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milestone-escrow/internal/core/domain"
)

func TestContextAuthorizer(t *testing.T) {
	var a ContextAuthorizer
	ctx := context.Background()

	assert.ErrorIs(t, a.RequireIdentity(ctx, "alice"), domain.ErrUnauthorized)

	ctx = WithPrincipal(ctx, "alice")
	assert.NoError(t, a.RequireIdentity(ctx, "alice"))
	assert.ErrorIs(t, a.RequireIdentity(ctx, "bob"), domain.ErrUnauthorized)
	assert.ErrorIs(t, a.RequireIdentity(ctx, ""), domain.ErrUnauthorized)
}

func TestPermissive(t *testing.T) {
	var a Permissive
	assert.NoError(t, a.RequireIdentity(context.Background(), "anyone"))
	assert.ErrorIs(t, a.RequireIdentity(context.Background(), ""), domain.ErrUnauthorized)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService("s3cret", "escrow")
	require.NoError(t, err)

	tok, err := svc.Issue("GALICE", time.Minute)
	require.NoError(t, err)

	sub, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "GALICE", sub)
}

func TestVerifyRejects(t *testing.T) {
	svc, err := NewTokenService("s3cret", "escrow")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokenService("other", "escrow")
		require.NoError(t, err)
		tok, err := other.Issue("GALICE", time.Minute)
		require.NoError(t, err)
		_, err = svc.Verify(tok)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewTokenService("s3cret", "someone-else")
		require.NoError(t, err)
		tok, err := other.Issue("GALICE", time.Minute)
		require.NoError(t, err)
		_, err = svc.Verify(tok)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := svc.Issue("GALICE", -time.Hour)
		require.NoError(t, err)
		_, err = svc.Verify(tok)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unsigned", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "GALICE",
			Issuer:    "escrow",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Verify(tok)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("no subject", func(t *testing.T) {
		tok, err := svc.Issue("", time.Minute)
		require.NoError(t, err)
		_, err = svc.Verify(tok)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService("", "x")
	assert.Error(t, err)
}
