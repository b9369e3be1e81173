package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/pkg/sessionx"
	"github.com/stretchr/testify/require"
)

func TestLoginMintsVerifiableToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := &CredentialService{Store: st}

	signer, err := sessionx.NewEphemeralSigner("keygate-test")
	require.NoError(t, err)

	sessions := &SessionService{
		Store:       st,
		Credentials: creds,
		Signer:      signer,
		Issuer:      "keygate-test",
		TTL:         time.Hour,
	}

	created, err := creds.Create(ctx, "Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	user, token, err := sessions.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
	require.NotEmpty(t, token)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, created.ID, claims.Subject)
	require.Equal(t, "alice@example.com", claims.Email)
	require.False(t, claims.Admin)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := &CredentialService{Store: st}

	signer, err := sessionx.NewEphemeralSigner("keygate-test")
	require.NoError(t, err)

	sessions := &SessionService{
		Store:       st,
		Credentials: creds,
		Signer:      signer,
		Issuer:      "keygate-test",
	}

	_, err = creds.Create(ctx, "Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, _, err = sessions.Login(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = sessions.Login(ctx, "nobody@example.com", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIdentityReflectsPromotion(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creds := &CredentialService{Store: st}

	signer, err := sessionx.NewEphemeralSigner("keygate-test")
	require.NoError(t, err)

	sessions := &SessionService{
		Store:       st,
		Credentials: creds,
		Signer:      signer,
		Issuer:      "keygate-test",
	}

	created, err := creds.Create(ctx, "Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	// Identity re-reads the store, so an out-of-band promotion shows up
	// without re-login
	require.NoError(t, st.Users().SetAdmin(ctx, created.ID, true))

	user, err := sessions.Identity(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, user.IsAdmin)
}
