package sessionx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/pkg/sessionx"
	"github.com/stretchr/testify/require"
)

func TestMintAndVerify(t *testing.T) {
	signer, err := sessionx.NewEphemeralSigner("keygate-test")
	require.NoError(t, err)
	require.True(t, signer.Ready())

	now := time.Now()
	claims := sessionx.NewClaims(
		"user-123", "Alice", "alice@example.com", true,
		time.Hour, "keygate-test", now,
	)

	token, err := signer.Mint(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", parsed.Subject)
	require.Equal(t, "Alice", parsed.Name)
	require.Equal(t, "alice@example.com", parsed.Email)
	require.True(t, parsed.Admin)
	require.Equal(t, "keygate-test", parsed.Issuer)
	require.NotEmpty(t, parsed.ID, "jti should be set")
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer, err := sessionx.NewEphemeralSigner("keygate-test")
	require.NoError(t, err)

	// Minted in the past with a TTL already elapsed
	claims := sessionx.NewClaims(
		"user-123", "Alice", "alice@example.com", false,
		time.Minute, "keygate-test", time.Now().Add(-2*time.Minute),
	)

	token, err := signer.Mint(claims)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	require.ErrorIs(t, err, sessionx.ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	minter, err := sessionx.NewEphemeralSigner("someone-else")
	require.NoError(t, err)
	verifier, err := sessionx.NewEphemeralSigner("keygate-test")
	require.NoError(t, err)

	claims := sessionx.NewClaims(
		"user-123", "Alice", "alice@example.com", false,
		time.Hour, "someone-else", time.Now(),
	)
	token, err := minter.Mint(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, sessionx.ErrInvalidToken)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	a, err := sessionx.NewEphemeralSigner("keygate-test")
	require.NoError(t, err)
	b, err := sessionx.NewEphemeralSigner("keygate-test")
	require.NoError(t, err)

	claims := sessionx.NewClaims(
		"user-123", "Alice", "alice@example.com", false,
		time.Hour, "keygate-test", time.Now(),
	)
	token, err := a.Mint(claims)
	require.NoError(t, err)

	// Same issuer, different key pair
	_, err = b.Verify(token)
	require.ErrorIs(t, err, sessionx.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	signer, err := sessionx.NewEphemeralSigner("keygate-test")
	require.NoError(t, err)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := signer.Verify(raw)
		require.ErrorIs(t, err, sessionx.ErrInvalidToken, "input %q", raw)
	}
}
