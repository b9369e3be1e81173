// Package sessionx mints and verifies the signed session tokens handed to
// callers after login. Tokens are Ed25519-signed JWTs; the signing key is
// generated per process, so restarting the service invalidates sessions.
package sessionx

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default session token lifetime.
const DefaultSessionTTL = 12 * time.Hour

var ErrInvalidToken = errors.New("sessionx: invalid token")

// Claims carries the identity attributes a caller places into session state.
type Claims struct {
	jwt.RegisteredClaims

	// Name is the user's display name.
	Name string `json:"name,omitempty"`

	// Email is the user's normalized email.
	Email string `json:"email,omitempty"`

	// Admin marks administrator sessions; it gates key management.
	Admin bool `json:"admin,omitempty"`
}

// NewClaims builds minimally-correct session claims for a user.
func NewClaims(
	subject, name, email string,
	admin bool,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newJTI(),
		},
		Name:  name,
		Email: email,
		Admin: admin,
	}
}

// Signer signs and verifies session tokens with an Ed25519 key pair.
type Signer struct {
	issuer string
	priv   ed25519.PrivateKey
	pub    ed25519.PublicKey
}

// NewEphemeralSigner generates a fresh Ed25519 key pair for this process.
func NewEphemeralSigner(issuer string) (*Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("sessionx: failed to generate signing key: %w", err)
	}
	return &Signer{issuer: issuer, priv: priv, pub: pub}, nil
}

// Ready reports whether the signer holds key material.
func (s *Signer) Ready() bool {
	return s != nil && len(s.priv) > 0
}

// Mint signs the claims and returns the compact JWT.
func (s *Signer) Mint(c Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, c)
	signed, err := tok.SignedString(s.priv)
	if err != nil {
		return "", fmt.Errorf("sessionx: failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, enforcing the signing method,
// signature, expiry and issuer.
func (s *Signer) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.pub, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// newJTI returns a URL-safe random identifier for the "jti" claim.
func newJTI() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in no state to mint
		// anything; surface it loudly.
		panic(fmt.Sprintf("sessionx: failed to generate jti: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
