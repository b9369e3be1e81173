package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/keygate/internal/gate/domain"
	"github.com/aussiebroadwan/keygate/internal/gate/store"
	"github.com/aussiebroadwan/keygate/pkg/sessionx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

// SessionService turns a successful authentication into a signed session
// token. Session storage and transport stay with the caller; this service
// only mints the identity the caller puts into session state.
type SessionService struct {
	Store       store.Store
	Credentials *CredentialService
	Signer      *sessionx.Signer
	Issuer      string
	TTL         time.Duration
}

// Login authenticates and, on success, mints a session token carrying the
// user's identity attributes (id, name, email, admin flag).
func (s *SessionService) Login(ctx context.Context, email, rawPassword string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Credentials.Authenticate(ctx, email, rawPassword)
	if err != nil {
		return domain.User{}, "", err
	}

	claims := sessionx.NewClaims(
		user.ID, user.Name, user.Email, user.IsAdmin,
		s.ttl(), s.Issuer, time.Now(),
	)
	token, err := s.Signer.Mint(claims)
	if err != nil {
		log.Error("failed to mint session token",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return domain.User{}, "", err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// Identity returns the current identity record for a verified session
// subject, re-read from the store so revocations of the admin flag are
// reflected without waiting for token expiry.
func (s *SessionService) Identity(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return sessionx.DefaultSessionTTL
	}
	return s.TTL
}
