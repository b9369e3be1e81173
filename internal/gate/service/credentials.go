package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/keygate/internal/gate/domain"
	"github.com/aussiebroadwan/keygate/internal/gate/store"
	"github.com/aussiebroadwan/keygate/pkg/cryptox"
	"github.com/aussiebroadwan/keygate/pkg/idx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

// CredentialService holds user identity records and verifies passwords.
type CredentialService struct {
	Store store.Store
}

// NormalizeEmail is the canonical form used for uniqueness and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new user with a freshly hashed password. The email is
// normalized before storage; a duplicate is detected by the storage unique
// constraint so two concurrent registrations with the same email cannot both
// succeed.
func (s *CredentialService) Create(ctx context.Context, name, email, rawPassword string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	passwordHash, err := cryptox.HashPassword(rawPassword)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		IsAdmin:      false,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("registration attempted with already-registered email")
			return domain.User{}, ErrDuplicateEmail
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// Authenticate verifies an email/password pair. An unknown email and a wrong
// password both return ErrInvalidCredentials with no distinguishable signal,
// and the hash comparison is constant-time.
func (s *CredentialService) Authenticate(ctx context.Context, email, rawPassword string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(rawPassword, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}
