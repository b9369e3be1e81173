package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/keygate/internal/gate/domain"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

// RegistrationService composes the invitation ledger and the credential
// store: consume a key, then create the account.
type RegistrationService struct {
	Ledger      *LedgerService
	Credentials *CredentialService
}

// Register creates a new account gated on a valid invitation key.
//
// The key is consumed before the user record is created. If user creation
// then fails (duplicate email), the consumption stands: the ledger has no
// refund path, and callers must treat consumption as final the moment it
// succeeds. This mirrors the ordering the gate has always had rather than
// adding compensation logic.
func (s *RegistrationService) Register(
	ctx context.Context,
	name, email, rawPassword, inviteKey string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. All four fields are required, whitespace doesn't count.
	name = strings.TrimSpace(name)
	inviteKey = strings.TrimSpace(inviteKey)
	if name == "" || strings.TrimSpace(email) == "" ||
		strings.TrimSpace(rawPassword) == "" || inviteKey == "" {
		log.Warn("registration missing required fields")
		return domain.User{}, ErrMissingFields
	}

	// 2. Redeem the invitation key. On failure the counter is untouched and
	// the specific reason propagates.
	if err := s.Ledger.ValidateAndConsume(ctx, inviteKey); err != nil {
		return domain.User{}, err
	}

	// 3. Create the account.
	user, err := s.Credentials.Create(ctx, name, email, rawPassword)
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}
