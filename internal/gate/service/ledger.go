package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/keygate/internal/gate/domain"
	"github.com/aussiebroadwan/keygate/internal/gate/store"
	"github.com/aussiebroadwan/keygate/pkg/cryptox"
	"github.com/aussiebroadwan/keygate/pkg/idx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

// LedgerService owns the invitation-key ledger: issuing keys, redeeming them
// atomically, and the startup seed. It is the only code path that writes the
// invite_keys table.
type LedgerService struct {
	Store store.Store
}

// IssueParams describes a key to issue. Key is optional; when empty a
// high-entropy token is generated.
type IssueParams struct {
	Key       string
	Label     string
	MaxUses   int
	ExpiresAt *time.Time
	CreatedBy string
}

// Issue creates a new invitation key and returns the stored record,
// including the raw token.
func (s *LedgerService) Issue(ctx context.Context, p IssueParams) (domain.InviteKey, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate capacity.
	if p.MaxUses < 1 {
		log.Warn("attempted to issue key with non-positive capacity",
			slog.Int("max_uses", p.MaxUses),
		)
		return domain.InviteKey{}, ErrInvalidIssueRequest
	}

	// 2. Reject an expiry already in the past; the key would be born dead.
	if p.ExpiresAt != nil && !p.ExpiresAt.After(time.Now()) {
		log.Warn("attempted to issue key with past expiry",
			slog.Time("expires_at", *p.ExpiresAt),
		)
		return domain.InviteKey{}, ErrInvalidIssueRequest
	}

	// 3. Generate a token unless the caller supplied one.
	token := p.Key
	if token == "" {
		var err error
		token, err = cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			log.Error("failed to generate invitation key token", slog.Any("error", err))
			return domain.InviteKey{}, err
		}
	}

	key := domain.InviteKey{
		ID:        idx.New().String(),
		Key:       token,
		Label:     p.Label,
		MaxUses:   p.MaxUses,
		UsedCount: 0,
		Active:    true,
		ExpiresAt: p.ExpiresAt,
		CreatedBy: p.CreatedBy,
	}

	// 4. Persist. A caller-supplied token may collide with an existing key.
	if err := s.Store.InviteKeys().CreateInviteKey(ctx, key); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("attempted to issue key with already-used token")
			return domain.InviteKey{}, ErrInvalidIssueRequest
		}
		log.Error("failed to create invitation key", slog.Any("error", err))
		return domain.InviteKey{}, err
	}

	log.Info("invitation key issued",
		slog.String("key_id", key.ID),
		slog.String("label", key.Label),
		slog.Int("max_uses", key.MaxUses),
		slog.String("created_by", key.CreatedBy),
	)

	return key, nil
}

// ValidateAndConsume redeems an invitation key: exact lookup, activity and
// expiry checks, then an atomic capacity-guarded increment of used_count.
// On success the consumption is final; there is no refund path.
func (s *LedgerService) ValidateAndConsume(ctx context.Context, token string) error {
	log := slogx.FromContext(ctx)
	now := time.Now()

	// 1. Exact string lookup. Absent keys and inactive keys are the same
	// condition to the caller.
	key, err := s.Store.InviteKeys().GetInviteKeyByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("redemption attempted with unknown key")
			return ErrKeyInvalid
		}
		log.Error("failed to fetch invitation key", slog.Any("error", err))
		return err
	}

	if status := classify(log, key, now); status != nil {
		return status
	}

	// 2. Atomic consume. The storage layer re-checks used_count < max_uses
	// inside the UPDATE, so a read-then-write race cannot overshoot
	// capacity no matter how many callers redeem this key concurrently.
	consumed, err := s.Store.InviteKeys().ConsumeInviteKey(ctx, key.ID, now)
	if err != nil {
		log.Error("failed to consume invitation key",
			slog.String("key_id", key.ID),
			slog.Any("error", err),
		)
		return err
	}
	if !consumed {
		// Lost the race: someone else took the last use (or deactivated the
		// key) between our read and the update. Re-read for the precise
		// reason; capacity is by far the common case.
		fresh, err := s.Store.InviteKeys().GetInviteKeyByID(ctx, key.ID)
		if err == nil {
			if status := classify(log, fresh, now); status != nil {
				return status
			}
		}
		return ErrKeyExhausted
	}

	log.Info("invitation key consumed",
		slog.String("key_id", key.ID),
		slog.Int("used_count", key.UsedCount+1),
		slog.Int("max_uses", key.MaxUses),
	)
	return nil
}

// classify maps a key's state to its redemption error, or nil if the key is
// currently redeemable. Order matters: inactive beats expired beats exhausted.
func classify(log *slog.Logger, key domain.InviteKey, now time.Time) error {
	if !key.Active {
		log.Warn("redemption attempted with deactivated key",
			slog.String("key_id", key.ID),
		)
		return ErrKeyInvalid
	}
	if key.BadExpiry {
		// Unparseable stored expiry: enforce nothing rather than locking out
		// a legitimate key, but make noise so an operator fixes the record.
		log.Warn("invitation key has unparseable expiry, not enforcing",
			slog.String("key_id", key.ID),
		)
	}
	if key.Expired(now) {
		log.Warn("redemption attempted with expired key",
			slog.String("key_id", key.ID),
			slog.Time("expires_at", *key.ExpiresAt),
		)
		return ErrKeyExpired
	}
	if key.UsedCount >= key.MaxUses {
		log.Warn("redemption attempted with exhausted key",
			slog.String("key_id", key.ID),
			slog.Int("max_uses", key.MaxUses),
		)
		return ErrKeyExhausted
	}
	return nil
}

// Seed idempotently installs a master invitation key from deployment
// configuration. The token value is passed in explicitly so the ledger never
// reads ambient process state; re-running with the same token is a no-op.
func (s *LedgerService) Seed(ctx context.Context, token, label string, maxUses int) error {
	log := slogx.FromContext(ctx)

	if token == "" {
		return nil // nothing to seed
	}
	if maxUses < 1 {
		return ErrInvalidIssueRequest
	}

	_, err := s.Store.InviteKeys().GetInviteKeyByToken(ctx, token)
	if err == nil {
		log.Debug("master invitation key already seeded")
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	key := domain.InviteKey{
		ID:      idx.New().String(),
		Key:     token,
		Label:   label,
		MaxUses: maxUses,
		Active:  true,
	}
	if err := s.Store.InviteKeys().CreateInviteKey(ctx, key); err != nil {
		// Two processes racing the seed: the unique constraint makes the
		// loser's insert a duplicate, which is the idempotent outcome.
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	log.Info("master invitation key seeded",
		slog.String("key_id", key.ID),
		slog.Int("max_uses", key.MaxUses),
	)
	return nil
}

// List returns every key in the ledger, newest first. Exhausted and expired
// keys are included; the ledger is also the audit trail.
func (s *LedgerService) List(ctx context.Context) ([]domain.InviteKey, error) {
	return s.Store.InviteKeys().ListInviteKeys(ctx)
}

// Deactivate permanently disables a key regardless of remaining capacity.
func (s *LedgerService) Deactivate(ctx context.Context, id string) error {
	log := slogx.FromContext(ctx)

	if err := s.Store.InviteKeys().DeactivateInviteKey(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrKeyInvalid
		}
		log.Error("failed to deactivate invitation key",
			slog.String("key_id", id),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("invitation key deactivated", slog.String("key_id", id))
	return nil
}
