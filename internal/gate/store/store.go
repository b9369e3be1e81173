package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/keygate/internal/gate/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	InviteKeys() InviteKeys

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a user by normalized email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email uniqueness constraint fires;
	// the constraint is the race-free duplicate check, not a prior read.
	CreateUser(ctx context.Context, u domain.User) error

	// SetAdmin flips the is_admin flag. Reserved for out-of-band
	// provisioning (the CLI); no HTTP code path calls this.
	SetAdmin(ctx context.Context, userID string, isAdmin bool) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type InviteKeys interface {
	// CreateInviteKey writes a new key record. Returns ErrAlreadyExists if
	// the key token is already present.
	CreateInviteKey(ctx context.Context, k domain.InviteKey) error

	// GetInviteKeyByToken returns a key by exact (case-sensitive) token match.
	GetInviteKeyByToken(ctx context.Context, token string) (domain.InviteKey, error)

	// GetInviteKeyByID returns a key by id.
	GetInviteKeyByID(ctx context.Context, id string) (domain.InviteKey, error)

	// ListInviteKeys returns all keys, newest first.
	ListInviteKeys(ctx context.Context) ([]domain.InviteKey, error)

	// ConsumeInviteKey increments used_count by one as a single conditional
	// update: the increment only applies while the key is active and
	// used_count < max_uses, re-checked at the storage layer. It reports
	// whether a row was updated. This is the redemption linearization point;
	// total successful consumptions can never exceed max_uses.
	ConsumeInviteKey(ctx context.Context, id string, now time.Time) (bool, error)

	// DeactivateInviteKey sets active=0. Deactivation is permanent; there is
	// no reactivation path.
	DeactivateInviteKey(ctx context.Context, id string) error
}
