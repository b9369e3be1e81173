package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/internal/gate/domain"
	"github.com/aussiebroadwan/keygate/internal/gate/store"
	"github.com/aussiebroadwan/keygate/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbFile := filepath.Join(t.TempDir(), "test.db")
	st, err := NewStore("file:" + dbFile + "?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestCreateInviteKeyRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	expires := time.Date(2027, 1, 2, 3, 4, 5, 0, time.UTC)
	key := domain.InviteKey{
		ID:        idx.New().String(),
		Key:       "round-trip",
		Label:     "test",
		MaxUses:   3,
		Active:    true,
		ExpiresAt: &expires,
		CreatedBy: "admin-1",
	}
	require.NoError(t, st.InviteKeys().CreateInviteKey(ctx, key))

	got, err := st.InviteKeys().GetInviteKeyByToken(ctx, "round-trip")
	require.NoError(t, err)
	require.Equal(t, key.ID, got.ID)
	require.Equal(t, "test", got.Label)
	require.Equal(t, 3, got.MaxUses)
	require.True(t, got.Active)
	require.False(t, got.BadExpiry)
	require.NotNil(t, got.ExpiresAt)
	require.True(t, expires.Equal(*got.ExpiresAt))
	require.Equal(t, "admin-1", got.CreatedBy)
}

func TestDuplicateTokenMapsToAlreadyExists(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	key := domain.InviteKey{ID: idx.New().String(), Key: "dup", MaxUses: 1, Active: true}
	require.NoError(t, st.InviteKeys().CreateInviteKey(ctx, key))

	again := domain.InviteKey{ID: idx.New().String(), Key: "dup", MaxUses: 1, Active: true}
	err := st.InviteKeys().CreateInviteKey(ctx, again)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestDuplicateEmailMapsToAlreadyExists(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{ID: idx.New().String(), Name: "A", Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	again := domain.User{ID: idx.New().String(), Name: "B", Email: "a@x.com", PasswordHash: "h"}
	err := st.Users().CreateUser(ctx, again)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestConsumeInviteKeyGuard(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	now := time.Now()

	key := domain.InviteKey{ID: idx.New().String(), Key: "guarded", MaxUses: 2, Active: true}
	require.NoError(t, st.InviteKeys().CreateInviteKey(ctx, key))

	ok, err := st.InviteKeys().ConsumeInviteKey(ctx, key.ID, now)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = st.InviteKeys().ConsumeInviteKey(ctx, key.ID, now)
	require.NoError(t, err)
	require.True(t, ok)

	// Capacity reached: the conditional update matches no row
	ok, err = st.InviteKeys().ConsumeInviteKey(ctx, key.ID, now)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := st.InviteKeys().GetInviteKeyByID(ctx, key.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.UsedCount)
}

func TestConsumeInactiveKey(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	key := domain.InviteKey{ID: idx.New().String(), Key: "inactive", MaxUses: 5, Active: false}
	require.NoError(t, st.InviteKeys().CreateInviteKey(ctx, key))

	ok, err := st.InviteKeys().ConsumeInviteKey(ctx, key.ID, time.Now())
	require.NoError(t, err)
	require.False(t, ok, "inactive keys must not consume")
}

func TestMalformedExpiryDoesNotFailRead(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	key := domain.InviteKey{ID: idx.New().String(), Key: "mangled", MaxUses: 1, Active: true}
	require.NoError(t, st.InviteKeys().CreateInviteKey(ctx, key))

	// Corrupt the stored expiry out-of-band
	_, err := st.db.ExecContext(ctx,
		`UPDATE invite_keys SET expires_at = 'not-a-timestamp' WHERE id = ?`, key.ID)
	require.NoError(t, err)

	got, err := st.InviteKeys().GetInviteKeyByID(ctx, key.ID)
	require.NoError(t, err, "a bad expiry must not make the key unreadable")
	require.True(t, got.BadExpiry)
	require.Nil(t, got.ExpiresAt)
	require.False(t, got.Expired(time.Now()), "unparseable expiry is not enforced")
}

func TestDeactivateUnknownKey(t *testing.T) {
	st := newTestStore(t)
	err := st.InviteKeys().DeactivateInviteKey(context.Background(), idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersIsEmpty(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	u := domain.User{ID: idx.New().String(), Name: "A", Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	empty, err = st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestSetAdmin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{ID: idx.New().String(), Name: "A", Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	require.NoError(t, st.Users().SetAdmin(ctx, u.ID, true))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsAdmin)

	require.ErrorIs(t, st.Users().SetAdmin(ctx, "missing", true), store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{ID: idx.New().String(), Name: "A", Email: "a@x.com", PasswordHash: "h"}
	failure := context.Canceled // any sentinel will do

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	_, err = st.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound, "insert must have been rolled back")
}
