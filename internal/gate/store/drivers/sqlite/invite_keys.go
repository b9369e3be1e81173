package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/keygate/internal/gate/domain"
	"github.com/aussiebroadwan/keygate/internal/gate/store"
)

type inviteKeysRepo struct {
	q dbtx
}

const inviteKeyColumns = `id, key, label, max_uses, used_count, active, expires_at, created_by, created_at, updated_at`

func (r *inviteKeysRepo) scanInviteKey(row interface{ Scan(dest ...any) error }) (domain.InviteKey, error) {
	var (
		k         domain.InviteKey
		expiresAt sql.NullString
		createdBy sql.NullString
	)
	err := row.Scan(
		&k.ID,
		&k.Key,
		&k.Label,
		&k.MaxUses,
		&k.UsedCount,
		&k.Active,
		&expiresAt,
		&createdBy,
		&k.CreatedAt,
		&k.UpdatedAt,
	)
	if err != nil {
		return domain.InviteKey{}, mapNotFound(err)
	}
	k.ExpiresAt, k.BadExpiry = expiryFromText(expiresAt)
	k.CreatedBy = mapNullString(createdBy)
	return k, nil
}

func (r *inviteKeysRepo) CreateInviteKey(ctx context.Context, k domain.InviteKey) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO invite_keys (id, key, label, max_uses, used_count, active, expires_at, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.Key, k.Label, k.MaxUses, k.UsedCount, k.Active,
		expiryToText(k.ExpiresAt), mapStringNull(k.CreatedBy), now, now)
	return mapConstraint(err)
}

func (r *inviteKeysRepo) GetInviteKeyByToken(ctx context.Context, token string) (domain.InviteKey, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+inviteKeyColumns+` FROM invite_keys WHERE key = ?`, token)
	return r.scanInviteKey(row)
}

func (r *inviteKeysRepo) GetInviteKeyByID(ctx context.Context, id string) (domain.InviteKey, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+inviteKeyColumns+` FROM invite_keys WHERE id = ?`, id)
	return r.scanInviteKey(row)
}

func (r *inviteKeysRepo) ListInviteKeys(ctx context.Context) ([]domain.InviteKey, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+inviteKeyColumns+` FROM invite_keys ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.InviteKey
	for rows.Next() {
		k, err := r.scanInviteKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// ConsumeInviteKey is the single conditional update that makes redemption
// safe under contention. The used_count < max_uses guard is re-checked by
// the storage engine inside the statement, so concurrent redeemers racing
// near the capacity limit can never push used_count past max_uses. A false
// return means the key had no capacity left (or was deactivated) by the time
// the statement ran.
func (r *inviteKeysRepo) ConsumeInviteKey(ctx context.Context, id string, now time.Time) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE invite_keys
		 SET used_count = used_count + 1, updated_at = ?
		 WHERE id = ? AND active = 1 AND used_count < max_uses`,
		now.UTC(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *inviteKeysRepo) DeactivateInviteKey(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE invite_keys SET active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
