package domain

import "time"

// InviteKey is a limited-use registration credential. Keys are never deleted;
// exhausted, expired or deactivated keys stay in the ledger as audit trail.
type InviteKey struct {
	ID        string
	Key       string // opaque token, case-sensitive, unique
	Label     string
	MaxUses   int
	UsedCount int // 0 <= UsedCount <= MaxUses, only ever incremented
	Active    bool
	ExpiresAt *time.Time // nil means the key never expires
	CreatedBy string     // empty for seeded or CLI-issued keys
	CreatedAt time.Time
	UpdatedAt time.Time

	// BadExpiry marks a stored expires_at value that could not be parsed.
	// Expiry is not enforced for such keys; the ledger flags them for
	// operator attention instead of locking the key out.
	BadExpiry bool
}

// Remaining reports the key's remaining redemption capacity.
func (k InviteKey) Remaining() int {
	if k.UsedCount >= k.MaxUses {
		return 0
	}
	return k.MaxUses - k.UsedCount
}

// Expired reports whether the key's expiry has passed at time now.
// Keys without an expiry (or with an unparseable one) never report expired.
func (k InviteKey) Expired(now time.Time) bool {
	if k.ExpiresAt == nil {
		return false
	}
	return !now.Before(*k.ExpiresAt)
}
