package tokenstore

import (
	"context"
	"time"
)

// RefreshRecord is a whitelisted refresh token. Exactly one record exists per
// session lineage; rotation replaces it atomically.
type RefreshRecord struct {
	Token       string    `json:"token"`
	UserID      string    `json:"userId"`
	Fingerprint string    `json:"fingerprint"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the record is past its lifetime at the given instant.
func (r *RefreshRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Store holds the refresh-token whitelist and the access-token blacklist.
//
// WhitelistReplace is the one operation with compare-and-swap semantics: it
// succeeds only if oldToken is still present at the moment of replacement.
// Two concurrent rotations of the same token must see exactly one success.
// Expired entries never report as present, regardless of sweep cadence.
type Store interface {
	WhitelistAdd(ctx context.Context, rec RefreshRecord) error
	WhitelistRemove(ctx context.Context, token string) error
	WhitelistLookup(ctx context.Context, token string) (*RefreshRecord, error)
	WhitelistReplace(ctx context.Context, oldToken string, rec RefreshRecord) (bool, error)

	BlacklistAdd(ctx context.Context, token string, expiresAt time.Time) error
	BlacklistContains(ctx context.Context, token string) (bool, error)
}
