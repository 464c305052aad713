package ports

import (
	"context"
	"time"
)

// RefreshTokenStore is the allow-list of outstanding refresh tokens,
// keyed by token hash. It makes rotation real: a refresh token that has
// been consumed (or never issued) cannot obtain a new pair, even while
// its signature and expiry are still valid.
type RefreshTokenStore interface {
	// Save records a freshly issued refresh token hash for username,
	// expiring together with the token itself.
	Save(ctx context.Context, username, tokenHash string, ttl time.Duration) error
	// Consume atomically removes the hash and returns the owning
	// username. A miss returns domain.ErrRefreshTokenUnknown.
	Consume(ctx context.Context, tokenHash string) (string, error)
	// RevokeAll drops every outstanding refresh token for username.
	RevokeAll(ctx context.Context, username string) error
}
