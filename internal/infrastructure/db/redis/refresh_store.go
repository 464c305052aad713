package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glprevenda/erp-auth/internal/core/domain"
)

// RefreshTokenStore is the Redis-backed allow-list of outstanding refresh
// tokens. Key format: refresh:<token_hash> → username, expiring with the
// token. A per-user set (refresh_user:<username>) tracks the hashes so all
// sessions of one user can be revoked together.
type RefreshTokenStore struct {
	client *redis.Client
}

// NewRefreshTokenStore creates a RefreshTokenStore wrapping the given client.
func NewRefreshTokenStore(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

// Save records a freshly issued refresh token hash for username.
func (s *RefreshTokenStore) Save(ctx context.Context, username, tokenHash string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(tokenHash), username, ttl)
	pipe.SAdd(ctx, userKey(username), tokenHash)
	pipe.Expire(ctx, userKey(username), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// Consume atomically removes the hash and returns the owning username.
// GETDEL guarantees a token is spendable exactly once even under
// concurrent refresh calls.
func (s *RefreshTokenStore) Consume(ctx context.Context, tokenHash string) (string, error) {
	username, err := s.client.GetDel(ctx, tokenKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrRefreshTokenUnknown
		}
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	s.client.SRem(ctx, userKey(username), tokenHash)
	return username, nil
}

// RevokeAll drops every outstanding refresh token for username.
func (s *RefreshTokenStore) RevokeAll(ctx context.Context, username string) error {
	hashes, err := s.client.SMembers(ctx, userKey(username)).Result()
	if err != nil {
		return fmt.Errorf("list refresh tokens: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, h := range hashes {
		pipe.Del(ctx, tokenKey(h))
	}
	pipe.Del(ctx, userKey(username))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

func tokenKey(hash string) string {
	return "refresh:" + hash
}

func userKey(username string) string {
	return "refresh_user:" + username
}
