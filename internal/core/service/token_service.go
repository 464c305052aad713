package service

import (
	"time"

	"github.com/glprevenda/erp-auth/internal/core/domain"
	"github.com/glprevenda/erp-auth/internal/core/token"
)

const (
	defaultAccessTTL  = 24 * time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenService issues and validates access and refresh tokens. Both kinds
// share the signing key and encoding; only claim content and TTL differ.
type TokenService struct {
	codec      *token.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService builds a TokenService signing with signingKey. Non-positive
// TTLs fall back to 24h access / 7d refresh.
func NewTokenService(signingKey []byte, accessTTL, refreshTTL time.Duration) *TokenService {
	return NewTokenServiceWithClock(signingKey, accessTTL, refreshTTL, time.Now)
}

// NewTokenServiceWithClock is NewTokenService with an injected time source.
// Issuance and expiry validation read the same clock, so iat and exp inside
// one token can never skew.
func NewTokenServiceWithClock(signingKey []byte, accessTTL, refreshTTL time.Duration, now func() time.Time) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		codec:      token.NewCodecWithClock(signingKey, now),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
	}
}

// IssueAccessToken embeds subject=username and a snapshot of the user's
// current role names. The snapshot is authoritative until expiry; live role
// changes are not re-checked.
func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	now := s.now().UTC()
	roles := make([]string, len(user.Roles))
	copy(roles, user.Roles)
	return s.codec.Encode(token.Claims{
		Subject:   user.Username,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.accessTTL),
		Kind:      domain.TokenKindAccess,
		Roles:     roles,
	})
}

// IssueRefreshToken embeds subject=username and the refresh kind marker.
// No role snapshot: a refresh token grants nothing but a new pair.
func (s *TokenService) IssueRefreshToken(user *domain.User) (string, error) {
	now := s.now().UTC()
	return s.codec.Encode(token.Claims{
		Subject:   user.Username,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.refreshTTL),
		Kind:      domain.TokenKindRefresh,
	})
}

// ValidateAccessToken reports whether tok is a well-signed, unexpired access
// token whose subject is user's username.
func (s *TokenService) ValidateAccessToken(tok string, user *domain.User) bool {
	return s.validate(tok, user, domain.TokenKindAccess)
}

// ValidateRefreshToken additionally requires the refresh kind marker, so an
// access token replayed here never buys the longer-lived trust level.
func (s *TokenService) ValidateRefreshToken(tok string, user *domain.User) bool {
	return s.validate(tok, user, domain.TokenKindRefresh)
}

func (s *TokenService) validate(tok string, user *domain.User, kind domain.TokenKind) bool {
	cl, err := s.codec.Decode(tok)
	if err != nil {
		return false
	}
	return cl.Kind == kind && cl.Subject == user.Username
}

// ExtractSubject decodes tok and returns its subject claim.
func (s *TokenService) ExtractSubject(tok string) (string, error) {
	cl, err := s.codec.Decode(tok)
	if err != nil {
		return "", err
	}
	return cl.Subject, nil
}

// AccessTokenTTL reports the configured access token lifetime.
func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

// RefreshTokenTTL reports the configured refresh token lifetime.
func (s *TokenService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}
