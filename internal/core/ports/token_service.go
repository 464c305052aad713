package ports

import (
	"time"

	"github.com/glprevenda/erp-auth/internal/core/domain"
)

// TokenService issues and validates signed bearer tokens. Issuance and
// validation are pure functions of (claims, key, clock); no call blocks
// or takes a context.
type TokenService interface {
	// IssueAccessToken embeds the username and a snapshot of the user's
	// role names at issuance time.
	IssueAccessToken(user *domain.User) (string, error)
	// IssueRefreshToken embeds the username and the refresh kind marker;
	// no role snapshot.
	IssueRefreshToken(user *domain.User) (string, error)
	// ValidateAccessToken reports whether tok is a well-signed, unexpired
	// access token for the given user.
	ValidateAccessToken(tok string, user *domain.User) bool
	// ValidateRefreshToken is ValidateAccessToken with the refresh kind
	// required: an access token presented here must be rejected.
	ValidateRefreshToken(tok string, user *domain.User) bool
	// ExtractSubject decodes tok and returns its subject. It fails the
	// same way decoding fails.
	ExtractSubject(tok string) (string, error)
	// AccessTokenTTL reports the configured access token lifetime.
	AccessTokenTTL() time.Duration
	// RefreshTokenTTL reports the configured refresh token lifetime,
	// which must exceed the access lifetime by a large margin.
	RefreshTokenTTL() time.Duration
}
