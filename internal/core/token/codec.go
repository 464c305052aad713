// Package token implements the compact signed token format used for both
// access and refresh credentials: three dot-joined base64url segments
// (header.payload.signature) signed with HMAC-SHA-256.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/glprevenda/erp-auth/internal/core/domain"
)

// Claims is the structured payload carried inside a token. Roles is only
// populated on access tokens; refresh tokens carry the kind marker alone.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Kind      domain.TokenKind
	Roles     []string
}

// wireClaims is the on-the-wire shape. All timestamps are epoch seconds.
type wireClaims struct {
	Kind  domain.TokenKind `json:"kind"`
	Roles []string         `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Codec encodes and decodes signed tokens with a shared HMAC key. A Codec
// holds no mutable state and is safe for concurrent use.
type Codec struct {
	key []byte
	now func() time.Time
}

// NewCodec returns a Codec signing and verifying with key.
func NewCodec(key []byte) *Codec {
	return NewCodecWithClock(key, time.Now)
}

// NewCodecWithClock is NewCodec with an explicit time source, used by the
// token service so issuance and validation share one clock.
func NewCodecWithClock(key []byte, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{key: key, now: now}
}

// Encode signs claims into a compact token string.
func (c *Codec) Encode(cl Claims) (string, error) {
	wc := wireClaims{
		Kind:  cl.Kind,
		Roles: cl.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: cl.Subject,
		},
	}
	if !cl.IssuedAt.IsZero() {
		wc.IssuedAt = jwt.NewNumericDate(cl.IssuedAt)
	}
	if !cl.ExpiresAt.IsZero() {
		wc.ExpiresAt = jwt.NewNumericDate(cl.ExpiresAt)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, wc).SignedString(c.key)
}

// Decode verifies the signature before trusting any payload field, then
// checks expiry. Failures map onto the domain taxonomy so callers can tell
// a tampered token from a merely stale one.
func (c *Codec) Decode(compact string) (Claims, error) {
	var wc wireClaims
	_, err := jwt.ParseWithClaims(compact, &wc, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.key, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, mapDecodeError(err)
	}

	cl := Claims{
		Subject: wc.Subject,
		Kind:    wc.Kind,
		Roles:   wc.Roles,
	}
	if wc.IssuedAt != nil {
		cl.IssuedAt = wc.IssuedAt.Time
	}
	if wc.ExpiresAt != nil {
		cl.ExpiresAt = wc.ExpiresAt.Time
	}
	return cl, nil
}

// mapDecodeError translates jwt library failures into domain errors.
// Signature problems win over expiry: an expired claim in an unverified
// payload must not be reported as Expired.
func mapDecodeError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	default:
		return domain.ErrTokenMalformed
	}
}
