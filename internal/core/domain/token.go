package domain

import "errors"

// Token decode failures, ordered from least to most trusted: a token must
// survive structural checks and signature verification before expiry is
// even considered.
var ErrTokenMalformed = errors.New("token is malformed")
var ErrTokenSignatureInvalid = errors.New("token signature is invalid")
var ErrTokenExpired = errors.New("token is expired")

// ErrRefreshTokenUnknown marks a refresh token absent from the allow-list:
// never issued, already rotated, or revoked.
var ErrRefreshTokenUnknown = errors.New("refresh token unknown or already used")

// TokenKind discriminates access tokens from refresh tokens. A refresh
// token carries a materially longer TTL, so one kind must never be
// accepted where the other is required.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)
