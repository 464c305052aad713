package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/glprevenda/erp-auth/internal/core/domain"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func baseClaims(now time.Time) Claims {
	return Claims{
		Subject:   "alice",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
		Kind:      domain.TokenKindAccess,
		Roles:     []string{"ROLE_VENDEDOR"},
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	codec := NewCodec(testKey)

	compact, err := codec.Encode(baseClaims(now))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := strings.Count(compact, "."); got != 2 {
		t.Fatalf("expected 3 dot-joined segments, got %d dots", got)
	}

	decoded, err := codec.Decode(compact)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Subject != "alice" {
		t.Fatalf("subject = %q", decoded.Subject)
	}
	if decoded.Kind != domain.TokenKindAccess {
		t.Fatalf("kind = %q", decoded.Kind)
	}
	if !decoded.IssuedAt.Equal(now) {
		t.Fatalf("iat = %v, want %v", decoded.IssuedAt, now)
	}
	if !decoded.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("exp = %v, want %v", decoded.ExpiresAt, now.Add(time.Hour))
	}
	if len(decoded.Roles) != 1 || decoded.Roles[0] != "ROLE_VENDEDOR" {
		t.Fatalf("roles = %v", decoded.Roles)
	}
}

func TestCodec_WrongKey(t *testing.T) {
	now := time.Now().UTC()
	compact, err := NewCodec(testKey).Encode(baseClaims(now))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	_, err = NewCodec([]byte("another-key-another-key-another!")).Decode(compact)
	if !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestCodec_Expired(t *testing.T) {
	issued := time.Now().UTC().Add(-2 * time.Hour)
	compact, err := NewCodec(testKey).Encode(baseClaims(issued))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Well-signed but stale: the failure must be Expired and only Expired.
	_, err = NewCodec(testKey).Decode(compact)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestCodec_ExpiredWithFrozenClock(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	codec := NewCodecWithClock(testKey, func() time.Time { return base })

	compact, err := codec.Encode(baseClaims(base))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if _, err := codec.Decode(compact); err != nil {
		t.Fatalf("decode at issuance: %v", err)
	}

	late := NewCodecWithClock(testKey, func() time.Time { return base.Add(time.Hour + time.Second) })
	if _, err := late.Decode(compact); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired after TTL, got %v", err)
	}
}

func TestCodec_Malformed(t *testing.T) {
	codec := NewCodec(testKey)

	for _, tok := range []string{
		"",
		"not-a-token",
		"only.two",
		"a.b.c.d",
		"!!!.???.###",
	} {
		if _, err := codec.Decode(tok); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", tok, err)
		}
	}
}

func TestCodec_SplicedSignature(t *testing.T) {
	now := time.Now().UTC()
	codec := NewCodec(testKey)

	first, err := codec.Encode(baseClaims(now))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	other := baseClaims(now)
	other.Subject = "mallory"
	second, err := codec.Encode(other)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Payload of one token with the signature of another must never decode.
	fp := strings.Split(first, ".")
	sp := strings.Split(second, ".")
	spliced := fp[0] + "." + fp[1] + "." + sp[2]

	if _, err := codec.Decode(spliced); !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestCodec_MissingExpiry(t *testing.T) {
	codec := NewCodec(testKey)
	compact, err := codec.Encode(Claims{Subject: "alice", Kind: domain.TokenKindAccess, IssuedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := codec.Decode(compact); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for token without exp, got %v", err)
	}
}

func TestHash_Deterministic(t *testing.T) {
	if Hash("abc") != Hash("abc") {
		t.Fatalf("hash must be deterministic")
	}
	if Hash("abc") == Hash("abd") {
		t.Fatalf("distinct inputs must not collide trivially")
	}
	if len(Hash("abc")) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(Hash("abc")))
	}
}
