package service

import (
	"errors"
	"testing"
	"time"

	"github.com/glprevenda/erp-auth/internal/core/domain"
	"github.com/glprevenda/erp-auth/internal/core/token"
)

var signingKey = []byte("404E635266556A586E3272357538782F")

func testUser() *domain.User {
	return &domain.User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@x.com",
		FullName: "Alice A",
		Active:   true,
		Roles:    []string{domain.RoleSeller},
	}
}

// fakeClock is a mutable time source shared by issuance and validation.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newClockedService(accessTTL, refreshTTL time.Duration) (*TokenService, *fakeClock) {
	clk := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewTokenServiceWithClock(signingKey, accessTTL, refreshTTL, clk.Now), clk
}

func TestTokenService_AccessTokenValidUntilTTL(t *testing.T) {
	svc, clk := newClockedService(time.Hour, 24*time.Hour)
	user := testUser()

	tok, err := svc.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if !svc.ValidateAccessToken(tok, user) {
		t.Fatalf("token must validate immediately after issuance")
	}

	clk.Advance(time.Hour - time.Second)
	if !svc.ValidateAccessToken(tok, user) {
		t.Fatalf("token must stay valid until the TTL elapses, not earlier")
	}

	clk.Advance(2 * time.Second)
	if svc.ValidateAccessToken(tok, user) {
		t.Fatalf("token must be invalid after the TTL elapses")
	}
}

func TestTokenService_KindDiscrimination(t *testing.T) {
	svc, _ := newClockedService(time.Hour, 24*time.Hour)
	user := testUser()

	access, err := svc.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	refresh, err := svc.IssueRefreshToken(user)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	if svc.ValidateRefreshToken(access, user) {
		t.Fatalf("an access token must never validate as a refresh token")
	}
	if svc.ValidateAccessToken(refresh, user) {
		t.Fatalf("a refresh token must never validate as an access token")
	}
	if !svc.ValidateAccessToken(access, user) || !svc.ValidateRefreshToken(refresh, user) {
		t.Fatalf("tokens must validate as their own kind")
	}
}

func TestTokenService_SubjectMismatch(t *testing.T) {
	svc, _ := newClockedService(time.Hour, 24*time.Hour)

	tok, err := svc.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := testUser()
	other.Username = "bob"
	if svc.ValidateAccessToken(tok, other) {
		t.Fatalf("token must not validate for a different subject")
	}
}

func TestTokenService_AccessClaims(t *testing.T) {
	svc, clk := newClockedService(time.Hour, 24*time.Hour)
	user := testUser()

	tok, err := svc.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cl, err := token.NewCodecWithClock(signingKey, clk.Now).Decode(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cl.Subject != "alice" {
		t.Fatalf("subject = %q", cl.Subject)
	}
	if cl.Kind != domain.TokenKindAccess {
		t.Fatalf("kind = %q", cl.Kind)
	}
	if len(cl.Roles) != 1 || cl.Roles[0] != domain.RoleSeller {
		t.Fatalf("roles = %v", cl.Roles)
	}
	if !cl.ExpiresAt.After(cl.IssuedAt) {
		t.Fatalf("exp must be after iat")
	}
	if got := cl.ExpiresAt.Sub(cl.IssuedAt); got != time.Hour {
		t.Fatalf("TTL = %v, want 1h", got)
	}
}

func TestTokenService_RefreshCarriesNoRoles(t *testing.T) {
	svc, clk := newClockedService(time.Hour, 24*time.Hour)

	tok, err := svc.IssueRefreshToken(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cl, err := token.NewCodecWithClock(signingKey, clk.Now).Decode(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cl.Kind != domain.TokenKindRefresh {
		t.Fatalf("kind = %q", cl.Kind)
	}
	if len(cl.Roles) != 0 {
		t.Fatalf("refresh token must not snapshot roles, got %v", cl.Roles)
	}
}

func TestTokenService_ExtractSubject(t *testing.T) {
	svc, _ := newClockedService(time.Hour, 24*time.Hour)

	tok, err := svc.IssueRefreshToken(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	subject, err := svc.ExtractSubject(tok)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if subject != "alice" {
		t.Fatalf("subject = %q", subject)
	}

	if _, err := svc.ExtractSubject("garbage"); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestTokenService_DefaultTTLs(t *testing.T) {
	svc := NewTokenService(signingKey, 0, 0)
	if svc.AccessTokenTTL() != defaultAccessTTL {
		t.Fatalf("access TTL = %v", svc.AccessTokenTTL())
	}
	if svc.RefreshTokenTTL() != defaultRefreshTTL {
		t.Fatalf("refresh TTL = %v", svc.RefreshTokenTTL())
	}
	if svc.RefreshTokenTTL() <= svc.AccessTokenTTL() {
		t.Fatalf("refresh TTL must materially exceed access TTL")
	}
}
