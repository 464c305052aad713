package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/glprevenda/erp-auth/internal/core/domain"
	"github.com/glprevenda/erp-auth/internal/core/service"
)

var signingKey = []byte("0123456789abcdef0123456789abcdef")

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	clone := *user
	r.users[user.Username] = &clone
	return &clone, nil
}

type gateFixture struct {
	tokens *service.TokenService
	users  *stubUserRepo
	gate   echo.MiddlewareFunc
	alice  *domain.User
}

func newGateFixture() *gateFixture {
	alice := &domain.User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@x.com",
		Active:   true,
		Roles:    []string{domain.RoleSeller},
	}
	users := &stubUserRepo{users: map[string]*domain.User{"alice": alice}}
	tokens := service.NewTokenService(signingKey, time.Hour, 24*time.Hour)
	return &gateFixture{
		tokens: tokens,
		users:  users,
		gate:   Auth(tokens, users, zerolog.Nop()),
		alice:  alice,
	}
}

func runGate(t *testing.T, f *gateFixture, authorization string) (echo.Context, *domain.AuthContext) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := f.gate(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("gate returned error: %v", err)
	}
	if !called {
		t.Fatalf("gate must always forward the request")
	}
	return c, AuthFromContext(c)
}

func TestAuthGate_ValidToken(t *testing.T) {
	f := newGateFixture()
	tok, err := f.tokens.IssueAccessToken(f.alice)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, auth := runGate(t, f, "Bearer "+tok)
	if auth == nil {
		t.Fatalf("expected authentication context")
	}
	if auth.User.Username != "alice" {
		t.Fatalf("username = %q", auth.User.Username)
	}
	if len(auth.Authorities) != 1 || auth.Authorities[0] != domain.RoleSeller {
		t.Fatalf("authorities = %v", auth.Authorities)
	}
}

func TestAuthGate_NoCredential(t *testing.T) {
	f := newGateFixture()

	// Missing header is "no attempt made", not a failure.
	if _, auth := runGate(t, f, ""); auth != nil {
		t.Fatalf("anonymous request must not get a context")
	}
	// Any non-Bearer scheme counts as no credential.
	if _, auth := runGate(t, f, "Basic dXNlcjpwYXNz"); auth != nil {
		t.Fatalf("non-bearer scheme must be ignored")
	}
}

func TestAuthGate_InvalidToken(t *testing.T) {
	f := newGateFixture()

	if _, auth := runGate(t, f, "Bearer not-a-token"); auth != nil {
		t.Fatalf("undecodable token must forward anonymously")
	}
}

func TestAuthGate_RefreshTokenRejected(t *testing.T) {
	f := newGateFixture()
	refresh, err := f.tokens.IssueRefreshToken(f.alice)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, auth := runGate(t, f, "Bearer "+refresh); auth != nil {
		t.Fatalf("a refresh token must not authenticate a request")
	}
}

func TestAuthGate_UnknownUser(t *testing.T) {
	f := newGateFixture()
	ghost := &domain.User{Username: "ghost", Active: true}
	tok, err := f.tokens.IssueAccessToken(ghost)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, auth := runGate(t, f, "Bearer "+tok); auth != nil {
		t.Fatalf("unknown subject must forward anonymously")
	}
}

func TestAuthGate_InactiveUser(t *testing.T) {
	f := newGateFixture()
	tok, err := f.tokens.IssueAccessToken(f.alice)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	f.alice.Active = false

	if _, auth := runGate(t, f, "Bearer "+tok); auth != nil {
		t.Fatalf("inactive account must forward anonymously")
	}
}

func TestAuthGate_DoesNotOverwriteContext(t *testing.T) {
	f := newGateFixture()
	tok, err := f.tokens.IssueAccessToken(f.alice)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	existing := domain.NewAuthContext(&domain.User{Username: "already-here"})
	c.Set(ContextKeyAuth, existing)

	handler := f.gate(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := handler(c); err != nil {
		t.Fatalf("gate returned error: %v", err)
	}

	if got := AuthFromContext(c); got != existing {
		t.Fatalf("gate must not overwrite an attached context")
	}
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	// Anonymous → 401.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	err := RequireAuth()(next)(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}

	// Authenticated → pass.
	c = e.NewContext(req, httptest.NewRecorder())
	c.Set(ContextKeyAuth, domain.NewAuthContext(&domain.User{Username: "alice"}))
	if err := RequireAuth()(next)(c); err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}
}

func TestRequireRoles(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RequireRoles(domain.RoleAdmin)

	// Anonymous → 401.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	err := mw(next)(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}

	// Wrong role → 403.
	c = e.NewContext(req, httptest.NewRecorder())
	c.Set(ContextKeyAuth, domain.NewAuthContext(&domain.User{Username: "alice", Roles: []string{domain.RoleSeller}}))
	err = mw(next)(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}

	// Matching role → pass.
	c = e.NewContext(req, httptest.NewRecorder())
	c.Set(ContextKeyAuth, domain.NewAuthContext(&domain.User{Username: "root", Roles: []string{domain.RoleAdmin}}))
	if err := mw(next)(c); err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}
}
