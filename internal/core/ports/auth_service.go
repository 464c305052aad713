package ports

import (
	"context"

	"github.com/glprevenda/erp-auth/internal/core/domain"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// AuthResult is the response shape shared by register, login and refresh.
type AuthResult struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	UserID       string   `json:"user_id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	Roles        []string `json:"roles"`
}

// AuthService implements the register, login, refresh and logout use cases.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	// Logout revokes every outstanding refresh token for username. Access
	// tokens already in the wild stay valid until they expire.
	Logout(ctx context.Context, username string) error
}

// IdentityResolver looks up a user by username or email, in that order.
type IdentityResolver interface {
	Resolve(ctx context.Context, usernameOrEmail string) (*domain.User, error)
}
