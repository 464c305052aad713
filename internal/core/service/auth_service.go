package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/glprevenda/erp-auth/internal/core/domain"
	"github.com/glprevenda/erp-auth/internal/core/ports"
	"github.com/glprevenda/erp-auth/internal/core/token"
)

// AuthService implements the register, login and refresh use cases on top
// of the user/role stores, the password hasher, the token service and the
// refresh allow-list.
type AuthService struct {
	users       ports.UserRepository
	roles       ports.RoleRepository
	resolver    ports.IdentityResolver
	hasher      ports.PasswordHasher
	tokens      ports.TokenService
	refresh     ports.RefreshTokenStore
	log         zerolog.Logger
	defaultRole string
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	resolver ports.IdentityResolver,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	refresh ports.RefreshTokenStore,
	log zerolog.Logger,
	defaultRole string,
) *AuthService {
	if defaultRole == "" {
		defaultRole = domain.DefaultRole
	}
	return &AuthService{
		users:       users,
		roles:       roles,
		resolver:    resolver,
		hasher:      hasher,
		tokens:      tokens,
		refresh:     refresh,
		log:         log,
		defaultRole: defaultRole,
	}
}

// Register creates a new account with exactly the default role and returns
// a fresh token pair. Duplicate checks happen before any mutation; the
// store create is the single all-or-nothing write.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	taken, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	role, err := s.roles.FindByName(ctx, s.defaultRole)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			s.log.Error().Str("role", s.defaultRole).Msg("default role missing, registration cannot proceed")
			return nil, domain.ErrDefaultRoleMissing
		}
		return nil, fmt.Errorf("find default role: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
		Active:       true,
		Roles:        []string{role.Name},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return s.issuePair(ctx, created)
}

// Login authenticates by username or email and returns a fresh token pair.
// A missing user and a bad password are logged with different detail but
// surface identically, so the response leaks nothing about which half of
// the credential was wrong.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*ports.AuthResult, error) {
	user, err := s.resolver.Resolve(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Str("login", usernameOrEmail).Msg("login failed: user not found")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Warn().Str("username", user.Username).Msg("login failed: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		s.log.Warn().Str("username", user.Username).Msg("login rejected: inactive account")
		return nil, domain.ErrInactiveAccount
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("login succeeded")
	return s.issuePair(ctx, user)
}

// Refresh rotates a refresh token into a brand-new pair. The presented
// token must decode, belong to an active user, carry the refresh kind, and
// still be present in the allow-list; consuming it there makes rotation
// real rather than cosmetic. Every rejection collapses to
// ErrInvalidCredentials so the failure surface stays uniform.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	username, err := s.tokens.ExtractSubject(refreshToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("refresh rejected: undecodable token")
		return nil, domain.ErrInvalidCredentials
	}

	// Exact username lookup, not the dual-mode resolver: the subject claim
	// is always a username.
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Str("username", username).Msg("refresh rejected: unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		s.log.Warn().Str("username", username).Msg("refresh rejected: inactive account")
		return nil, domain.ErrInvalidCredentials
	}

	if !s.tokens.ValidateRefreshToken(refreshToken, user) {
		s.log.Warn().Str("username", username).Msg("refresh rejected: token failed validation")
		return nil, domain.ErrInvalidCredentials
	}

	owner, err := s.refresh.Consume(ctx, token.Hash(refreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenUnknown) {
			s.log.Warn().Str("username", username).Msg("refresh rejected: token already rotated or revoked")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if owner != user.Username {
		s.log.Warn().Str("username", username).Str("owner", owner).Msg("refresh rejected: allow-list owner mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	s.log.Info().Str("username", username).Msg("refresh token rotated")
	return s.issuePair(ctx, user)
}

// Logout drops every outstanding refresh token for username. Sessions can
// no longer be renewed; outstanding access tokens expire on their own.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	if err := s.refresh.RevokeAll(ctx, username); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	s.log.Info().Str("username", username).Msg("refresh tokens revoked")
	return nil
}

// issuePair mints an access+refresh pair and records the refresh token's
// hash in the allow-list with the token's own TTL.
func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.refresh.Save(ctx, user.Username, token.Hash(refresh), s.tokens.RefreshTokenTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	roles := make([]string, len(user.Roles))
	copy(roles, user.Roles)

	return &ports.AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Roles:        roles,
	}, nil
}
