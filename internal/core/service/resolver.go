package service

import (
	"context"
	"errors"

	"github.com/glprevenda/erp-auth/internal/core/domain"
	"github.com/glprevenda/erp-auth/internal/core/ports"
)

// Resolver looks a user up by username first, then by email. First match
// wins; this dual-mode lookup is what lets login accept either form.
type Resolver struct {
	users ports.UserRepository
}

func NewResolver(users ports.UserRepository) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the user matching usernameOrEmail, or ErrUserNotFound.
func (r *Resolver) Resolve(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	user, err := r.users.FindByUsername(ctx, usernameOrEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return r.users.FindByEmail(ctx, usernameOrEmail)
}
