package ports

import (
	"context"

	"github.com/glprevenda/erp-auth/internal/core/domain"
)

// RoleRepository is the persistence boundary for access roles.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	// Save upserts a role by name. Used at startup to seed the well-known
	// roles before any registration can succeed.
	Save(ctx context.Context, role *domain.Role) error
}
