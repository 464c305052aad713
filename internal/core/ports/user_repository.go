package ports

import (
	"context"

	"github.com/glprevenda/erp-auth/internal/core/domain"
)

// UserRepository is the persistence boundary for users. Create is
// all-or-nothing at the store: the core never attempts compensating
// writes when it fails.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
