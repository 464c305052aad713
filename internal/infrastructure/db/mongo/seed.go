package mongo

import (
	"context"
	"fmt"

	"github.com/glprevenda/erp-auth/internal/core/domain"
)

// wellKnownRoles are upserted at startup. Registration depends on the
// default role existing, so seeding runs before the server accepts traffic.
var wellKnownRoles = []domain.Role{
	{Name: domain.RoleAdmin, Description: "Administrador do sistema - acesso total"},
	{Name: domain.RoleManager, Description: "Gerente - acesso de supervisão"},
	{Name: domain.RoleSeller, Description: "Vendedor - role padrão de novos usuários"},
}

// SeedRoles upserts the well-known roles and ensures a unique index on the
// role name.
func (r *MongoRoleRepository) SeedRoles(ctx context.Context) error {
	if err := r.ensureIndexes(ctx); err != nil {
		return err
	}
	for i := range wellKnownRoles {
		if err := r.Save(ctx, &wellKnownRoles[i]); err != nil {
			return fmt.Errorf("seed role %s: %w", wellKnownRoles[i].Name, err)
		}
	}
	return nil
}
