package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// RoleService exposes the role catalog.
type RoleService interface {
	ListRoles(ctx context.Context) ([]domain.Role, error)
	// SeedRoles inserts or updates every role and returns how many were written.
	SeedRoles(ctx context.Context, roles []domain.Role) (int, error)
}
