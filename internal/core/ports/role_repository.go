package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// RoleRepository gives access to the role catalog.
type RoleRepository interface {
	// FindByIDs returns the subset of ids that resolved. Order is not guaranteed.
	FindByIDs(ctx context.Context, ids []int) ([]domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	Upsert(ctx context.Context, role *domain.Role) error
}
