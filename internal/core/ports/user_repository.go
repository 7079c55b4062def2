package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// UserRepository defines the persistence operations for users.
//
// Implementations report a unique-constraint violation on username as
// domain.ErrDuplicateUsername and a missing record as domain.ErrUserNotFound.
// Any other failure is returned as-is for the service to classify.
// Roles returned on reads carry the current catalog name and description.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Save persists user.Roles as the complete role set of the user,
	// replacing whatever was stored before.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
