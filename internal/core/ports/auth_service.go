package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// AuthService is the credential management use-case boundary.
type AuthService interface {
	SignUp(ctx context.Context, username, password string) error
	SignIn(ctx context.Context, username, password string) (*domain.Token, error)
	// AssignRoles replaces the role set of the user with roleIDs.
	// It is not additive: roles not listed are removed.
	AssignRoles(ctx context.Context, userID string, roleIDs []int) (*domain.User, error)
}
