package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

const (
	opSignUp      = "sign_up"
	opSignIn      = "sign_in"
	opAssignRoles = "assign_roles"
)

// InstrumentedAuthService records AuthOperationsTotal and
// AuthOperationDuration around another ports.AuthService.
type InstrumentedAuthService struct {
	next ports.AuthService
}

func NewInstrumentedAuthService(next ports.AuthService) *InstrumentedAuthService {
	return &InstrumentedAuthService{next: next}
}

func (s *InstrumentedAuthService) SignUp(ctx context.Context, username, password string) error {
	start := time.Now()
	err := s.next.SignUp(ctx, username, password)
	observe(opSignUp, start, err)
	return err
}

func (s *InstrumentedAuthService) SignIn(ctx context.Context, username, password string) (*domain.Token, error) {
	start := time.Now()
	token, err := s.next.SignIn(ctx, username, password)
	observe(opSignIn, start, err)
	if err == nil {
		TokensIssuedTotal.Inc()
	}
	return token, err
}

func (s *InstrumentedAuthService) AssignRoles(ctx context.Context, userID string, roleIDs []int) (*domain.User, error) {
	start := time.Now()
	user, err := s.next.AssignRoles(ctx, userID, roleIDs)
	observe(opAssignRoles, start, err)
	return user, err
}

func observe(op string, start time.Time, err error) {
	AuthOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	AuthOperationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "duplicate_username"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrRoleNotFound):
		return "role_not_found"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
