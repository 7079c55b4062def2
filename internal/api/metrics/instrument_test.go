package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/99minutos/identity-service/internal/core/domain"
)

type fakeAuthService struct {
	err error
}

func (f fakeAuthService) SignUp(context.Context, string, string) error { return f.err }

func (f fakeAuthService) SignIn(context.Context, string, string) (*domain.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Token{AccessToken: "t"}, nil
}

func (f fakeAuthService) AssignRoles(context.Context, string, []int) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{}, nil
}

func TestInstrumentedAuthService_CountsOutcomes(t *testing.T) {
	ctx := context.Background()

	okBefore := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues(opSignIn, "ok"))
	badBefore := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues(opSignIn, "invalid_credentials"))
	tokensBefore := testutil.ToFloat64(TokensIssuedTotal)

	if _, err := NewInstrumentedAuthService(fakeAuthService{}).SignIn(ctx, "a", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := NewInstrumentedAuthService(fakeAuthService{err: domain.ErrInvalidCredentials}).SignIn(ctx, "a", "b")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("error not passed through: %v", err)
	}

	if got := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues(opSignIn, "ok")) - okBefore; got != 1 {
		t.Fatalf("expected 1 ok sign-in, got %v", got)
	}
	if got := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues(opSignIn, "invalid_credentials")) - badBefore; got != 1 {
		t.Fatalf("expected 1 failed sign-in, got %v", got)
	}
	if got := testutil.ToFloat64(TokensIssuedTotal) - tokensBefore; got != 1 {
		t.Fatalf("expected 1 token issued, got %v", got)
	}
}

func TestResultLabel(t *testing.T) {
	cases := map[error]string{
		nil:                         "ok",
		domain.ErrDuplicateUsername: "duplicate_username",
		domain.ErrUserNotFound:      "user_not_found",
		&domain.RoleNotFoundError{Missing: []int{1}}: "role_not_found",
		domain.NewStoreError("op", errors.New("x")):  "store_unavailable",
		errors.New("boom"):                           "error",
	}
	for err, want := range cases {
		if got := resultLabel(err); got != want {
			t.Fatalf("resultLabel(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestInstrumentedAuthService_SignUpAndAssign(t *testing.T) {
	ctx := context.Background()
	dupBefore := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues(opSignUp, "duplicate_username"))
	assignBefore := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues(opAssignRoles, "ok"))

	_ = NewInstrumentedAuthService(fakeAuthService{err: domain.ErrDuplicateUsername}).SignUp(ctx, "a", "b")
	if _, err := NewInstrumentedAuthService(fakeAuthService{}).AssignRoles(ctx, "u", []int{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues(opSignUp, "duplicate_username")) - dupBefore; got != 1 {
		t.Fatalf("expected 1 duplicate sign-up, got %v", got)
	}
	if got := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues(opAssignRoles, "ok")) - assignBefore; got != 1 {
		t.Fatalf("expected 1 assignment, got %v", got)
	}
}
