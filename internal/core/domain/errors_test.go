package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRoleNotFoundError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("assign roles: %w", &RoleNotFoundError{Missing: []int{2, 7}})

	if !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected errors.Is(err, ErrRoleNotFound)")
	}

	var rnf *RoleNotFoundError
	if !errors.As(err, &rnf) {
		t.Fatalf("expected errors.As to RoleNotFoundError")
	}
	if len(rnf.Missing) != 2 || rnf.Missing[0] != 2 || rnf.Missing[1] != 7 {
		t.Fatalf("unexpected missing ids: %v", rnf.Missing)
	}
	if !strings.HasSuffix(rnf.Error(), "2,7") {
		t.Fatalf("expected missing ids in message, got %q", rnf.Error())
	}
}

func TestStoreError_IsOpaque(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:27017: connection refused")
	err := NewStoreError("sign up", cause)

	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected errors.Is(err, ErrStoreUnavailable)")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if strings.Contains(err.Error(), "10.0.0.5") {
		t.Fatalf("store details leaked into message: %q", err.Error())
	}
	if err.Error() != "sign up: store unavailable" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestUser_RoleNames(t *testing.T) {
	u := &User{Roles: []Role{{ID: 2, Name: "editor"}, {ID: 1, Name: "admin"}}}

	names := u.RoleNames()
	if len(names) != 2 || names[0] != "editor" || names[1] != "admin" {
		t.Fatalf("unexpected names: %v", names)
	}
	if !u.HasRole("admin") || u.HasRole("viewer") {
		t.Fatalf("HasRole returned unexpected result")
	}
}
