package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
)

func renderError(t *testing.T, err error, log zerolog.Logger) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/signup", nil), rec)

	NewHTTPErrorHandler(log)(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrDuplicateUsername, http.StatusConflict, "username already exists"},
		{fmt.Errorf("wrapped: %w", domain.ErrInvalidCredentials), http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrRoleNotFound, http.StatusUnprocessableEntity, "role not found"},
		{echo.NewHTTPError(http.StatusBadRequest, "password is required"), http.StatusBadRequest, "password is required"},
	}

	for _, tc := range cases {
		code, body := renderError(t, tc.err, zerolog.Nop())
		if code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		if body["error"] != tc.msg {
			t.Fatalf("%v: expected message %q, got %v", tc.err, tc.msg, body["error"])
		}
	}
}

func TestHTTPErrorHandler_RoleNotFoundListsMissingIDs(t *testing.T) {
	code, body := renderError(t, &domain.RoleNotFoundError{Missing: []int{2, 5}}, zerolog.Nop())
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	missing, ok := body["missing_role_ids"].([]any)
	if !ok || len(missing) != 2 || missing[0] != float64(2) || missing[1] != float64(5) {
		t.Fatalf("unexpected missing ids: %v", body["missing_role_ids"])
	}
}

func TestHTTPErrorHandler_StoreErrorIsOpaque(t *testing.T) {
	var logs bytes.Buffer
	log := zerolog.New(&logs)

	err := domain.NewStoreError("sign up", errors.New("dial tcp 10.1.2.3:5432: connection refused"))
	code, body := renderError(t, err, log)

	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("unexpected message: %v", body["error"])
	}
	if !strings.Contains(logs.String(), "10.1.2.3") {
		t.Fatalf("expected cause in server logs, got %s", logs.String())
	}
}
