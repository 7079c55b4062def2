package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

// RoleNotFoundError lists the requested role ids that did not resolve.
// It matches ErrRoleNotFound with errors.Is.
type RoleNotFoundError struct {
	Missing []int
}

func (e *RoleNotFoundError) Error() string {
	ids := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("%s: %s", ErrRoleNotFound, strings.Join(ids, ","))
}

func (e *RoleNotFoundError) Is(target error) bool {
	return target == ErrRoleNotFound
}

// StoreError wraps a persistence failure. Its message is opaque; the
// underlying cause is only reachable through Unwrap.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError returns a StoreError for op wrapping err.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return e.Op + ": " + ErrStoreUnavailable.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}
