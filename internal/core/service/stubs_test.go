package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/99minutos/identity-service/internal/core/domain"
)

var errStoreDown = errors.New("connection refused")

type stubUserRepo struct {
	byID      map[string]*domain.User
	nextID    int
	createErr error
	findErr   error
	saveErr   error
	saves     int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrDuplicateUsername
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = "user-" + strconv.Itoa(r.nextID)
	r.byID[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	if _, ok := r.byID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.saves++
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) byUsername(username string) *domain.User {
	for _, u := range r.byID {
		if u.Username == username {
			return u
		}
	}
	return nil
}

type stubRoleRepo struct {
	roles   map[int]domain.Role
	findErr error
	calls   int
}

func newStubRoleRepo(roles ...domain.Role) *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[int]domain.Role)}
	for _, role := range roles {
		r.roles[role.ID] = role
	}
	return r
}

func (r *stubRoleRepo) FindByIDs(_ context.Context, ids []int) ([]domain.Role, error) {
	r.calls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.Role
	// reverse order to make sure callers don't rely on it
	for i := len(ids) - 1; i >= 0; i-- {
		if role, ok := r.roles[ids[i]]; ok {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r *stubRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role)
	}
	return out, nil
}

func (r *stubRoleRepo) Upsert(_ context.Context, role *domain.Role) error {
	if r.findErr != nil {
		return r.findErr
	}
	r.roles[role.ID] = *role
	return nil
}
