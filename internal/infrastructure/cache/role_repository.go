package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

const defaultRoleTTL = 5 * time.Minute

// RoleRepository caches FindByIDs results per role id. Only resolved roles
// are cached, so a role seeded after a miss is visible on the next lookup.
type RoleRepository struct {
	inner ports.RoleRepository
	store Store
	ttl   time.Duration
	log   zerolog.Logger
}

func NewRoleRepository(inner ports.RoleRepository, store Store, ttl time.Duration, log zerolog.Logger) *RoleRepository {
	if ttl <= 0 {
		ttl = defaultRoleTTL
	}
	return &RoleRepository{inner: inner, store: store, ttl: ttl, log: log}
}

func roleKey(id int) string { return "role:" + strconv.Itoa(id) }

func (r *RoleRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Role, error) {
	found := make([]domain.Role, 0, len(ids))
	var misses []int

	for _, id := range ids {
		b, ok, err := r.store.Get(ctx, roleKey(id))
		if err != nil {
			r.log.Warn().Err(err).Int("role_id", id).Msg("role cache read failed, reading through")
		}
		if !ok {
			misses = append(misses, id)
			continue
		}
		var role domain.Role
		if err := json.Unmarshal(b, &role); err != nil {
			r.log.Warn().Err(err).Int("role_id", id).Msg("corrupt role cache entry")
			misses = append(misses, id)
			continue
		}
		found = append(found, role)
	}

	if len(misses) == 0 {
		return found, nil
	}

	fetched, err := r.inner.FindByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	for _, role := range fetched {
		r.put(ctx, role)
	}
	return append(found, fetched...), nil
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	return r.inner.List(ctx)
}

// Upsert writes through and evicts the cached copy.
func (r *RoleRepository) Upsert(ctx context.Context, role *domain.Role) error {
	if err := r.inner.Upsert(ctx, role); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, roleKey(role.ID)); err != nil {
		r.log.Warn().Err(err).Int("role_id", role.ID).Msg("role cache eviction failed")
	}
	return nil
}

func (r *RoleRepository) put(ctx context.Context, role domain.Role) {
	b, err := json.Marshal(role)
	if err != nil {
		return
	}
	if err := r.store.Set(ctx, roleKey(role.ID), b, r.ttl); err != nil {
		r.log.Warn().Err(err).Int("role_id", role.ID).Msg("role cache write failed")
	}
}
