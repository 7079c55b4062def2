package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// RoleService serves and seeds the role catalog.
type RoleService struct {
	repo ports.RoleRepository
	log  zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, log zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, log: log}
}

// ListRoles returns the catalog sorted by id.
func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.NewStoreError("list roles", err)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (s *RoleService) SeedRoles(ctx context.Context, roles []domain.Role) (int, error) {
	written := 0
	for i := range roles {
		r := roles[i]
		if r.ID <= 0 || r.Name == "" {
			return written, fmt.Errorf("seed roles: entry %d: id and name are required", i)
		}
		if err := s.repo.Upsert(ctx, &r); err != nil {
			return written, domain.NewStoreError("seed roles", err)
		}
		written++
		s.log.Debug().Int("role_id", r.ID).Str("name", r.Name).Msg("role seeded")
	}
	return written, nil
}
