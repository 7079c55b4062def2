package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// AuthService implements sign-up, sign-in and role assignment.
type AuthService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	signer ports.TokenSigner
	log    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	hasher ports.PasswordHasher,
	signer ports.TokenSigner,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		roles:  roles,
		hasher: hasher,
		signer: signer,
		log:    log,
	}
}

func (s *AuthService) SignUp(ctx context.Context, username, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("sign up: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        []domain.Role{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return domain.ErrDuplicateUsername
		}
		return domain.NewStoreError("sign up", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return nil
}

func (s *AuthService) SignIn(ctx context.Context, username, password string) (*domain.Token, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("username", username).Msg("sign in for unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.NewStoreError("sign in", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Debug().Str("username", username).Msg("sign in password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	// Only public fields go into the token: no id, no password material.
	claims := map[string]any{
		"username": user.Username,
		"roles":    user.RoleNames(),
	}

	signed, expiresAt, err := s.signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("sign in: sign token: %w", err)
	}

	return &domain.Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *AuthService) AssignRoles(ctx context.Context, userID string, roleIDs []int) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStoreError("assign roles", err)
	}

	ids := uniqueIDs(roleIDs)

	var resolved []domain.Role
	if len(ids) > 0 {
		resolved, err = s.roles.FindByIDs(ctx, ids)
		if err != nil {
			return nil, domain.NewStoreError("assign roles", err)
		}
	}

	if len(resolved) < len(ids) {
		return nil, &domain.RoleNotFoundError{Missing: missingIDs(ids, resolved)}
	}

	user.Roles = orderRoles(ids, resolved)
	user.UpdatedAt = time.Now().UTC()

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStoreError("assign roles", err)
	}

	s.log.Info().
		Str("user_id", saved.ID).
		Ints("role_ids", ids).
		Msg("roles assigned")

	return saved, nil
}

// uniqueIDs drops repeated ids, keeping first-seen order.
func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(requested []int, resolved []domain.Role) []int {
	found := make(map[int]struct{}, len(resolved))
	for _, r := range resolved {
		found[r.ID] = struct{}{}
	}
	var missing []int
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// orderRoles lays out resolved roles in request order.
func orderRoles(ids []int, resolved []domain.Role) []domain.Role {
	byID := make(map[int]domain.Role, len(resolved))
	for _, r := range resolved {
		byID[r.ID] = r
	}
	out := make([]domain.Role, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out
}
