package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/identity-service/internal/core/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}

	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestInitialMigrationEmbedded(t *testing.T) {
	require.NotEmpty(t, initialMigrationSQL)
	for _, table := range requiredTables {
		assert.Contains(t, initialMigrationSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, initialMigrationSQL, "UNIQUE (username)")
}

func TestUserRepository_RejectsNonUUIDWithoutQuery(t *testing.T) {
	// nil pool: any query would panic, so reaching the store is a failure.
	repo := NewUserRepository(nil)

	_, err := repo.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.Save(context.Background(), &domain.User{ID: "not-a-uuid"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRoleRepository_EmptyLookupSkipsQuery(t *testing.T) {
	roles, err := NewRoleRepository(nil).FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, roles)
}
