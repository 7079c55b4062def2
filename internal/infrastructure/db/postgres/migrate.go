package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/001_initial.up.sql
var initialMigrationSQL string

var requiredTables = []string{"roles", "users", "user_roles"}

// EnsureSchema applies the initial migration when any required table is
// missing. The SQL is idempotent, so a partial schema is completed.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) (applied bool, err error) {
	present, err := hasAllRequiredTables(ctx, pool)
	if err != nil {
		return false, fmt.Errorf("check existing tables: %w", err)
	}
	if present {
		return false, nil
	}

	if _, err := pool.Exec(ctx, initialMigrationSQL); err != nil {
		return false, fmt.Errorf("apply initial migration: %w", err)
	}

	present, err = hasAllRequiredTables(ctx, pool)
	if err != nil {
		return true, fmt.Errorf("re-check tables after migration: %w", err)
	}
	if !present {
		return true, fmt.Errorf("schema initialization incomplete: required tables are still missing")
	}
	return true, nil
}

func hasAllRequiredTables(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	var count int
	err := pool.QueryRow(ctx, `
		SELECT count(*)
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name::text = ANY($1::text[])
	`, requiredTables).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == len(requiredTables), nil
}
