package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/99minutos/identity-service/internal/app"
	"github.com/99minutos/identity-service/internal/infrastructure/seed"
	"github.com/99minutos/identity-service/pkg/logger"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the indexes or tables of the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, load, func(a *app.App) error {
				if err := a.Migrate(cmd.Context()); err != nil {
					return err
				}
				log := logger.Get()
				log.Info().Str("store", a.Config.StoreDriver).Msg("migration complete")
				return nil
			})
		},
	}
}

func newSeedRolesCmd(load configLoader) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-roles",
		Short: "Upsert the role catalog from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles, err := seed.LoadRolesFile(file)
			if err != nil {
				return err
			}
			return withApp(cmd, load, func(a *app.App) error {
				n, err := a.RoleService.SeedRoles(cmd.Context(), roles)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d roles\n", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "roles.yaml", "role catalog file")
	return cmd
}

func newAssignRolesCmd(load configLoader) *cobra.Command {
	var (
		userID string
		roles  string
	)

	cmd := &cobra.Command{
		Use:   "assign-roles",
		Short: "Replace a user's roles (use to bootstrap the first admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return fmt.Errorf("--user-id is required")
			}
			ids, err := parseRoleIDs(roles)
			if err != nil {
				return err
			}
			return withApp(cmd, load, func(a *app.App) error {
				user, err := a.AuthService.AssignRoles(cmd.Context(), userID, ids)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s now has roles %s\n", user.Username, strings.Join(user.RoleNames(), ","))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "id of the user to update")
	cmd.Flags().StringVar(&roles, "roles", "", "comma-separated role ids; empty clears all roles")
	return cmd
}

func withApp(cmd *cobra.Command, load configLoader, fn func(a *app.App) error) error {
	cfg, err := load(cmd)
	if err != nil {
		return err
	}
	a, err := app.New(cmd.Context(), cfg, logger.Get())
	if err != nil {
		return err
	}
	return runAndClose(cmd.Context(), a, func() error { return fn(a) })
}

// runAndClose runs fn and always closes c, reporting both failures.
func runAndClose(ctx context.Context, c closer, fn func() error) error {
	runErr := fn()
	if err := c.Close(ctx); err != nil {
		return errors.Join(runErr, fmt.Errorf("close: %w", err))
	}
	return runErr
}

type closer interface {
	Close(ctx context.Context) error
}

func parseRoleIDs(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid role id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
