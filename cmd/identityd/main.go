// Command identityd runs the identity service and its maintenance tasks.
//
// @title                       Identity Service API
// @version                     1.0
// @description                 User registration, sign-in and role assignment.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/99minutos/identity-service/internal/infrastructure/config"
	"github.com/99minutos/identity-service/pkg/logger"
)

const serviceName = "identity-service"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "identityd",
		Short:         "Identity service: sign-up, sign-in and role assignment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	load := func(cmd *cobra.Command) (*config.Config, error) {
		// A missing .env is normal outside local development.
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return nil, err
		}
		logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  !cfg.IsProduction(),
			Service: serviceName,
		})
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
		newSeedRolesCmd(load),
		newAssignRolesCmd(load),
	)
	return root
}

type configLoader func(cmd *cobra.Command) (*config.Config, error)
