// Package app wires configuration, stores and services into a runnable
// identity service. The cmd layer only parses flags and calls into here.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/api"
	"github.com/99minutos/identity-service/internal/api/handler"
	"github.com/99minutos/identity-service/internal/api/metrics"
	"github.com/99minutos/identity-service/internal/core/ports"
	"github.com/99minutos/identity-service/internal/core/service"
	"github.com/99minutos/identity-service/internal/infrastructure/cache"
	"github.com/99minutos/identity-service/internal/infrastructure/config"
	"github.com/99minutos/identity-service/internal/infrastructure/crypto"
	mongostore "github.com/99minutos/identity-service/internal/infrastructure/db/mongo"
	pgstore "github.com/99minutos/identity-service/internal/infrastructure/db/postgres"
	redisstore "github.com/99minutos/identity-service/internal/infrastructure/db/redis"
	"github.com/99minutos/identity-service/pkg/logger"
)

// App holds the assembled services and the connections behind them.
type App struct {
	Config      *config.Config
	AuthService ports.AuthService
	RoleService ports.RoleService
	Signer      *crypto.JWTSigner

	store   *store
	pingers []handler.Pinger
	closers []func(context.Context) error
	log     zerolog.Logger
}

// store is the selected persistence backend.
type store struct {
	users   ports.UserRepository
	roles   ports.RoleRepository
	migrate func(ctx context.Context) error
	pinger  handler.Pinger
	close   func(ctx context.Context) error
}

// New connects to the configured backends and builds the services.
// Close must be called to release connections.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, log: log}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.store = st
	a.pingers = append(a.pingers, st.pinger)
	a.closers = append(a.closers, st.close)

	var rdb *goredis.Client
	if cfg.RoleCache.Driver == config.CacheRedis {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		a.pingers = append(a.pingers, redisstore.NewPinger(rdb))
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	}

	roles := cachedRoles(cfg.RoleCache, st.roles, rdb, log)

	a.Signer = crypto.NewJWTSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc := service.NewAuthService(
		st.users,
		roles,
		crypto.NewBcryptHasher(cfg.Auth.BcryptCost),
		a.Signer,
		logger.Component(log, "auth"),
	)
	a.AuthService = metrics.NewInstrumentedAuthService(authSvc)
	a.RoleService = service.NewRoleService(roles, logger.Component(log, "roles"))

	return a, nil
}

// Migrate creates indexes or tables the selected store needs.
func (a *App) Migrate(ctx context.Context) error {
	return a.store.migrate(ctx)
}

// Router builds the HTTP surface over the assembled services.
func (a *App) Router() *echo.Echo {
	return api.NewRouter(api.Deps{
		AuthService: a.AuthService,
		RoleService: a.RoleService,
		Verifier:    a.Signer,
		AdminRole:   a.Config.Auth.AdminRole,
		Pingers:     a.pingers,
		Logger:      a.log,
	})
}

// Close releases every connection in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &store{
			users:   mongostore.NewUserRepository(db),
			roles:   mongostore.NewRoleRepository(db),
			migrate: func(ctx context.Context) error { return mongostore.EnsureIndexes(ctx, db) },
			pinger:  mongostore.NewPinger(db),
			close:   client.Disconnect,
		}, nil

	case config.StorePostgres:
		pool, err := pgstore.Connect(ctx, pgstore.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		log.Info().Msg("connected to postgres")
		return &store{
			users: pgstore.NewUserRepository(pool),
			roles: pgstore.NewRoleRepository(pool),
			migrate: func(ctx context.Context) error {
				applied, err := pgstore.EnsureSchema(ctx, pool)
				if err != nil {
					return err
				}
				log.Info().Bool("applied", applied).Msg("postgres schema ready")
				return nil
			},
			pinger: pgstore.NewPinger(pool),
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// cachedRoles puts the configured cache in front of the role store.
// A nil redis client with the redis driver falls back to no cache.
func cachedRoles(cfg config.RoleCacheConfig, roles ports.RoleRepository, rdb *goredis.Client, log zerolog.Logger) ports.RoleRepository {
	cacheLog := logger.Component(log, "role_cache")
	switch cfg.Driver {
	case config.CacheMemory:
		return cache.NewRoleRepository(roles, cache.NewMemory(cfg.TTL), cfg.TTL, cacheLog)
	case config.CacheRedis:
		if rdb == nil {
			return roles
		}
		return cache.NewRoleRepository(roles, redisstore.NewCache(rdb), cfg.TTL, cacheLog)
	}
	return roles
}
