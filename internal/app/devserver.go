package app

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aishop/storefront/internal/api"
	"github.com/aishop/storefront/internal/core/ports"
	"github.com/aishop/storefront/internal/core/service"
	"github.com/aishop/storefront/internal/infrastructure/config"
	"github.com/aishop/storefront/internal/infrastructure/db/memory"
	redisdb "github.com/aishop/storefront/internal/infrastructure/db/redis"
)

// DevServer is the contract server plus the resources it owns.
type DevServer struct {
	Echo    *echo.Echo
	closers []func() error
}

// NewDevServer builds the contract server. Accounts and wishlists always live
// in memory; revoked tokens go to Redis when DEVSERVER_REVOCATIONS=redis.
func NewDevServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*DevServer, error) {
	srv := &DevServer{}
	checks := map[string]func(ctx context.Context) error{}

	var revocations ports.RevocationStore = memory.NewRevocationStore()
	if cfg.DevServer.Revocations == config.BackendRedis {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, client.Close)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		revocations = redisdb.NewRevocationStore(client, cfg.Redis.Prefix)
	}

	accounts := service.NewAccountService(memory.NewAccountRepository(), revocations, cfg.DevServer.JWTSecret, cfg.DevServer.TokenTTL, log)
	srv.Echo = api.NewRouter(api.Deps{
		Accounts:        accounts,
		Wishlists:       memory.NewWishlistRepository(),
		Log:             log,
		ReadinessChecks: checks,
	})
	return srv, nil
}

// Close releases external connections.
func (s *DevServer) Close() error {
	for _, c := range s.closers {
		if err := c(); err != nil {
			return err
		}
	}
	return nil
}
