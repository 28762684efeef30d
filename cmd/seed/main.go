package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/billing-console/internal/config"
	"github.com/spec-kit/billing-console/internal/observability"
	"github.com/spec-kit/billing-console/internal/persistence"
	"github.com/spec-kit/billing-console/internal/repository"
	"github.com/spec-kit/billing-console/internal/seed"
)

// Standalone migrate+seed task for deploy time, equivalent to triggering
// the /api/migrate endpoint.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	seeder := seed.NewSeeder(cfg.Seed, cfg.Auth.BcryptCost, seed.Dependencies{
		Operators:   repository.NewOperatorRepository(pool),
		Subscribers: repository.NewSubscriberRepository(pool),
		Plans:       repository.NewPlanRepository(pool),
		Routers:     repository.NewRouterDeviceRepository(pool),
		Settings:    repository.NewConfigRepository(pool),
	}, logger)

	if err := seeder.Run(ctx); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed finished")
}
