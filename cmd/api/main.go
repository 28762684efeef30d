package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/billing-console/internal/api/http"
	"github.com/spec-kit/billing-console/internal/api/http/handlers"
	"github.com/spec-kit/billing-console/internal/auth"
	"github.com/spec-kit/billing-console/internal/config"
	"github.com/spec-kit/billing-console/internal/events"
	"github.com/spec-kit/billing-console/internal/observability"
	"github.com/spec-kit/billing-console/internal/persistence"
	"github.com/spec-kit/billing-console/internal/repository"
	"github.com/spec-kit/billing-console/internal/seed"
	"github.com/spec-kit/billing-console/internal/service"
	"github.com/spec-kit/billing-console/internal/worker"
)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pool := pg.PoolHandle()
	operatorRepo := repository.NewOperatorRepository(pool)
	subscriberRepo := repository.NewSubscriberRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	voucherRepo := repository.NewVoucherRepository(pool)
	routerRepo := repository.NewRouterDeviceRepository(pool)
	configRepo := repository.NewConfigRepository(pool)
	logRepo := repository.NewActivityLogRepository(pool)

	// Sessions live in Redis so every instance sees them; without a Redis
	// address the store is process-local, which only suits a single
	// instance.
	var redisConn *persistence.Redis
	var sessions auth.SessionStore
	if cfg.Redis.Addr != "" {
		redisConn = persistence.NewRedis(cfg.Redis, logger)
		defer redisConn.Close()
		sessions = auth.NewRedisSessionStore(redisConn.Client, cfg.Auth.SessionTTL())
	} else {
		logger.Warn("REDIS_ADDR not set; using in-memory session store")
		sessions = auth.NewMemorySessionStore(cfg.Auth.SessionTTL())
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logRepo, configRepo, logger)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Operators:   operatorRepo,
		Subscribers: subscriberRepo,
		Sessions:    sessions,
		Dispatcher:  dispatcher,
	}, logger)
	consoleService := service.NewConsoleService(service.ConsoleDependencies{
		Operators:   operatorRepo,
		Subscribers: subscriberRepo,
		Plans:       planRepo,
		Vouchers:    voucherRepo,
		Routers:     routerRepo,
		Logs:        logRepo,
	})

	seeder := seed.NewSeeder(cfg.Seed, cfg.Auth.BcryptCost, seed.Dependencies{
		Operators:   operatorRepo,
		Subscribers: subscriberRepo,
		Plans:       planRepo,
		Routers:     routerRepo,
		Settings:    configRepo,
		Dispatcher:  dispatcher,
	}, logger)
	if cfg.Seed.RunOnStart {
		if err := seeder.Run(ctx); err != nil {
			logger.Fatal("failed to seed defaults", zap.Error(err))
		}
	}

	resolver := auth.NewPrincipalResolver(operatorRepo, subscriberRepo)
	authMiddleware := auth.NewMiddleware(resolver,
		auth.NewBearerTransport(authService.Codec()),
		auth.NewCookieTransport(sessions, cfg.Auth.SessionCookieName),
	)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, *cfg)

	migrateSeed := func(ctx context.Context) error {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			return err
		}
		return seeder.Run(ctx)
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisConn),
		Auth:           handlers.NewAuthHandler(authService, cfg.Auth.SessionCookieName, cfg.Auth.SessionTTL(), cfg.App.Env == "production"),
		Admin:          handlers.NewAdminHandler(consoleService),
		Subscriber:     handlers.NewSubscriberHandler(consoleService),
		Migrate:        handlers.NewMigrateHandler(cfg.Auth.MigrationSecret, migrateSeed, logger),
		AuthMiddleware: authMiddleware,
		RateLimit:      cfg.RateLimit,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
