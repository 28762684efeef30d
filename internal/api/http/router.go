package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-console/internal/api/http/handlers"
	"github.com/spec-kit/billing-console/internal/auth"
	"github.com/spec-kit/billing-console/internal/config"
	"github.com/spec-kit/billing-console/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Subscriber     *handlers.SubscriberHandler
	Migrate        *handlers.MigrateHandler
	AuthMiddleware *auth.Middleware
	RateLimit      config.RateLimitConfig
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Migration trigger registers all methods so non-POST yields 405 from
	// the handler rather than 404 from the router.
	app.All("/api/migrate", cfg.Migrate.Trigger)

	authGroup := app.Group("/auth", AuthRateLimiter(cfg.RateLimit))
	authGroup.Post("/operators/login", cfg.Auth.OperatorLogin)
	authGroup.Post("/subscribers/login", cfg.Auth.SubscriberLogin)
	authGroup.Post("/logout", cfg.AuthMiddleware.Authenticate, auth.RequireAuthenticated(), cfg.Auth.Logout)

	admin := app.Group("/admin", cfg.AuthMiddleware.Authenticate, auth.RequireKind(domain.PrincipalKindOperator))
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Get("/operators", auth.RequireSuperAdmin(), cfg.Admin.Operators)
	admin.Post("/vouchers/generate",
		auth.RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin),
		cfg.Admin.GenerateVouchers)
	admin.Get("/reports/summary",
		auth.RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleReport),
		cfg.Admin.ReportsSummary)

	subscriber := app.Group("/subscriber", cfg.AuthMiddleware.Authenticate, auth.RequireKind(domain.PrincipalKindSubscriber))
	subscriber.Get("/dashboard", cfg.Subscriber.Dashboard)
	subscriber.Get("/profile", cfg.Subscriber.Profile)
	subscriber.Get("/plans", cfg.Subscriber.Plans)
}
