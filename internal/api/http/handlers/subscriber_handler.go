package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-console/internal/api/dto"
	"github.com/spec-kit/billing-console/internal/auth"
	"github.com/spec-kit/billing-console/internal/service"
	apperrors "github.com/spec-kit/billing-console/pkg/util"
)

// SubscriberHandler serves the subscriber self-service endpoints. Routes
// are mounted behind RequireKind(subscriber), so the principal here is
// always a subscriber.
type SubscriberHandler struct {
	console *service.ConsoleService
}

// NewSubscriberHandler constructs the handler.
func NewSubscriberHandler(console *service.ConsoleService) *SubscriberHandler {
	return &SubscriberHandler{console: console}
}

// Dashboard handles GET /subscriber/dashboard.
func (h *SubscriberHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Subscriber == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	plans, vouchers, err := h.console.SubscriberDashboard(c.UserContext(), principal.Subscriber)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"subscriber": dto.NewSubscriberView(principal.Subscriber),
			"plans":      plans,
			"vouchers":   vouchers,
		},
	})
}

// Profile handles GET /subscriber/profile.
func (h *SubscriberHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Subscriber == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"subscriber": dto.NewSubscriberView(principal.Subscriber)}})
}

// Plans handles GET /subscriber/plans.
func (h *SubscriberHandler) Plans(c *fiber.Ctx) error {
	plans, err := h.console.EnabledPlans(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"plans": plans}})
}
