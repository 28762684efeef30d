package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-console/internal/api/dto"
	"github.com/spec-kit/billing-console/internal/service"
	apperrors "github.com/spec-kit/billing-console/pkg/util"
)

// AdminHandler serves the operator-facing console endpoints.
type AdminHandler struct {
	console *service.ConsoleService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(console *service.ConsoleService) *AdminHandler {
	return &AdminHandler{console: console}
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, recentLogs, recentSubscribers, err := h.console.AdminDashboard(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}

	subscriberViews := make([]dto.SubscriberView, 0, len(recentSubscribers))
	for i := range recentSubscribers {
		subscriberViews = append(subscriberViews, dto.NewSubscriberView(&recentSubscribers[i]))
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"stats":              stats,
			"recent_logs":        recentLogs,
			"recent_subscribers": subscriberViews,
		},
	})
}

// Operators handles GET /admin/operators.
func (h *AdminHandler) Operators(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	operators, err := h.console.ListOperators(c.UserContext(), limit, offset)
	if err != nil {
		return apperrors.MapError(err)
	}

	views := make([]dto.OperatorView, 0, len(operators))
	for i := range operators {
		views = append(views, dto.NewOperatorView(&operators[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"operators": views}})
}

// GenerateVouchers handles POST /admin/vouchers/generate.
func (h *AdminHandler) GenerateVouchers(c *fiber.Ctx) error {
	var req dto.GenerateVouchersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PlanID <= 0 {
		return apperrors.NewValidationError("plan_id required", nil)
	}

	vouchers, err := h.console.GenerateVouchers(c.UserContext(), req.PlanID, req.Count)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"vouchers": vouchers}})
}

// ReportsSummary handles GET /admin/reports/summary.
func (h *AdminHandler) ReportsSummary(c *fiber.Ctx) error {
	stats, _, _, err := h.console.AdminDashboard(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"summary": stats}})
}
