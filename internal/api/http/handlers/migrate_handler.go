package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SeedFunc runs the migrate+seed routine.
type SeedFunc func(ctx context.Context) error

// MigrateHandler exposes the bootstrap routine behind a shared-secret
// bearer check. No principal exists at bootstrap time, so this is a coarse
// secret comparison, deliberately outside the authorization gate.
type MigrateHandler struct {
	secret []byte
	seed   SeedFunc
	logger *zap.Logger
}

// NewMigrateHandler constructs the handler.
func NewMigrateHandler(secret string, seed SeedFunc, logger *zap.Logger) *MigrateHandler {
	return &MigrateHandler{secret: []byte(secret), seed: seed, logger: logger}
}

// Trigger handles /api/migrate for all methods: 405 for anything but POST,
// 401 on a missing or wrong secret, then runs the seed routine. Failures
// are an operator-invoked maintenance concern and are reported in full.
func (h *MigrateHandler) Trigger(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(http.StatusMethodNotAllowed).JSON(fiber.Map{
			"error": "Method not allowed",
		})
	}

	header := c.Get(fiber.HeaderAuthorization)
	presented, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(presented), h.secret) != 1 {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	h.logger.Info("migration triggered via API")
	if err := h.seed(c.UserContext()); err != nil {
		h.logger.Error("migration failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"success":   false,
			"error":     "Migration failed",
			"details":   err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":   true,
		"message":   "Database migration completed successfully",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
