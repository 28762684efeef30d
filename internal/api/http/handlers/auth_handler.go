package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-console/internal/api/dto"
	"github.com/spec-kit/billing-console/internal/auth"
	"github.com/spec-kit/billing-console/internal/domain"
	"github.com/spec-kit/billing-console/internal/service"
	apperrors "github.com/spec-kit/billing-console/pkg/util"
)

// AuthHandler exposes interactive login and logout for both principal
// kinds. A successful login returns the bearer token and sets the session
// cookie, so either transport works for subsequent requests.
type AuthHandler struct {
	auth       *service.AuthService
	cookieName string
	sessionTTL time.Duration
	secureEnv  bool
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, cookieName string, sessionTTL time.Duration, production bool) *AuthHandler {
	return &AuthHandler{auth: authService, cookieName: cookieName, sessionTTL: sessionTTL, secureEnv: production}
}

// OperatorLogin handles POST /auth/operators/login.
func (h *AuthHandler) OperatorLogin(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}

	result, err := h.auth.LoginOperator(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, result.SessionID)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"operator": dto.NewOperatorView(result.Principal.Operator),
			"auth":     dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	})
}

// SubscriberLogin handles POST /auth/subscribers/login.
func (h *AuthHandler) SubscriberLogin(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}

	result, err := h.auth.LoginSubscriber(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, result.SessionID)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"subscriber": dto.NewSubscriberView(result.Principal.Subscriber),
			"auth":       dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	})
}

// Logout handles POST /auth/logout. Destroying an already-gone session is
// fine; the endpoint is idempotent.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var principal *domain.Principal
	if p, ok := auth.PrincipalFromContext(c); ok {
		principal = p
	}
	sessionID, _ := auth.SessionIDFromContext(c)
	if sessionID == "" {
		sessionID = c.Cookies(h.cookieName)
	}

	if err := h.auth.Logout(c.UserContext(), sessionID, principal); err != nil {
		return apperrors.NewInternalError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secureEnv,
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

func parseLogin(c *fiber.Ctx) (*dto.LoginRequest, error) {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("username and password required", nil)
	}
	return &req, nil
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, sessionID string) {
	if sessionID == "" {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    sessionID,
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		Secure:   h.secureEnv,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
