package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-console/internal/domain"
	apperrors "github.com/spec-kit/billing-console/pkg/util"
)

// The gate predicates compose per route: kind-only, kind plus specific
// roles, or super-privilege only. 401 is reserved for requests with no
// usable credential; 403 strictly for an authenticated principal failing a
// predicate.

// RequireAuthenticated admits any resolved principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireKind admits only principals of the given kind.
func RequireKind(kind domain.PrincipalKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Kind != kind {
			return apperrors.NewForbidden("access denied")
		}
		return c.Next()
	}
}

// RequireRole admits operators whose role label is in the allowed set.
// Subscribers are admitted when the set contains the Customer marker, since
// they carry a single implicit role.
func RequireRole(allowed ...domain.OperatorRole) fiber.Handler {
	allowedSet := make(map[domain.OperatorRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[principal.Role()]; !exists {
			return apperrors.NewForbidden("insufficient permissions")
		}
		return c.Next()
	}
}

// RequireSuperAdmin admits only operators holding the super-privilege role.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Kind != domain.PrincipalKindOperator || principal.Role() != domain.RoleSuperAdmin {
			return apperrors.NewForbidden("super admin required")
		}
		return c.Next()
	}
}
