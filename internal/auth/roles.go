package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk/internal/domain"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Session.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return RequireRole()
}

// RequireCapability ensures the principal's role passes a domain role check such as
// domain.Role.CanAdminister.
func RequireCapability(can func(domain.Role) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !can(principal.Session.Role) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
