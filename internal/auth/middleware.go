package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk/internal/domain"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Session domain.Session
}

// UserLookup resolves a directory user by username.
type UserLookup interface {
	GetUser(ctx context.Context, username string) (domain.User, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  UserLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. The directory entry is authoritative, so a
// token for a deleted user is rejected.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetUser(c.UserContext(), claims.Username)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return apperrors.NewUnauthorized("user not found")
		}
		return err
	}

	c.Locals(principalKey, &Principal{Session: domain.SessionFor(user)})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// SessionFromContext returns the caller's session or an Unauthorized error.
func SessionFromContext(c *fiber.Ctx) (domain.Session, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.Session.IsZero() {
		return domain.Session{}, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Session, nil
}
