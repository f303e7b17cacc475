package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/opsdesk/incident-tracker/pkg/util"
)

const principalKey = "auth_principal"

// Middleware validates bearer tokens on protected routes and exposes the
// verified claims as an explicit principal. Claims are self-contained, so
// no store lookup happens here.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs the middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication. Missing, malformed, tampered and
// expired credentials all collapse to the same unauthorized outcome.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(principalKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the authenticated identity set by Handle.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
