package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v3"
)

// HeaderAdminToken carries the shared secret for catalog write routes.
const HeaderAdminToken = "X-Admin-Token"

// NewAdminAuth guards catalog administration. With no token configured every
// admin request is refused.
func NewAdminAuth(token string) fiber.Handler {
	want := []byte(token)
	return func(c fiber.Ctx) error {
		if len(want) == 0 {
			return ErrorResponse(c, fiber.StatusForbidden, "ADMIN_DISABLED", "Catalog administration is not configured")
		}
		got := []byte(c.Get(HeaderAdminToken))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid admin token")
		}
		return c.Next()
	}
}
