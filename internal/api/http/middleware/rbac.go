package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vlog_backend/pkg/authorize"
)

// RequirePermission checks that the authenticated admin may act on
// resource. Must run after AuthRequired.
func RequirePermission(az authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		p, ok := PrincipalFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if err := az.MustEnforce(c.Context(), authorize.Subject(p.Username), resource, action); err != nil {
			if errors.Is(err, authorize.ErrForbidden) {
				return fiber.ErrForbidden
			}
			return err
		}

		return c.Next()
	}
}
