package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vlog_backend/internal/service/auth"
	pasetotoken "github.com/Alijeyrad/vlog_backend/pkg/paseto"
	"github.com/Alijeyrad/vlog_backend/pkg/reqctx"
)

const LocalPrincipal = "auth.principal"

// AuthRequired validates a Bearer PASETO access token and checks that its
// session is still live. On success the principal is stored in locals and
// in the request context.
func AuthRequired(svc auth.Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		tok, ok := pasetotoken.BearerToken(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		p, err := svc.Authenticate(c.Context(), tok)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrSessionNotFound) {
				return fiber.ErrUnauthorized
			}
			slog.ErrorContext(c.Context(), "auth: session lookup failed", "err", err)
			return fiber.ErrServiceUnavailable
		}

		c.Locals(LocalPrincipal, p)
		c.SetContext(reqctx.WithPrincipal(c.Context(), p))
		return c.Next()
	}
}

// PrincipalFromFiber returns the admin set by AuthRequired.
func PrincipalFromFiber(c fiber.Ctx) (*reqctx.Principal, bool) {
	p, ok := c.Locals(LocalPrincipal).(*reqctx.Principal)
	return p, ok && p != nil
}
