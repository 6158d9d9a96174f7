package pasetotoken

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func BearerToken(c fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}
