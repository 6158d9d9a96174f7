package handler

import (
	"mime"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vlog_backend/internal/schema"
)

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": msg})
}

func unauthorized(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": msg})
}

func notFound(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": msg})
}

func tooManyRequests(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "message": msg})
}

func unavailable(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "message": msg})
}

func internalError(c fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "internal server error"})
}

// submission writes a form result: 201 when stored, 422 with issues when
// rejected, 503 when storage failed.
func submission(c fiber.Ctx, res schema.Result) error {
	switch {
	case res.Success:
		return c.Status(fiber.StatusCreated).JSON(res)
	case len(res.Issues) > 0:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
	default:
		return c.Status(fiber.StatusServiceUnavailable).JSON(res)
	}
}

// bindFields reads a submission from a JSON object, a urlencoded form or a
// multipart form. Non-string JSON values are dropped and then reported as
// missing by validation.
func bindFields(c fiber.Ctx) (schema.Fields, error) {
	ct, _, _ := mime.ParseMediaType(c.Get(fiber.HeaderContentType))
	f := schema.Fields{}

	switch {
	case ct == fiber.MIMEMultipartForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		for k, vs := range form.Value {
			if len(vs) > 0 {
				f[k] = vs[0]
			}
		}
	case ct == fiber.MIMEApplicationForm:
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			f[string(k)] = string(v)
		})
	default:
		var raw map[string]any
		if err := c.Bind().JSON(&raw); err != nil {
			return nil, err
		}
		for k, v := range raw {
			if s, ok := v.(string); ok {
				f[k] = s
			}
		}
	}

	for k, v := range f {
		f[k] = strings.TrimSpace(v)
	}
	return f, nil
}
