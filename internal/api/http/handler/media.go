package handler

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vlog_backend/internal/service/media"
)

type MediaHandler struct {
	svc media.Service
}

func NewMediaHandler(svc media.Service) *MediaHandler {
	return &MediaHandler{svc: svc}
}

// POST /api/v1/media/images (multipart, field "file")
func (h *MediaHandler) UploadImage(c fiber.Ctx) error {
	var data []byte

	// A missing part falls through with no data and gets the service's
	// "no file" result.
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			slog.WarnContext(c.Context(), "media: open multipart file failed", "err", err)
			return internalError(c)
		}
		defer f.Close()

		data, err = io.ReadAll(f)
		if err != nil {
			slog.WarnContext(c.Context(), "media: read multipart file failed", "err", err)
			return internalError(c)
		}
	}

	res := h.svc.UploadImage(c.Context(), data)
	switch {
	case res.Success:
		return c.Status(fiber.StatusCreated).JSON(res)
	case res.BadInput:
		return c.Status(fiber.StatusBadRequest).JSON(res)
	default:
		return c.Status(fiber.StatusBadGateway).JSON(res)
	}
}
