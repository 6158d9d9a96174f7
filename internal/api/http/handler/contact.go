package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vlog_backend/internal/schema"
	"github.com/Alijeyrad/vlog_backend/internal/service/contact"
)

type ContactHandler struct {
	svc contact.Service
}

func NewContactHandler(svc contact.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// POST /api/v1/contact
func (h *ContactHandler) Submit(c fiber.Ctx) error {
	f, err := bindFields(c)
	if err != nil {
		return badRequest(c, schema.MsgInvalidForm)
	}
	return submission(c, h.svc.Submit(c.Context(), f))
}

// GET /api/v1/contact/messages
func (h *ContactHandler) List(c fiber.Ctx) error {
	msgs, err := h.svc.List(c.Context())
	if err != nil {
		return unavailable(c, err.Error())
	}
	return ok(c, msgs)
}

// GET /api/v1/contact/messages/:id
func (h *ContactHandler) Get(c fiber.Ctx) error {
	msg, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, contact.ErrStorageUnavailable) {
			return unavailable(c, err.Error())
		}
		return internalError(c)
	}
	if msg == nil {
		return notFound(c, "message not found")
	}
	return ok(c, msg)
}
