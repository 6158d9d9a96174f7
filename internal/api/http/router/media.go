package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vlog_backend/internal/api/http/handler"
	"github.com/Alijeyrad/vlog_backend/pkg/authorize"
)

func (r *Router) registerMediaRoutes(api fiber.Router, h *handler.MediaHandler, authRequired fiber.Handler, requirePerm func(authorize.Resource, authorize.Action) fiber.Handler) {
	group := api.Group("/media")
	group.Post("/images", authRequired, requirePerm(authorize.ResourceMedia, authorize.ActionUpload), h.UploadImage)
}
