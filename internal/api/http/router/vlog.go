package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vlog_backend/internal/api/http/handler"
	"github.com/Alijeyrad/vlog_backend/pkg/authorize"
)

func (r *Router) registerVlogRoutes(api fiber.Router, h *handler.VlogHandler, authRequired fiber.Handler, requirePerm func(authorize.Resource, authorize.Action) fiber.Handler) {
	group := api.Group("/vlogs")
	group.Get("/", h.List)
	group.Get("/slug/:slug", h.GetBySlug)
	group.Get("/:id", h.GetByID)
	group.Post("/", authRequired, requirePerm(authorize.ResourceVlogPost, authorize.ActionCreate), h.Create)
}
