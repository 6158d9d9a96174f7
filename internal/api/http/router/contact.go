package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vlog_backend/internal/api/http/handler"
	"github.com/Alijeyrad/vlog_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/vlog_backend/pkg/authorize"
)

func (r *Router) registerContactRoutes(api fiber.Router, h *handler.ContactHandler, authRequired fiber.Handler, requirePerm func(authorize.Resource, authorize.Action) fiber.Handler) {
	group := api.Group("/contact")

	// Public and unauthenticated, so it is the route worth throttling.
	group.Post("/", middleware.NewLimiter(r.p.Redis, r.p.Cfg.Server.RateLimit), h.Submit)

	group.Get("/messages", authRequired, requirePerm(authorize.ResourceContactMessage, authorize.ActionList), h.List)
	group.Get("/messages/:id", authRequired, requirePerm(authorize.ResourceContactMessage, authorize.ActionRead), h.Get)
}
