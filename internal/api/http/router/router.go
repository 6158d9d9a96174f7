package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/vlog_backend/config"
	"github.com/Alijeyrad/vlog_backend/internal/api/http/handler"
	"github.com/Alijeyrad/vlog_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/vlog_backend/internal/service/auth"
	"github.com/Alijeyrad/vlog_backend/internal/service/contact"
	"github.com/Alijeyrad/vlog_backend/internal/service/media"
	"github.com/Alijeyrad/vlog_backend/internal/service/vlog"
	"github.com/Alijeyrad/vlog_backend/pkg/authorize"
	"github.com/Alijeyrad/vlog_backend/pkg/cache"
	"github.com/Alijeyrad/vlog_backend/pkg/docstore"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg        *config.Config
	Redis      *redis.Client `optional:"true"`
	Auth       authorize.IAuthorization
	Store      docstore.Gateway
	Pages      cache.PageCache
	AuthSvc    auth.Service
	ContactSvc contact.Service
	VlogSvc    vlog.Service
	MediaSvc   media.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	authRequired := middleware.AuthRequired(r.p.AuthSvc)

	// Permission helper
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Initialize Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc)
	contactH := handler.NewContactHandler(r.p.ContactSvc)
	vlogH := handler.NewVlogHandler(r.p.VlogSvc, r.p.Pages)
	mediaH := handler.NewMediaHandler(r.p.MediaSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, authRequired)
	r.registerContactRoutes(api, contactH, authRequired, requirePerm)
	r.registerVlogRoutes(api, vlogH, authRequired, requirePerm)
	r.registerMediaRoutes(api, mediaH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			return r.p.Store.Ping(ctx) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
