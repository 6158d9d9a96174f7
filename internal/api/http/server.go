package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/fx"

	"github.com/Alijeyrad/vlog_backend/config"
	"github.com/Alijeyrad/vlog_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/vlog_backend/internal/api/http/router"
	"github.com/Alijeyrad/vlog_backend/pkg/constants"
	"github.com/Alijeyrad/vlog_backend/pkg/observability"
)

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

func NewServer(p Params) *fiber.App {
	app := NewApp(p.Cfg)

	configureGlobalMiddleware(app, p.Cfg, p.OTel != nil)

	p.Router.Register(app)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()
			slog.Info("HTTP server listening", "addr", addr, "env", p.Cfg.Server.Environment)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// NewApp returns a fiber app with the body limit and timeouts of cfg.
func NewApp(cfg *config.Config) *fiber.App {
	bodyMB := cfg.Server.BodyLimitMB
	if bodyMB <= 0 {
		bodyMB = 6
	}
	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return fiber.New(fiber.Config{
		AppName:      constants.AppName,
		BodyLimit:    bodyMB << 20,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
}

func configureGlobalMiddleware(app *fiber.App, cfg *config.Config, tracing bool) {
	app.Use(middleware.RequestID())
	if cfg.Observability.Metrics.Enabled {
		app.Use(observability.HTTPMetrics())
	}
	app.Use(recoverer.New())

	if tracing {
		app.Use(observability.FiberMiddleware())
	}

	if cfg.Server.Environment == constants.EnvProduction {
		app.Use(helmet.New())
	}
	if cfg.Server.CORS.Enabled {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORS.AllowOrigins,
			AllowCredentials: cfg.Server.CORS.AllowCredentials,
			MaxAge:           cfg.Server.CORS.MaxAgeSeconds,
		}))
	}

	app.Use(logger.New(logger.Config{
		Format: "${ip} - [${time}] [req_id=${locals:request_id}] ${method} ${url} ${status} ${latency}\n",
	}))
}
