package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/vlog_backend/config"
	"github.com/Alijeyrad/vlog_backend/internal/api/http/router"
	"github.com/Alijeyrad/vlog_backend/internal/app"
	"github.com/Alijeyrad/vlog_backend/pkg/docstore"
)

func Start(cfg *config.Config, timeout time.Duration) {
	fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module, // This is the http.Module from server.go

		// Best effort: a database that is down at boot only fails readiness.
		fx.Invoke(func(lc fx.Lifecycle, store docstore.Gateway) {
			lc.Append(fx.Hook{OnStart: func(ctx context.Context) error {
				if err := store.EnsureIndexes(ctx); err != nil {
					slog.Warn("ensure indexes failed", "err", err)
				}
				return nil
			}})
		}),

		// Invoke *fiber.App because that's what NewServer returns
		// This forces the creation of fiber.App, triggering the OnStart hook
		fx.Invoke(func(*fiber.App) {}),

		fx.StopTimeout(timeout),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	).Run()
}
