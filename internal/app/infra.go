package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/vlog_backend/config"
	"github.com/Alijeyrad/vlog_backend/internal/repo"
	"github.com/Alijeyrad/vlog_backend/pkg/authorize"
	"github.com/Alijeyrad/vlog_backend/pkg/cache"
	"github.com/Alijeyrad/vlog_backend/pkg/docstore"
	"github.com/Alijeyrad/vlog_backend/pkg/email"
	"github.com/Alijeyrad/vlog_backend/pkg/events"
	"github.com/Alijeyrad/vlog_backend/pkg/imagehost"
	"github.com/Alijeyrad/vlog_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/vlog_backend/pkg/redis"
	"github.com/Alijeyrad/vlog_backend/pkg/session"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideDocStore),
	fx.Provide(ProvideRepoClient),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvidePageCache),
	fx.Provide(ProvideSessionStore),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideImageHost),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvideEventBus),
)

func ProvideDocStore(lc fx.Lifecycle, cfg *config.Config) (docstore.Gateway, error) {
	store, err := docstore.New(docstore.FromCentralConfig(cfg.Database), slog.Default())
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing document store")
			return store.Close(ctx)
		},
	})
	return store, nil
}

func ProvideRepoClient(store docstore.Gateway) *repo.Client {
	return repo.NewClient(store)
}

// ProvideRedis returns a nil client when no address is configured.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rdb, err := redispkg.NewRedisFromCentral(ctx, cfg.Redis)
	if errors.Is(err, redispkg.ErrNotConfigured) {
		slog.Warn("redis not configured, using in-memory page cache and sessions")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvidePageCache(cfg *config.Config, rdb *redis.Client) cache.PageCache {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if rdb == nil {
		return cache.NewMemory(ttl)
	}
	return cache.NewRedis(rdb, cfg.Cache.KeyPrefix, ttl)
}

func ProvideSessionStore(rdb *redis.Client) session.Store {
	if rdb == nil {
		return session.NewMemoryStore()
	}
	return session.NewRedisStore(rdb)
}

func ProvideAuthorization(cfg *config.Config) (authorize.IAuthorization, error) {
	return authorize.New(context.Background(), cfg)
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg.Email)
}

func ProvideImageHost(cfg *config.Config) (imagehost.Uploader, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return imagehost.New(ctx, cfg.Media, cfg.S3)
}

// ProvideNatsClient returns a nil connection when no URL is configured.
func ProvideNatsClient(cfg *config.Config) (*nats.Conn, error) {
	nc, err := events.Connect(cfg.Nats)
	if err != nil {
		return nil, err
	}
	if nc == nil {
		slog.Info("nats not configured, domain events disabled")
	}
	return nc, nil
}

func ProvideEventBus(lc fx.Lifecycle, nc *nats.Conn, cfg *config.Config) *events.Bus {
	bus := events.NewBus(nc, cfg.Nats.SubjectPrefix)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return bus.Close()
		},
	})
	return bus
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
