package app

import (
	"go.uber.org/fx"

	"github.com/Alijeyrad/vlog_backend/config"
	"github.com/Alijeyrad/vlog_backend/internal/repo"
	"github.com/Alijeyrad/vlog_backend/internal/service/auth"
	"github.com/Alijeyrad/vlog_backend/internal/service/contact"
	"github.com/Alijeyrad/vlog_backend/internal/service/media"
	"github.com/Alijeyrad/vlog_backend/internal/service/vlog"
	"github.com/Alijeyrad/vlog_backend/pkg/cache"
	"github.com/Alijeyrad/vlog_backend/pkg/events"
	"github.com/Alijeyrad/vlog_backend/pkg/imagehost"
	pasetotoken "github.com/Alijeyrad/vlog_backend/pkg/paseto"
	"github.com/Alijeyrad/vlog_backend/pkg/session"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideContactService,
		ProvideVlogService,
		ProvideMediaService,
		ProvideAuthService,
		ProvidePasetoManager,
	),
)

func ProvideContactService(db *repo.Client, bus *events.Bus) contact.Service {
	return contact.New(db, bus)
}

func ProvideVlogService(db *repo.Client, pages cache.PageCache, bus *events.Bus) vlog.Service {
	return vlog.New(db, pages, bus)
}

func ProvideMediaService(host imagehost.Uploader, cfg *config.Config) media.Service {
	return media.New(host, imagehost.OptionsFromConfig(cfg.Media))
}

func ProvideAuthService(sessions session.Store, paseto *pasetotoken.Manager, cfg *config.Config) (auth.Service, error) {
	return auth.New(sessions, paseto, cfg)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
