package app

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/Alijeyrad/vlog_backend/internal/repo"
	"github.com/Alijeyrad/vlog_backend/pkg/cache"
	"github.com/Alijeyrad/vlog_backend/pkg/constants"
	"github.com/Alijeyrad/vlog_backend/pkg/email"
	"github.com/Alijeyrad/vlog_backend/pkg/events"
)

const workerTimeout = 30 * time.Second

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc    fx.Lifecycle
	Bus   *events.Bus
	DB    *repo.Client
	Mail  *email.Client
	Pages cache.PageCache
}

func RegisterWorkers(p WorkerParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if p.Mail.Enabled() {
				n := &contactNotifier{db: p.DB, mail: p.Mail, to: p.Mail.NotifyTo()}
				if err := p.Bus.Subscribe(events.ContactReceived, n.handle); err != nil {
					slog.Error("contact_worker: subscribe failed", "err", err)
				} else {
					slog.Info("contact_worker: started")
				}
			}

			inv := &pageInvalidator{db: p.DB, pages: p.Pages}
			if err := p.Bus.Subscribe(events.PostCreated, inv.handle); err != nil {
				slog.Error("page_worker: subscribe failed", "err", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideEventBus
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// contact_worker
// ---------------------------------------------------------------------------

// contactNotifier emails the site owner about each stored contact message.
type contactNotifier struct {
	db   *repo.Client
	mail email.Sender
	to   []string
}

func (n *contactNotifier) handle(id string) {
	if len(n.to) == 0 {
		slog.Debug("contact_worker: no recipients configured", "id", id)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), workerTimeout)
	defer cancel()

	msg, err := n.db.ContactMessage.GetByID(ctx, id)
	if err != nil {
		slog.Warn("contact_worker: load message failed", "id", id, "err", err)
		return
	}
	if msg == nil {
		slog.Warn("contact_worker: message not found", "id", id)
		return
	}

	mail := email.BuildContactNotificationEmail(n.to, email.ContactEmailData{
		ID:         msg.ID,
		Name:       msg.Name,
		Email:      msg.Email,
		Subject:    msg.Subject,
		Message:    msg.Message,
		ReceivedAt: msg.CreatedAt,
		AppName:    constants.AppName,
	})
	if err := n.mail.Send(ctx, mail); err != nil {
		slog.Warn("contact_worker: send notification failed", "id", id, "err", err)
		return
	}
	slog.Info("contact_worker: owner notified", "id", id)
}

// ---------------------------------------------------------------------------
// page_worker
// ---------------------------------------------------------------------------

// pageInvalidator repeats the page cache invalidation on every instance, so
// in-memory caches of other processes drop the listing too.
type pageInvalidator struct {
	db    *repo.Client
	pages cache.PageCache
}

func (w *pageInvalidator) handle(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), workerTimeout)
	defer cancel()

	keys := []string{cache.KeyListing}
	post, err := w.db.VlogPost.GetByID(ctx, id)
	if err != nil {
		slog.Warn("page_worker: load post failed", "id", id, "err", err)
	}
	if post != nil {
		keys = append(keys, cache.KeyPost(post.Slug))
	}

	if err := w.pages.Delete(ctx, keys...); err != nil {
		slog.Warn("page_worker: invalidation failed", "id", id, "err", err)
	}
}
