package contact

import (
	"context"
	"log/slog"
	"time"

	"github.com/Alijeyrad/vlog_backend/internal/repo"
	"github.com/Alijeyrad/vlog_backend/internal/schema"
	"github.com/Alijeyrad/vlog_backend/pkg/events"
	"github.com/Alijeyrad/vlog_backend/pkg/metrics"
)

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Submit validates and stores a contact form. It never returns an error;
	// every failure is described by the result.
	Submit(ctx context.Context, f schema.Fields) schema.Result
	List(ctx context.Context) ([]*repo.ContactMessage, error)
	// Get returns nil, nil when the message does not exist.
	Get(ctx context.Context, id string) (*repo.ContactMessage, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type contactService struct {
	db  *repo.Client
	bus *events.Bus
	now func() time.Time
}

func New(db *repo.Client, bus *events.Bus) Service {
	return &contactService{db: db, bus: bus, now: time.Now}
}

func (s *contactService) Submit(ctx context.Context, f schema.Fields) schema.Result {
	in, issues := schema.ParseContactMessage(f)
	if len(issues) > 0 {
		metrics.ObserveSubmission(metrics.KindContact, metrics.OutcomeRejected)
		return schema.Rejected(issues)
	}

	id, err := s.db.ContactMessage.Create(ctx, repo.ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: s.now(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "contact: save message failed", "err", err)
		metrics.ObserveSubmission(metrics.KindContact, metrics.OutcomeFailed)
		return schema.Result{Success: false, Message: msgStorageFail}
	}

	if err := s.bus.Publish(events.ContactReceived, id); err != nil {
		slog.WarnContext(ctx, "contact: publish event failed", "id", id, "err", err)
	}

	metrics.ObserveSubmission(metrics.KindContact, metrics.OutcomeSuccess)
	return schema.Result{Success: true, Message: msgSent, ID: id}
}

func (s *contactService) List(ctx context.Context) ([]*repo.ContactMessage, error) {
	msgs, err := s.db.ContactMessage.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "contact: list messages failed", "err", err)
		return nil, ErrStorageUnavailable
	}
	return msgs, nil
}

func (s *contactService) Get(ctx context.Context, id string) (*repo.ContactMessage, error) {
	msg, err := s.db.ContactMessage.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "contact: get message failed", "id", id, "err", err)
		return nil, ErrStorageUnavailable
	}
	return msg, nil
}
