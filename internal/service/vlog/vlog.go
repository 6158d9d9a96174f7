package vlog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Alijeyrad/vlog_backend/internal/repo"
	"github.com/Alijeyrad/vlog_backend/internal/schema"
	"github.com/Alijeyrad/vlog_backend/pkg/cache"
	"github.com/Alijeyrad/vlog_backend/pkg/events"
	"github.com/Alijeyrad/vlog_backend/pkg/metrics"
	"github.com/Alijeyrad/vlog_backend/pkg/util/htmltext"
	"github.com/Alijeyrad/vlog_backend/pkg/util/slug"
)

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Create validates, derives the slug and timestamps, stores the post and
	// invalidates the listing and post pages.
	Create(ctx context.Context, f schema.Fields) schema.Result
	// List never fails: storage errors yield an empty slice.
	List(ctx context.Context) []*repo.VlogPost
	// Search filters List by a case-insensitive substring of title, author
	// or content text. An empty query returns everything.
	Search(ctx context.Context, q string) []*repo.VlogPost
	GetBySlug(ctx context.Context, slug string) (*repo.VlogPost, error)
	GetByID(ctx context.Context, id string) (*repo.VlogPost, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type vlogService struct {
	db    *repo.Client
	pages cache.PageCache
	bus   *events.Bus
	now   func() time.Time
}

func New(db *repo.Client, pages cache.PageCache, bus *events.Bus) Service {
	return &vlogService{db: db, pages: pages, bus: bus, now: time.Now}
}

func (s *vlogService) Create(ctx context.Context, f schema.Fields) schema.Result {
	in, issues := schema.ParseVlogPost(f)
	if len(issues) > 0 {
		metrics.ObserveSubmission(metrics.KindVlog, metrics.OutcomeRejected)
		return schema.Rejected(issues)
	}

	now := s.now()
	post := repo.VlogPost{
		Title:            in.Title,
		Author:           in.Author,
		Content:          in.Content,
		FeaturedImageURL: in.FeaturedImageURL,
		Slug:             slug.Make(in.Title),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	id, err := s.db.VlogPost.Create(ctx, post)
	if err != nil {
		slog.ErrorContext(ctx, "vlog: create post failed", "slug", post.Slug, "err", err)
		metrics.ObserveSubmission(metrics.KindVlog, metrics.OutcomeFailed)
		return schema.Result{Success: false, Message: msgStorageFail}
	}

	// The write already happened; a stale page only lives until its TTL.
	if err := s.pages.Delete(ctx, cache.KeyListing, cache.KeyPost(post.Slug)); err != nil {
		slog.WarnContext(ctx, "vlog: page cache invalidation failed", "slug", post.Slug, "err", err)
	}
	if err := s.bus.Publish(events.PostCreated, id); err != nil {
		slog.WarnContext(ctx, "vlog: publish event failed", "id", id, "err", err)
	}

	metrics.ObserveSubmission(metrics.KindVlog, metrics.OutcomeSuccess)
	return schema.Result{Success: true, Message: msgCreated, ID: id}
}

func (s *vlogService) List(ctx context.Context) []*repo.VlogPost {
	posts, err := s.db.VlogPost.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "vlog: list posts failed", "err", err)
		return []*repo.VlogPost{}
	}
	for _, p := range posts {
		p.Excerpt = htmltext.Excerpt(p.Content, excerptLength)
	}
	return posts
}

func (s *vlogService) Search(ctx context.Context, q string) []*repo.VlogPost {
	posts := s.List(ctx)

	q = strings.TrimSpace(q)
	if q == "" {
		return posts
	}
	needle := strings.ToLower(q)

	out := make([]*repo.VlogPost, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Author), needle) ||
			htmltext.Contains(p.Content, q) {
			out = append(out, p)
		}
	}
	return out
}

func (s *vlogService) GetBySlug(ctx context.Context, slug string) (*repo.VlogPost, error) {
	p, err := s.db.VlogPost.GetBySlug(ctx, slug)
	if err != nil {
		slog.ErrorContext(ctx, "vlog: get post by slug failed", "slug", slug, "err", err)
		return nil, ErrStorageUnavailable
	}
	return p, nil
}

func (s *vlogService) GetByID(ctx context.Context, id string) (*repo.VlogPost, error) {
	p, err := s.db.VlogPost.GetByID(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "vlog: get post by id failed", "id", id, "err", err)
		return nil, ErrStorageUnavailable
	}
	return p, nil
}
