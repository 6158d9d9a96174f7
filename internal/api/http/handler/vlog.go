package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vlog_backend/internal/schema"
	"github.com/Alijeyrad/vlog_backend/internal/service/vlog"
	"github.com/Alijeyrad/vlog_backend/pkg/cache"
	"github.com/Alijeyrad/vlog_backend/pkg/metrics"
)

const (
	HeaderCache = "X-Cache"
	msgNotFound = "Vlog post not found."
)

type VlogHandler struct {
	svc   vlog.Service
	pages cache.PageCache
}

func NewVlogHandler(svc vlog.Service, pages cache.PageCache) *VlogHandler {
	return &VlogHandler{svc: svc, pages: pages}
}

// POST /api/v1/vlogs
func (h *VlogHandler) Create(c fiber.Ctx) error {
	f, err := bindFields(c)
	if err != nil {
		return badRequest(c, schema.MsgInvalidForm)
	}
	return submission(c, h.svc.Create(c.Context(), f))
}

// GET /api/v1/vlogs?q=
// Only the unfiltered listing is cached.
func (h *VlogHandler) List(c fiber.Ctx) error {
	if q := c.Query("q"); q != "" {
		return ok(c, h.svc.Search(c.Context(), q))
	}

	return h.cached(c, cache.KeyListing, func(ctx context.Context) (page, error) {
		posts := h.svc.List(ctx)
		// List hides storage failures behind an empty slice; an empty
		// listing is served but never cached.
		return page{v: posts, found: true, keep: len(posts) > 0}, nil
	})
}

// GET /api/v1/vlogs/slug/:slug
func (h *VlogHandler) GetBySlug(c fiber.Ctx) error {
	slug := c.Params("slug")

	return h.cached(c, cache.KeyPost(slug), func(ctx context.Context) (page, error) {
		p, err := h.svc.GetBySlug(ctx, slug)
		return page{v: p, found: p != nil, keep: true}, err
	})
}

// GET /api/v1/vlogs/:id
func (h *VlogHandler) GetByID(c fiber.Ctx) error {
	p, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	if p == nil {
		return notFound(c, msgNotFound)
	}
	return ok(c, p)
}

type page struct {
	v     any
	found bool
	keep  bool
}

// cached serves key from the page cache, or loads it, writes {"data": v}
// and stores the body when keep is set. Not-found and failed loads are
// never cached. The key's generation is read before loading so a page
// loaded across an invalidation is served once but not stored.
func (h *VlogHandler) cached(c fiber.Ctx, key string, load func(context.Context) (page, error)) error {
	ctx := c.Context()

	body, hit, err := h.pages.Get(ctx, key)
	switch {
	case err != nil:
		metrics.PageCacheLookups.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "vlog: page cache read failed", "key", key, "err", err)
	case hit:
		metrics.PageCacheLookups.WithLabelValues("hit").Inc()
		c.Set(HeaderCache, "HIT")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.Send(body)
	default:
		metrics.PageCacheLookups.WithLabelValues("miss").Inc()
	}

	gen, genErr := h.pages.Generation(ctx, key)

	pg, err := load(ctx)
	if err != nil {
		return h.mapError(c, err)
	}
	if !pg.found {
		return notFound(c, msgNotFound)
	}

	body, err = c.App().Config().JSONEncoder(fiber.Map{"data": pg.v})
	if err != nil {
		return internalError(c)
	}
	if pg.keep && genErr == nil {
		stored, err := h.pages.Fill(ctx, key, gen, body)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "vlog: page cache write failed", "key", key, "err", err)
		case !stored:
			slog.DebugContext(ctx, "vlog: page invalidated while loading, not cached", "key", key)
		}
	}

	c.Set(HeaderCache, "MISS")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

func (h *VlogHandler) mapError(c fiber.Ctx, err error) error {
	if errors.Is(err, vlog.ErrStorageUnavailable) {
		return unavailable(c, err.Error())
	}
	return internalError(c)
}
