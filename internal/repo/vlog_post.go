package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Alijeyrad/vlog_backend/pkg/constants"
	"github.com/Alijeyrad/vlog_backend/pkg/docstore"
)

type VlogPost struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Author           string    `json:"author"`
	Content          string    `json:"content"`
	FeaturedImageURL string    `json:"featuredImageUrl,omitempty"`
	Slug             string    `json:"slug"`
	Excerpt          string    `json:"excerpt,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type vlogPostDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	Author           string             `bson:"author"`
	Content          string             `bson:"content"`
	FeaturedImageURL string             `bson:"featuredImageUrl"`
	Slug             string             `bson:"slug"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

func (d vlogPostDocument) record() *VlogPost {
	return &VlogPost{
		ID:               d.ID.Hex(),
		Title:            d.Title,
		Author:           d.Author,
		Content:          d.Content,
		FeaturedImageURL: d.FeaturedImageURL,
		Slug:             d.Slug,
		CreatedAt:        normalizeTime(d.CreatedAt),
		UpdatedAt:        normalizeTime(d.UpdatedAt),
	}
}

type VlogPostClient struct {
	store docstore.Gateway
}

// Create stores p as a new document. p.ID and p.Excerpt are ignored.
func (c *VlogPostClient) Create(ctx context.Context, p VlogPost) (string, error) {
	return c.store.Insert(ctx, constants.CollectionVlogPosts, vlogPostDocument{
		Title:            p.Title,
		Author:           p.Author,
		Content:          p.Content,
		FeaturedImageURL: p.FeaturedImageURL,
		Slug:             p.Slug,
		CreatedAt:        normalizeTime(p.CreatedAt),
		UpdatedAt:        normalizeTime(p.UpdatedAt),
	})
}

// List returns every post, newest first.
func (c *VlogPostClient) List(ctx context.Context) ([]*VlogPost, error) {
	raws, err := c.store.FindMany(ctx, constants.CollectionVlogPosts, nil, newestFirst)
	if err != nil {
		return nil, err
	}

	out := make([]*VlogPost, 0, len(raws))
	for _, raw := range raws {
		p, err := decodeVlogPost(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// GetBySlug returns nil, nil when no post has the slug. With duplicate
// slugs the first stored match wins.
func (c *VlogPostClient) GetBySlug(ctx context.Context, slug string) (*VlogPost, error) {
	return c.findOne(ctx, bson.D{{Key: "slug", Value: slug}})
}

// GetByID returns nil, nil when id is malformed or unknown.
func (c *VlogPostClient) GetByID(ctx context.Context, id string) (*VlogPost, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	return c.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (c *VlogPostClient) findOne(ctx context.Context, filter bson.D) (*VlogPost, error) {
	raw, err := c.store.FindOne(ctx, constants.CollectionVlogPosts, filter)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeVlogPost(raw)
}

func decodeVlogPost(raw bson.Raw) (*VlogPost, error) {
	var doc vlogPostDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode vlog post: %w", err)
	}
	return doc.record(), nil
}
