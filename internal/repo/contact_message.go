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

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type contactMessageDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type ContactMessageClient struct {
	store docstore.Gateway
}

func (c *ContactMessageClient) Create(ctx context.Context, m ContactMessage) (string, error) {
	return c.store.Insert(ctx, constants.CollectionContactMessages, contactMessageDocument{
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		CreatedAt: normalizeTime(m.CreatedAt),
	})
}

func (c *ContactMessageClient) List(ctx context.Context) ([]*ContactMessage, error) {
	raws, err := c.store.FindMany(ctx, constants.CollectionContactMessages, nil, newestFirst)
	if err != nil {
		return nil, err
	}

	out := make([]*ContactMessage, 0, len(raws))
	for _, raw := range raws {
		m, err := decodeContactMessage(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// GetByID returns nil, nil when id is malformed or unknown.
func (c *ContactMessageClient) GetByID(ctx context.Context, id string) (*ContactMessage, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}

	raw, err := c.store.FindOne(ctx, constants.CollectionContactMessages, bson.D{{Key: "_id", Value: oid}})
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeContactMessage(raw)
}

func decodeContactMessage(raw bson.Raw) (*ContactMessage, error) {
	var doc contactMessageDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode contact message: %w", err)
	}
	return &ContactMessage{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		Email:     doc.Email,
		Subject:   doc.Subject,
		Message:   doc.Message,
		CreatedAt: normalizeTime(doc.CreatedAt),
	}, nil
}
