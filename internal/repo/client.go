// Package repo maps the stored documents of each collection to the records
// handed to the rest of the application. Ids leave this package as hex
// strings and timestamps as UTC, millisecond precision.
package repo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Alijeyrad/vlog_backend/pkg/docstore"
)

// Client groups the per-collection repositories over one gateway.
type Client struct {
	ContactMessage *ContactMessageClient
	VlogPost       *VlogPostClient
}

func NewClient(store docstore.Gateway) *Client {
	return &Client{
		ContactMessage: &ContactMessageClient{store: store},
		VlogPost:       &VlogPostClient{store: store},
	}
}

// newestFirst is the listing order for both collections.
var newestFirst = bson.D{
	{Key: "createdAt", Value: -1},
	{Key: "_id", Value: -1},
}

// normalizeTime matches what the store keeps: UTC, milliseconds.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// objectID parses a client-supplied id. ok is false for anything that is
// not a 24-char hex ObjectID.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
