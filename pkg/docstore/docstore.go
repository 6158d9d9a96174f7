// Package docstore is the narrow persistence gateway in front of the
// document database. Callers deal in collection names, bson filters and raw
// documents; driver types and errors stay inside this package.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

var (
	// ErrUnavailable matches every transport or driver failure.
	ErrUnavailable = errors.New("storage unavailable")
	ErrNotFound    = errors.New("document not found")
)

type Gateway interface {
	// Insert stores doc and returns the store-assigned id as a hex string.
	Insert(ctx context.Context, collection string, doc any) (string, error)
	// FindOne returns ErrNotFound when nothing matches.
	FindOne(ctx context.Context, collection string, filter bson.D) (bson.Raw, error)
	FindMany(ctx context.Context, collection string, filter bson.D, sort bson.D) ([]bson.Raw, error)

	EnsureIndexes(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Error carries the driver detail for logs. Clients only ever see that
// errors.Is(err, ErrUnavailable) holds.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("docstore %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("docstore %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrUnavailable }

func unavailable(op, collection string, err error) error {
	return &Error{Op: op, Collection: collection, Err: err}
}

// New returns the gateway selected by cfg.Driver. The Mongo gateway does
// not connect here; the first operation does.
func New(cfg Config, logger *slog.Logger) (Gateway, error) {
	switch cfg.Driver {
	case DriverMongo, "":
		return NewMongo(cfg, logger), nil
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("docstore: unknown driver %q", cfg.Driver)
	}
}
