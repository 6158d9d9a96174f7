// Package testutil has doubles shared by service and handler tests.
package testutil

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Alijeyrad/vlog_backend/pkg/docstore"
)

var errDown = errors.New("server selection error: no reachable servers")

// DownStore is a docstore.Gateway whose every operation fails the way an
// unreachable database does.
type DownStore struct{}

var _ docstore.Gateway = DownStore{}

func (DownStore) Insert(_ context.Context, collection string, _ any) (string, error) {
	return "", &docstore.Error{Op: "insert", Collection: collection, Err: errDown}
}

func (DownStore) FindOne(_ context.Context, collection string, _ bson.D) (bson.Raw, error) {
	return nil, &docstore.Error{Op: "find one", Collection: collection, Err: errDown}
}

func (DownStore) FindMany(_ context.Context, collection string, _ bson.D, _ bson.D) ([]bson.Raw, error) {
	return nil, &docstore.Error{Op: "find", Collection: collection, Err: errDown}
}

func (DownStore) EnsureIndexes(context.Context) error {
	return &docstore.Error{Op: "ensure indexes", Err: errDown}
}

func (DownStore) Ping(context.Context) error {
	return &docstore.Error{Op: "ping", Err: errDown}
}

func (DownStore) Close(context.Context) error { return nil }

// BrokenCache fails every operation.
type BrokenCache struct{}

func (BrokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache unavailable")
}

func (BrokenCache) Generation(context.Context, string) (uint64, error) {
	return 0, errors.New("cache unavailable")
}

func (BrokenCache) Fill(context.Context, string, uint64, []byte) (bool, error) {
	return false, errors.New("cache unavailable")
}

func (BrokenCache) Set(context.Context, string, []byte) error {
	return errors.New("cache unavailable")
}

func (BrokenCache) Delete(context.Context, ...string) error {
	return errors.New("cache unavailable")
}
