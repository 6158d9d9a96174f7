package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Alijeyrad/vlog_backend/pkg/constants"
)

// Mongo is the MongoDB gateway. The client is shared by every request and
// created by whichever operation needs it first.
type Mongo struct {
	cfg    Config
	logger *slog.Logger

	mu  sync.Mutex
	cli *mongo.Client
}

func NewMongo(cfg Config, logger *slog.Logger) *Mongo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mongo{cfg: cfg, logger: logger}
}

// client connects on first use. A failed attempt leaves m.cli nil so the
// next caller tries again.
func (m *Mongo) client(ctx context.Context) (*mongo.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cli != nil {
		return m.cli, nil
	}
	if m.cfg.URI == "" {
		return nil, errors.New("database uri is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(m.cfg.URI).
		SetAppName(constants.AppName).
		SetConnectTimeout(m.cfg.ConnectTimeout).
		SetMaxPoolSize(m.cfg.MaxPoolSize)

	cli, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	m.logger.Info("mongo connected", "database", m.cfg.Database)
	m.cli = cli
	return cli, nil
}

func (m *Mongo) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	cli, err := m.client(ctx)
	if err != nil {
		return nil, err
	}
	return cli.Database(m.cfg.Database).Collection(name), nil
}

func (m *Mongo) Insert(ctx context.Context, collection string, doc any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	coll, err := m.collection(ctx, collection)
	if err != nil {
		return "", unavailable("insert", collection, err)
	}

	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return "", unavailable("insert", collection, err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (m *Mongo) FindOne(ctx context.Context, collection string, filter bson.D) (bson.Raw, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	coll, err := m.collection(ctx, collection)
	if err != nil {
		return nil, unavailable("find one", collection, err)
	}

	raw, err := coll.FindOne(ctx, nonNil(filter)).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("find one", collection, err)
	}
	return raw, nil
}

func (m *Mongo) FindMany(ctx context.Context, collection string, filter bson.D, sort bson.D) ([]bson.Raw, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	coll, err := m.collection(ctx, collection)
	if err != nil {
		return nil, unavailable("find", collection, err)
	}

	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}

	cur, err := coll.Find(ctx, nonNil(filter), opts)
	if err != nil {
		return nil, unavailable("find", collection, err)
	}
	defer cur.Close(ctx)

	out := make([]bson.Raw, 0)
	for cur.Next(ctx) {
		// cur.Current is reused by the next call.
		out = append(out, append(bson.Raw(nil), cur.Current...))
	}
	if err := cur.Err(); err != nil {
		return nil, unavailable("find", collection, err)
	}
	return out, nil
}

// EnsureIndexes creates the lookup and ordering indexes. Slug stays
// non-unique: duplicate titles are allowed to persist.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		constants.CollectionVlogPosts: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetName("slug_1")},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("createdAt_-1")},
		},
		constants.CollectionContactMessages: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("createdAt_-1")},
		},
	}

	for name, models := range indexes {
		coll, err := m.collection(ctx, name)
		if err != nil {
			return unavailable("ensure indexes", name, err)
		}
		created, err := coll.Indexes().CreateMany(ctx, models)
		if err != nil {
			return unavailable("ensure indexes", name, err)
		}
		m.logger.Info("indexes ensured", "collection", name, "indexes", created)
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	cli, err := m.client(ctx)
	if err != nil {
		return unavailable("ping", "", err)
	}
	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		return unavailable("ping", "", err)
	}
	return nil
}

// Close disconnects the shared client if one was ever created.
func (m *Mongo) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cli == nil {
		return nil
	}
	err := m.cli.Disconnect(ctx)
	m.cli = nil
	return err
}

func nonNil(filter bson.D) bson.D {
	if filter == nil {
		return bson.D{}
	}
	return filter
}
