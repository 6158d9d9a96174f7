package docstore

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process gateway for development and tests. Filters match
// top-level fields by equality; sort keys take 1 or -1.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]bson.Raw
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]bson.Raw)}
}

func (m *Memory) Insert(_ context.Context, collection string, doc any) (string, error) {
	b, err := bson.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("docstore: marshal %s document: %w", collection, err)
	}

	var d bson.D
	if err := bson.Unmarshal(b, &d); err != nil {
		return "", fmt.Errorf("docstore: decode %s document: %w", collection, err)
	}

	var id any
	for _, e := range d {
		if e.Key == "_id" {
			id = e.Value
			break
		}
	}
	if id == nil {
		oid := primitive.NewObjectID()
		id = oid
		d = append(bson.D{{Key: "_id", Value: oid}}, d...)
		if b, err = bson.Marshal(d); err != nil {
			return "", fmt.Errorf("docstore: marshal %s document: %w", collection, err)
		}
	}

	m.mu.Lock()
	m.collections[collection] = append(m.collections[collection], bson.Raw(b))
	m.mu.Unlock()

	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(id), nil
}

func (m *Memory) FindOne(_ context.Context, collection string, filter bson.D) (bson.Raw, error) {
	want, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.collections[collection] {
		if matches(doc, want) {
			return doc, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) FindMany(_ context.Context, collection string, filter bson.D, sort bson.D) ([]bson.Raw, error) {
	want, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	keys, err := sortKeys(sort)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	out := make([]bson.Raw, 0, len(m.collections[collection]))
	for _, doc := range m.collections[collection] {
		if matches(doc, want) {
			out = append(out, doc)
		}
	}
	m.mu.RUnlock()

	if len(keys) > 0 {
		slices.SortStableFunc(out, func(a, b bson.Raw) int {
			for _, k := range keys {
				if c := compareValues(a.Lookup(k.field), b.Lookup(k.field)); c != 0 {
					return c * k.dir
				}
			}
			return 0
		})
	}
	return out, nil
}

func (m *Memory) EnsureIndexes(context.Context) error { return nil }

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close(context.Context) error { return nil }

type filterField struct {
	key   string
	value bson.RawValue
}

// normalizeFilter round-trips the filter through bson so that Go values
// compare the same way stored values do.
func normalizeFilter(filter bson.D) ([]filterField, error) {
	if len(filter) == 0 {
		return nil, nil
	}

	b, err := bson.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("docstore: marshal filter: %w", err)
	}
	elems, err := bson.Raw(b).Elements()
	if err != nil {
		return nil, fmt.Errorf("docstore: read filter: %w", err)
	}

	out := make([]filterField, 0, len(elems))
	for _, e := range elems {
		if strings.HasPrefix(e.Key(), "$") {
			return nil, fmt.Errorf("docstore: memory store does not support operator %s", e.Key())
		}
		out = append(out, filterField{key: e.Key(), value: e.Value()})
	}
	return out, nil
}

func matches(doc bson.Raw, want []filterField) bool {
	for _, f := range want {
		v, err := doc.LookupErr(f.key)
		if err != nil || !v.Equal(f.value) {
			return false
		}
	}
	return true
}

type sortKey struct {
	field string
	dir   int
}

func sortKeys(sort bson.D) ([]sortKey, error) {
	out := make([]sortKey, 0, len(sort))
	for _, e := range sort {
		var dir int
		switch v := e.Value.(type) {
		case int:
			dir = v
		case int32:
			dir = int(v)
		case int64:
			dir = int(v)
		default:
			return nil, fmt.Errorf("docstore: sort direction for %s must be an integer", e.Key)
		}
		if dir != 1 && dir != -1 {
			return nil, fmt.Errorf("docstore: sort direction for %s must be 1 or -1", e.Key)
		}
		out = append(out, sortKey{field: e.Key, dir: dir})
	}
	return out, nil
}

// compareValues orders the types this service stores. A missing field
// sorts before any present one, as null does in MongoDB.
func compareValues(a, b bson.RawValue) int {
	if a.Type != b.Type {
		return cmp.Compare(a.Type, b.Type)
	}

	switch a.Type {
	case bsontype.String:
		return strings.Compare(a.StringValue(), b.StringValue())
	case bsontype.DateTime:
		return cmp.Compare(a.DateTime(), b.DateTime())
	case bsontype.ObjectID:
		x, y := a.ObjectID(), b.ObjectID()
		return bytes.Compare(x[:], y[:])
	case bsontype.Int32:
		return cmp.Compare(a.Int32(), b.Int32())
	case bsontype.Int64:
		return cmp.Compare(a.Int64(), b.Int64())
	case bsontype.Double:
		return cmp.Compare(a.Double(), b.Double())
	case bsontype.Boolean:
		x, y := a.Boolean(), b.Boolean()
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	default:
		return bytes.Compare(a.Value, b.Value)
	}
}
