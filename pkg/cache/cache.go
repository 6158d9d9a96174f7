// Package cache holds rendered API responses keyed by the public route they
// back ("/" for the listing, "/vlogs/<slug>" for a post).
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	KeyListing = "/"
)

// KeyPost is the cache key of a single post page.
func KeyPost(slug string) string { return "/vlogs/" + slug }

// PageCache stores rendered pages. Every Delete of a key bumps its
// generation; a reader that loads a page after a miss stores it with Fill
// and the generation it saw before loading, so a page computed before an
// invalidation can never be written back after it.
type PageCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Generation(ctx context.Context, key string) (uint64, error)
	// Fill stores val only while key is still at generation gen.
	Fill(ctx context.Context, key string, gen uint64, val []byte) (stored bool, err error)
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// ---------------------------------------------------------------------------
// Redis
// ---------------------------------------------------------------------------

type Redis struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(rdb *goredis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, true, nil
}

// fillScript sets KEYS[2] only while the generation counter KEYS[1] still
// reads ARGV[1]. A missing counter is generation 0.
var fillScript = goredis.NewScript(`
local gen = redis.call('GET', KEYS[1]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if ARGV[3] == '0' then
	redis.call('SET', KEYS[2], ARGV[2])
else
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
end
return 1
`)

func (c *Redis) genKey(key string) string { return c.prefix + "gen:" + key }

func (c *Redis) Generation(ctx context.Context, key string) (uint64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey(key)).Uint64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation %s: %w", key, err)
	}
	return gen, nil
}

func (c *Redis) Fill(ctx context.Context, key string, gen uint64, val []byte) (bool, error) {
	n, err := fillScript.Run(ctx, c.rdb,
		[]string{c.genKey(key), c.prefix + key},
		strconv.FormatUint(gen, 10), val, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("cache fill %s: %w", key, err)
	}
	return n == 1, nil
}

func (c *Redis) Set(ctx context.Context, key string, val []byte) error {
	if err := c.rdb.Set(ctx, c.prefix+key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, c.genKey(k))
			pipe.Del(ctx, c.prefix+k)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Memory
// ---------------------------------------------------------------------------

type entry struct {
	val     []byte
	expires time.Time
}

// Memory is a process-local PageCache used when Redis is not configured.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]uint64
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]entry), gens: make(map[string]uint64)}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || (!e.expires.IsZero() && !c.now().Before(e.expires)) {
		return nil, false, nil
	}
	return e.val, true, nil
}

func (c *Memory) Generation(_ context.Context, key string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[key], nil
}

func (c *Memory) Fill(_ context.Context, key string, gen uint64, val []byte) (bool, error) {
	e := c.entry(val)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return false, nil
	}
	c.entries[key] = e
	return true, nil
}

func (c *Memory) Set(_ context.Context, key string, val []byte) error {
	e := c.entry(val)

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *Memory) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		c.gens[k]++
		delete(c.entries, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *Memory) entry(val []byte) entry {
	e := entry{val: append([]byte(nil), val...)}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	return e
}
