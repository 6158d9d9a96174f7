package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestMemory_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	if _, ok, _ := c.Get(ctx, KeyListing); ok {
		t.Fatal("empty cache reported a hit")
	}

	if err := c.Set(ctx, KeyListing, []byte("[]")); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, KeyPost("a"), []byte("{}")); err != nil {
		t.Fatal(err)
	}

	got, ok, err := c.Get(ctx, KeyListing)
	if err != nil || !ok || string(got) != "[]" {
		t.Fatalf("Get() = %q, %v, %v", got, ok, err)
	}

	if err := c.Delete(ctx, KeyListing, KeyPost("a"), KeyPost("missing")); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{KeyListing, KeyPost("a")} {
		if _, ok, _ := c.Get(ctx, k); ok {
			t.Errorf("%s still cached after Delete", k)
		}
	}
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory(time.Minute)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, KeyListing, []byte("x"))

	now = now.Add(59 * time.Second)
	if _, ok, _ := c.Get(ctx, KeyListing); !ok {
		t.Error("entry expired early")
	}

	now = now.Add(time.Second)
	if _, ok, _ := c.Get(ctx, KeyListing); ok {
		t.Error("entry should expire at ttl")
	}
}

func TestKeyPost(t *testing.T) {
	if got := KeyPost("summer-camp"); got != "/vlogs/summer-camp" {
		t.Errorf("KeyPost() = %q", got)
	}
}

func newRedisCache(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedis(rdb, "page:", ttl), mr
}

func TestRedis_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	if _, ok, err := c.Get(ctx, KeyListing); ok || err != nil {
		t.Fatalf("Get(empty) = %v, %v", ok, err)
	}

	if err := c.Set(ctx, KeyPost("camp"), []byte(`{"data":{}}`)); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("page:/vlogs/camp") {
		t.Fatal("key not stored under prefix")
	}
	if ttl := mr.TTL("page:/vlogs/camp"); ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}

	got, ok, err := c.Get(ctx, KeyPost("camp"))
	if err != nil || !ok || string(got) != `{"data":{}}` {
		t.Fatalf("Get() = %q, %v, %v", got, ok, err)
	}

	if err := c.Delete(ctx, KeyPost("camp"), KeyListing); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, KeyPost("camp")); ok {
		t.Error("still cached after Delete")
	}

	mr.FastForward(2 * time.Minute)
	_ = c.Set(ctx, KeyListing, []byte("x"))
	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, KeyListing); ok {
		t.Error("entry survived its ttl")
	}
}

func TestRedis_Unreachable(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	mr.Close()

	if _, _, err := c.Get(context.Background(), KeyListing); err == nil {
		t.Error("Get on a closed server returned no error")
	}
	if _, err := c.Fill(context.Background(), KeyListing, 0, []byte("x")); err == nil {
		t.Error("Fill on a closed server returned no error")
	}
}

// A page loaded before an invalidation must not be written back after it.
func TestFill_SkipsAfterInvalidation(t *testing.T) {
	redisCache, _ := newRedisCache(t, time.Minute)
	caches := map[string]PageCache{
		"memory": NewMemory(time.Minute),
		"redis":  redisCache,
	}

	for name, c := range caches {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			gen, err := c.Generation(ctx, KeyListing)
			if err != nil {
				t.Fatal(err)
			}

			// A create lands while the reader is loading.
			if err := c.Delete(ctx, KeyListing, KeyPost("new-post")); err != nil {
				t.Fatal(err)
			}

			stored, err := c.Fill(ctx, KeyListing, gen, []byte("stale"))
			if err != nil {
				t.Fatal(err)
			}
			if stored {
				t.Fatal("stale page stored after invalidation")
			}
			if _, ok, _ := c.Get(ctx, KeyListing); ok {
				t.Fatal("stale page visible")
			}

			fresh, err := c.Generation(ctx, KeyListing)
			if err != nil {
				t.Fatal(err)
			}
			if fresh == gen {
				t.Fatalf("Delete did not bump generation (still %d)", gen)
			}
			stored, err = c.Fill(ctx, KeyListing, fresh, []byte("fresh"))
			if err != nil || !stored {
				t.Fatalf("Fill(current generation) = %v, %v", stored, err)
			}
			got, ok, _ := c.Get(ctx, KeyListing)
			if !ok || string(got) != "fresh" {
				t.Errorf("Get() = %q, %v", got, ok)
			}
		})
	}
}
