package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	sess, err := s.Create(ctx, "admin", "admin", time.Hour)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session id is empty")
	}

	got, err := s.Get(ctx, sess.ID)
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got.Username != "admin" || got.Role != "admin" {
		t.Errorf("Get() = %+v", got)
	}

	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, sess.ID); got != nil {
		t.Error("session still present after Delete")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	sess, _ := s.Create(ctx, "admin", "admin", time.Minute)

	now = now.Add(time.Minute)
	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("expired session returned")
	}
}

func TestMemoryStore_UnknownID(t *testing.T) {
	got, err := NewMemoryStore().Get(context.Background(), "nope")
	if err != nil || got != nil {
		t.Errorf("Get(unknown) = %v, %v", got, err)
	}
}

func TestMemoryStore_CreateSweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	for range 3 {
		if _, err := s.Create(ctx, "admin", "admin", time.Minute); err != nil {
			t.Fatal(err)
		}
	}

	now = now.Add(2 * time.Minute)
	live, _ := s.Create(ctx, "admin", "admin", time.Hour)

	s.mu.Lock()
	n := len(s.sessions)
	_, ok := s.sessions[live.ID]
	s.mu.Unlock()
	if n != 1 || !ok {
		t.Errorf("sessions after sweep = %d (live kept: %v), want only the new one", n, ok)
	}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	sess, err := s.Create(ctx, "admin", "admin", 30*time.Minute)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	key := keyPrefix + sess.ID
	if !mr.Exists(key) {
		t.Fatalf("%s not stored", key)
	}
	if ttl := mr.TTL(key); ttl != 30*time.Minute {
		t.Errorf("ttl = %v, want 30m", ttl)
	}

	got, err := s.Get(ctx, sess.ID)
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got.Username != "admin" || got.Role != "admin" || !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Errorf("Get() = %+v, want %+v", got, sess)
	}

	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if got, err := s.Get(ctx, sess.ID); got != nil || err != nil {
		t.Errorf("Get after Delete = %v, %v", got, err)
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	sess, _ := s.Create(ctx, "admin", "admin", time.Minute)
	mr.FastForward(time.Minute)

	got, err := s.Get(ctx, sess.ID)
	if err != nil || got != nil {
		t.Errorf("Get(expired) = %v, %v", got, err)
	}
}

func TestRedisStore_CorruptValue(t *testing.T) {
	s, mr := newRedisStore(t)
	if err := mr.Set(keyPrefix+"bad", "not json"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "bad"); err == nil {
		t.Error("corrupt session decoded without error")
	}
}

func TestRedisStore_Unreachable(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()
	if _, err := s.Get(context.Background(), "any"); err == nil {
		t.Error("Get on a closed server returned no error")
	}
}
