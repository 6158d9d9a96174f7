package vlog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Alijeyrad/vlog_backend/internal/repo"
	"github.com/Alijeyrad/vlog_backend/internal/schema"
	"github.com/Alijeyrad/vlog_backend/internal/testutil"
	"github.com/Alijeyrad/vlog_backend/pkg/cache"
	"github.com/Alijeyrad/vlog_backend/pkg/docstore"
	"github.com/Alijeyrad/vlog_backend/pkg/events"
)

var body = "<p>" + strings.Repeat("We canoed across the lake at sunrise. ", 3) + "</p>"

func postFields(title string) schema.Fields {
	return schema.Fields{"title": title, "author": "Camp Staff", "content": body}
}

func newService(t *testing.T, store docstore.Gateway, pages cache.PageCache) Service {
	t.Helper()
	return New(repo.NewClient(store), pages, events.NewBus(nil, "vlog"))
}

func TestCreate_Success(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, docstore.NewMemory(), cache.NewMemory(time.Minute))
	fixed := time.Date(2024, 6, 1, 8, 0, 0, 987654321, time.UTC)
	svc.(*vlogService).now = func() time.Time { return fixed }

	res := svc.Create(ctx, postFields("Summer Camp Adventures!"))
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Vlog post created successfully!", res.Message)
	assert.NotEmpty(t, res.ID)
	assert.Empty(t, res.Issues)

	post, err := svc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "summer-camp-adventures", post.Slug)
	assert.Equal(t, fixed.Truncate(time.Millisecond), post.CreatedAt)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
}

func TestCreate_Rejected(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	svc := newService(t, store, cache.NewMemory(time.Minute))

	res := svc.Create(ctx, schema.Fields{"title": "Hey", "author": "A", "content": "short"})
	assert.False(t, res.Success)
	assert.Equal(t, schema.MsgInvalidForm, res.Message)
	assert.Empty(t, res.ID)
	require.Len(t, res.Issues, 3)
	assert.Equal(t, "author", res.Issues[0].Field)

	assert.Empty(t, svc.List(ctx), "rejected post must not be stored")
}

func TestCreate_StorageFailure(t *testing.T) {
	svc := newService(t, testutil.DownStore{}, cache.NewMemory(time.Minute))

	res := svc.Create(context.Background(), postFields("Summer Camp Adventures!"))
	assert.False(t, res.Success)
	assert.Equal(t, "Database error. Failed to create vlog post.", res.Message)
	assert.Empty(t, res.ID)
	assert.NotContains(t, res.Message, "reachable")
}

func TestCreate_InvalidatesPages(t *testing.T) {
	ctx := context.Background()
	pages := cache.NewMemory(time.Hour)
	svc := newService(t, docstore.NewMemory(), pages)

	require.NoError(t, pages.Set(ctx, cache.KeyListing, []byte("[]")))
	require.NoError(t, pages.Set(ctx, cache.KeyPost("summer-camp-adventures"), []byte("null")))
	require.NoError(t, pages.Set(ctx, cache.KeyPost("unrelated"), []byte("{}")))

	res := svc.Create(ctx, postFields("Summer Camp Adventures!"))
	require.True(t, res.Success)

	_, ok, _ := pages.Get(ctx, cache.KeyListing)
	assert.False(t, ok, "listing page still cached")
	_, ok, _ = pages.Get(ctx, cache.KeyPost("summer-camp-adventures"))
	assert.False(t, ok, "post page still cached")
	_, ok, _ = pages.Get(ctx, cache.KeyPost("unrelated"))
	assert.True(t, ok, "unrelated page should survive")
}

func TestCreate_CacheFailureIsNotSurfaced(t *testing.T) {
	svc := newService(t, docstore.NewMemory(), testutil.BrokenCache{})

	res := svc.Create(context.Background(), postFields("Summer Camp Adventures!"))
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.ID)
}

func TestList_NewPostAtHead(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, docstore.NewMemory(), cache.NewMemory(time.Minute))

	for _, title := range []string{"First day at camp", "Second day at camp", "Third day at camp"} {
		res := svc.Create(ctx, postFields(title))
		require.True(t, res.Success)

		posts := svc.List(ctx)
		require.NotEmpty(t, posts)
		assert.Equal(t, res.ID, posts[0].ID, "new post should head the listing")
	}

	assert.Len(t, svc.List(ctx), 3)
}

func TestList_Excerpt(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, docstore.NewMemory(), cache.NewMemory(time.Minute))

	require.True(t, svc.Create(ctx, postFields("Summer Camp Adventures!")).Success)

	posts := svc.List(ctx)
	require.Len(t, posts, 1)
	assert.True(t, strings.HasSuffix(posts[0].Excerpt, "..."))
	assert.NotContains(t, posts[0].Excerpt, "<p>")
	assert.LessOrEqual(t, len([]rune(posts[0].Excerpt)), excerptLength+3)
}

func TestList_StorageFailureIsEmpty(t *testing.T) {
	svc := newService(t, testutil.DownStore{}, cache.NewMemory(time.Minute))

	posts := svc.List(context.Background())
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, docstore.NewMemory(), cache.NewMemory(time.Minute))

	require.True(t, svc.Create(ctx, postFields("Lake Canoe Trip")).Success)
	require.True(t, svc.Create(ctx, schema.Fields{
		"title":   "Campfire Songs",
		"author":  "Maria",
		"content": "<p>" + strings.Repeat("Guitars and marshmallows under the stars. ", 2) + "</p>",
	}).Success)

	tests := []struct {
		q    string
		want int
	}{
		{"", 2},
		{"  ", 2},
		{"CANOE", 1},
		{"maria", 1},
		{"marshmallows", 1},
		{"camp", 2},
		{"<p>", 0},
		{"nothing-matches", 0},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			assert.Len(t, svc.Search(ctx, tt.q), tt.want)
		})
	}
}

func TestGetBySlug(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, docstore.NewMemory(), cache.NewMemory(time.Minute))

	post, err := svc.GetBySlug(ctx, "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, post)

	res := svc.Create(ctx, postFields("Summer Camp Adventures!"))
	require.True(t, res.Success)

	post, err = svc.GetBySlug(ctx, "summer-camp-adventures")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, res.ID, post.ID)
}

func TestGetByID_Malformed(t *testing.T) {
	svc := newService(t, docstore.NewMemory(), cache.NewMemory(time.Minute))

	post, err := svc.GetByID(context.Background(), "not-an-object-id")
	assert.NoError(t, err)
	assert.Nil(t, post)
}

func TestGet_StorageFailure(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, testutil.DownStore{}, cache.NewMemory(time.Minute))

	_, err := svc.GetBySlug(ctx, "anything")
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = svc.GetByID(ctx, "507f1f77bcf86cd799439011")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestCreate_ConcurrentIdenticalTitles(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, docstore.NewMemory(), cache.NewMemory(time.Minute))

	const n = 8
	ids := make([]string, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			res := svc.Create(ctx, postFields("Summer Camp Adventures!"))
			if !res.Success {
				t.Errorf("create %d failed: %s", i, res.Message)
			}
			ids[i] = res.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	posts := svc.List(ctx)
	require.Len(t, posts, n)

	seen := make(map[string]bool, n)
	for _, p := range posts {
		assert.Equal(t, "summer-camp-adventures", p.Slug)
		seen[p.ID] = true
	}
	for _, id := range ids {
		assert.True(t, seen[id], "id %s not persisted", id)
	}
}
