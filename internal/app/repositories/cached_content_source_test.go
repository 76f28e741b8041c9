package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/repositories"
	"github.com/yigit/alumnet/internal/app/session"
)

// countingSource is an in-memory ContentSource that counts fetches
type countingSource struct {
	jobs   []models.Job
	events []models.Event
	posts  []models.Post
	err    error
	calls  map[string]int
}

func newCountingSource() *countingSource {
	return &countingSource{
		jobs:   []models.Job{{ID: "j1", PostedAt: "2024-01-01"}},
		events: []models.Event{{ID: "e1", Date: "2024-01-02"}},
		posts:  []models.Post{{ID: "p1", PostedAt: "2024-01-03"}},
		calls:  map[string]int{},
	}
}

func (s *countingSource) ListJobs(context.Context, session.Session) ([]models.Job, error) {
	s.calls["jobs"]++
	return s.jobs, s.err
}

func (s *countingSource) ListEvents(context.Context, session.Session) ([]models.Event, error) {
	s.calls["events"]++
	return s.events, s.err
}

func (s *countingSource) ListPosts(context.Context, session.Session) ([]models.Post, error) {
	s.calls["posts"]++
	return s.posts, s.err
}

func newCache(t *testing.T, src repositories.ContentSource) (*miniredis.Miniredis, *repositories.CachedContentSource) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, repositories.NewCachedContentSource(src, client, 15*time.Second, zerolog.Nop())
}

func TestCachedContentSourceReadsThrough(t *testing.T) {
	src := newCountingSource()
	mr, cache := newCache(t, src)
	ctx := context.Background()

	first, err := cache.ListJobs(ctx, session.Session{})
	require.NoError(t, err)
	second, err := cache.ListJobs(ctx, session.Session{})
	require.NoError(t, err)

	assert.Equal(t, src.jobs, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls["jobs"])
	assert.True(t, mr.Exists("alumnet:content:jobs"))
	assert.Equal(t, 15*time.Second, mr.TTL("alumnet:content:jobs"))
}

func TestCachedContentSourceExpires(t *testing.T) {
	src := newCountingSource()
	mr, cache := newCache(t, src)
	ctx := context.Background()

	_, err := cache.ListPosts(ctx, session.Session{})
	require.NoError(t, err)
	mr.FastForward(16 * time.Second)
	_, err = cache.ListPosts(ctx, session.Session{})
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls["posts"])
}

func TestCachedContentSourceFallsBackWhenRedisDown(t *testing.T) {
	src := newCountingSource()
	mr, cache := newCache(t, src)
	mr.Close()

	events, err := cache.ListEvents(context.Background(), session.Session{})
	require.NoError(t, err)
	assert.Equal(t, src.events, events)
	assert.Equal(t, 1, src.calls["events"])
}

func TestCachedContentSourceDoesNotCacheFailures(t *testing.T) {
	src := newCountingSource()
	src.err = errors.New("content service down")
	mr, cache := newCache(t, src)

	_, err := cache.ListJobs(context.Background(), session.Session{})
	assert.Error(t, err)
	assert.False(t, mr.Exists("alumnet:content:jobs"))
}

func TestCachedContentSourceInvalidate(t *testing.T) {
	src := newCountingSource()
	mr, cache := newCache(t, src)
	ctx := context.Background()

	_, err := cache.ListJobs(ctx, session.Session{})
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists("alumnet:content:jobs"))
}

func TestCachedContentSourceDiscardsCorruptEntry(t *testing.T) {
	src := newCountingSource()
	mr, cache := newCache(t, src)
	require.NoError(t, mr.Set("alumnet:content:posts", "{not json"))

	posts, err := cache.ListPosts(context.Background(), session.Session{})
	require.NoError(t, err)
	assert.Equal(t, src.posts, posts)
	assert.Equal(t, 1, src.calls["posts"])
}
