package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/pkg/metrics"
)

const contentKeyPrefix = "alumnet:content:"

// CachedContentSource is a read-through redis cache over a ContentSource.
// Only the raw collections are cached, never the aggregated feed. Redis
// failures fall back to the wrapped source.
type CachedContentSource struct {
	next   ContentSource
	client redis.Cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedContentSource creates a new CachedContentSource
func NewCachedContentSource(next ContentSource, client redis.Cmdable, ttl time.Duration, logger zerolog.Logger) *CachedContentSource {
	return &CachedContentSource{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "content_cache").Logger(),
	}
}

// ListJobs returns the cached job collection, fetching it on a miss
func (c *CachedContentSource) ListJobs(ctx context.Context, sess session.Session) ([]models.Job, error) {
	return readThrough(ctx, c, "jobs", func() ([]models.Job, error) {
		return c.next.ListJobs(ctx, sess)
	})
}

// ListEvents returns the cached event collection, fetching it on a miss
func (c *CachedContentSource) ListEvents(ctx context.Context, sess session.Session) ([]models.Event, error) {
	return readThrough(ctx, c, "events", func() ([]models.Event, error) {
		return c.next.ListEvents(ctx, sess)
	})
}

// ListPosts returns the cached post collection, fetching it on a miss
func (c *CachedContentSource) ListPosts(ctx context.Context, sess session.Session) ([]models.Post, error) {
	return readThrough(ctx, c, "posts", func() ([]models.Post, error) {
		return c.next.ListPosts(ctx, sess)
	})
}

// Invalidate drops every cached collection
func (c *CachedContentSource) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, contentKeyPrefix+"jobs", contentKeyPrefix+"events", contentKeyPrefix+"posts").Err()
}

func readThrough[T any](ctx context.Context, c *CachedContentSource, collection string, fetch func() ([]T, error)) ([]T, error) {
	key := contentKeyPrefix + collection

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []T
		jsonErr := json.Unmarshal(raw, &items)
		if jsonErr == nil {
			metrics.RecordCache(collection, "hit")
			return items, nil
		}
		c.logger.Warn().Err(jsonErr).Str("key", key).Msg("Discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
		metrics.RecordCache(collection, "miss")
	default:
		metrics.RecordCache(collection, "error")
		c.logger.Warn().Err(err).Str("key", key).Msg("Content cache unavailable, reading through")
	}

	items, err := fetch()
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode content for cache")
		return items, nil
	}
	if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to store content in cache")
	}

	return items, nil
}
