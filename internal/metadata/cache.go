package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookmarks-rocks/api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "bookmarks:meta:"

// Source is the fetch dependency shared by the enricher and the
// synchronous refresh path. Both *Fetcher and *CachedFetcher satisfy it.
type Source interface {
	Fetch(ctx context.Context, url string) (domain.Metadata, error)
}

// CachedFetcher puts a Redis read-through cache in front of a Fetcher
// so two users bookmarking the same URL inside the TTL hit the network
// once. Cache failures degrade to a plain fetch.
type CachedFetcher struct {
	inner  Source
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedFetcher(inner Source, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedFetcher {
	return &CachedFetcher{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "metadata_cache"),
	}
}

func (c *CachedFetcher) Fetch(ctx context.Context, url string) (domain.Metadata, error) {
	key := cacheKeyPrefix + url

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var meta domain.Metadata
		if err := json.Unmarshal([]byte(raw), &meta); err == nil {
			return meta, nil
		}
		// Unreadable entry: drop it and fall through to a real fetch.
		_ = c.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("cache read failed", "url", url, "error", err)
	}

	meta, err := c.inner.Fetch(ctx, url)
	if err != nil {
		return domain.Metadata{}, err
	}

	if raw, err := json.Marshal(meta); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", "url", url, "error", err)
		}
	}
	return meta, nil
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
