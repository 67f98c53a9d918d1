// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// listcache.go provides a Valkey-backed cache for the rendered post list.
// Listing posts requires a full collection scan and a Markdown render per
// post, so the resulting HTML is kept in Valkey and dropped whenever a new
// post is stored. Cache failures are logged and degrade to a direct render.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix is the Valkey key prefix for cached pages.
	listKeyPrefix = "page:"

	// DefaultListTTL bounds staleness even if an invalidation is lost.
	DefaultListTTL = 5 * time.Minute
)

// ListCache manages the cached post-list HTML in Valkey.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get retrieves cached HTML for a page key. Returns false on miss or error.
func (lc *ListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("list cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (lc *ListCache) Set(ctx context.Context, key string, html []byte) {
	if err := lc.client.Set(ctx, listKeyPrefix+key, html, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a cached page. Called after every successful post
// insert so the list never serves a stale view past one write.
func (lc *ListCache) Invalidate(ctx context.Context, key string) {
	if err := lc.client.Del(ctx, listKeyPrefix+key).Err(); err != nil {
		slog.Warn("list cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("list cache invalidated", "key", key)
}

// PostListKey returns the cache key for the full post listing.
func PostListKey() string {
	return "_post_list"
}
