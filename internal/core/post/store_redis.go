// Copyright (c) 2026 Inkpress. All rights reserved.

package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/inkpress/inkpress/internal/platform/constants"
)

// # Redis View Store

// redisViewStore implements [ViewStore] on Redis.
//
// View counters live under one key per post (post:views:<id>) and are folded
// into the durable row by a periodic drain. The popular selection is cached
// as a single JSON blob with a short TTL.
type redisViewStore struct {
	client *redis.Client
}

// NewViewStore constructs a Redis backed view counter store.
func NewViewStore(client *redis.Client) ViewStore {
	return &redisViewStore{client: client}
}

func (store *redisViewStore) IncrementView(context context.Context, postID string) error {
	if err := store.client.Incr(context, constants.RedisPrefixPostViews+postID).Err(); err != nil {
		return fmt.Errorf("redis_view_store_incr_failed: %w", err)
	}
	return nil
}

/*
DrainViews reads and resets all pending view counters.

Description: Scans the counter keyspace and uses GETDEL per key, so a count
is never lost and never applied twice. Partial drains on error are fine; the
remaining keys survive for the next cycle.
*/
func (store *redisViewStore) DrainViews(context context.Context) (map[string]int64, error) {
	deltas := make(map[string]int64)

	iter := store.client.Scan(context, 0, constants.RedisPrefixPostViews+"*", 100).Iterator()
	for iter.Next(context) {
		key := iter.Val()

		value, err := store.client.GetDel(context, key).Int64()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return deltas, fmt.Errorf("redis_view_store_getdel_failed: %w", err)
		}

		postID := strings.TrimPrefix(key, constants.RedisPrefixPostViews)
		deltas[postID] += value
	}
	if err := iter.Err(); err != nil {
		return deltas, fmt.Errorf("redis_view_store_scan_failed: %w", err)
	}

	return deltas, nil
}

func (store *redisViewStore) CachePopular(context context.Context, posts []*Post) error {
	payload, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("redis_view_store_marshal_failed: %w", err)
	}

	err = store.client.Set(context, constants.RedisKeyPopularPosts, payload, constants.RedisPopularPostsTTL).Err()
	if err != nil {
		return fmt.Errorf("redis_view_store_cache_failed: %w", err)
	}
	return nil
}

// PopularFromCache returns the cached popular selection. A cache miss is not
// an error; it returns (nil, nil) and the caller falls through to Postgres.
func (store *redisViewStore) PopularFromCache(context context.Context) ([]*Post, error) {
	payload, err := store.client.Get(context, constants.RedisKeyPopularPosts).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_view_store_get_failed: %w", err)
	}

	var posts []*Post
	if err := json.Unmarshal(payload, &posts); err != nil {
		return nil, fmt.Errorf("redis_view_store_unmarshal_failed: %w", err)
	}
	return posts, nil
}
