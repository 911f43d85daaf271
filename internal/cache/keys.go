package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	ThreadKeyPrefix     = "thread:%d"
	CategoriesKey       = "categories"
	ThreadListKeyPrefix = "threads:%s"
)

const (
	UserTTL       = 5 * time.Minute
	ThreadTTL     = 2 * time.Minute
	CategoriesTTL = 10 * time.Minute
	ThreadListTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ThreadKey(threadID uint) string {
	return fmt.Sprintf(ThreadKeyPrefix, threadID)
}

// ThreadListKey builds a cache key from a canonical filter signature.
func ThreadListKey(signature string) string {
	return fmt.Sprintf(ThreadListKeyPrefix, signature)
}

// GetJSON reads key into dest. Returns false on miss, cache disabled or
// any Redis error.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON writes val under key with a TTL. Failures are ignored; the
// cache is best effort.
func SetJSON(ctx context.Context, key string, val any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateThread drops the thread entry and every cached listing.
func InvalidateThread(ctx context.Context, threadID uint) {
	Invalidate(ctx, ThreadKey(threadID))
	InvalidateThreadLists(ctx)
}

// InvalidateThreadLists drops all cached thread listings. Listings are
// keyed per filter signature so a SCAN is required.
func InvalidateThreadLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, fmt.Sprintf(ThreadListKeyPrefix, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// Healthy reports whether the cache is configured and reachable.
func Healthy(ctx context.Context) bool {
	if client == nil {
		return false
	}
	return client.Ping(ctx).Err() == nil
}
