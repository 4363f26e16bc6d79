package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache holds fast harvest state, in particular the per-category
// crawl cursors that let an interrupted harvest resume where it left off.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection.
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client.
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection.
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func cursorKey(category int) string {
	return fmt.Sprintf("rugby:crawl:cursor:%d", category)
}

// SetCrawlCursor records the last completed search page for a category.
func (rc *RedisCache) SetCrawlCursor(ctx context.Context, category, page int) error {
	return rc.client.Set(ctx, cursorKey(category), page, 0).Err()
}

// CrawlCursor returns the stored page for a category, or 1 when none is set.
func (rc *RedisCache) CrawlCursor(ctx context.Context, category int) (int, error) {
	val, err := rc.client.Get(ctx, cursorKey(category)).Result()
	if err == redis.Nil {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	page, err := strconv.Atoi(val)
	if err != nil || page < 1 {
		return 1, nil
	}
	return page, nil
}

// ClearCrawlCursor removes the cursor for a finished category.
func (rc *RedisCache) ClearCrawlCursor(ctx context.Context, category int) error {
	return rc.client.Del(ctx, cursorKey(category)).Err()
}

// MarkSeen flags a match id as already harvested for the dedup window.
func (rc *RedisCache) MarkSeen(ctx context.Context, matchID string, ttl time.Duration) error {
	return rc.client.Set(ctx, "rugby:seen:"+matchID, 1, ttl).Err()
}

// Seen reports whether a match id was harvested within the dedup window.
func (rc *RedisCache) Seen(ctx context.Context, matchID string) (bool, error) {
	n, err := rc.client.Exists(ctx, "rugby:seen:"+matchID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
