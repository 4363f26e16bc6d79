package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStreamPublisher publishes harvested entities to Redis streams,
// one stream per entity kind. Downstream consumers replay the streams
// to build their own views.
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a publisher from an existing client.
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// NewRedisPublisher creates a publisher with its own connection.
func NewRedisPublisher(redisURL string) (*RedisStreamPublisher, error) {
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

	return &RedisStreamPublisher{
		client: client,
	}, nil
}

// Close closes the Redis connection.
func (rsp *RedisStreamPublisher) Close() error {
	return rsp.client.Close()
}

// PublishEntity publishes one harvested record to the stream for its kind.
// kind is the bare entity name, e.g. "match" or "player_stats".
func (rsp *RedisStreamPublisher) PublishEntity(ctx context.Context, kind string, entity interface{}) error {
	streamName := "rugby.entities." + kind

	data, err := json.Marshal(entity)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}

// PublishRunStatus publishes a harvest progress snapshot.
func (rsp *RedisStreamPublisher) PublishRunStatus(ctx context.Context, status interface{}) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: "rugby.harvest.status",
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
