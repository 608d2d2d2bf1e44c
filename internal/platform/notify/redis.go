package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ChannelPrefix namespaces the per-business pub/sub channels.
const ChannelPrefix = "ventasve:business:"

// RedisPublisher publishes each message on the owning business' pub/sub channel, where the
// dashboard websocket relay is subscribed.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisClient dials addr and verifies connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// NewRedisPublisher wraps an established client. The caller owns the client lifecycle.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Channel returns the pub/sub channel for businessID.
func Channel(businessID string) string {
	return ChannelPrefix + businessID + ":events"
}

// Publish marshals msg and publishes it on the business channel.
func (p *RedisPublisher) Publish(ctx context.Context, msg Message) error {
	if p == nil || p.rdb == nil {
		return fmt.Errorf("redis publisher not configured")
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel(msg.BusinessID), payload).Err()
}
