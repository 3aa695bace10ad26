package dedup

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rotisserie/eris"
)

const redisKeyPrefix = "reception:seen:"

// Redis is a Store backed by a shared Redis, for multi-instance
// deployments where every instance must agree on what has been seen.
type Redis struct {
	client *redis.Client
	window time.Duration
}

// NewRedis creates a Redis store. The window is enforced by key expiry.
func NewRedis(client *redis.Client, window time.Duration) *Redis {
	return &Redis{client: client, window: window}
}

func (r *Redis) MarkSeen(ctx context.Context, id string) (bool, error) {
	set, err := r.client.SetNX(ctx, redisKeyPrefix+id, 1, r.window).Result()
	if err != nil {
		return false, eris.Wrap(err, "dedup: redis setnx")
	}
	return !set, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Store = (*Redis)(nil)
