package blocklist

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const keyBlockedIPs = "blocked_ips"

type redisRepository struct {
	client *redis.Client
}

// NewRedis keeps the block-set in a Redis set.
func NewRedis(client *redis.Client) Repository {
	return &redisRepository{client: client}
}

func (r *redisRepository) Contains(ctx context.Context, ip string) (bool, error) {
	return r.client.SIsMember(ctx, keyBlockedIPs, ip).Result()
}

func (r *redisRepository) Add(ctx context.Context, ip string) error {
	return r.client.SAdd(ctx, keyBlockedIPs, ip).Err()
}
