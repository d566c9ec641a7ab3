package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// RedisRepository keeps revoked token ids in redis until they expire.
type RedisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

// Revoke uses SETNX so that only one caller wins for a given jti.
func (r *RedisRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	return r.rdb.SetNX(ctx, blacklistPrefix+jti, "true", ttl).Result()
}

func (r *RedisRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	return exists == 1, err
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
