package resume

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "profile:"

// RedisCache keeps extracted profiles in Redis so multiple workers share one
// extraction. Errors degrade to a cache miss; the extractor never fails
// because Redis is down.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Profile, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("profile cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		c.logger.Warn("profile cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return &profile, true
}

func (c *RedisCache) Set(ctx context.Context, key string, profile *Profile) {
	data, err := json.Marshal(profile)
	if err != nil {
		c.logger.Warn("marshal profile for cache", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("profile cache set failed", zap.String("key", key), zap.Error(err))
	}
}
